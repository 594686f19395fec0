package nats

import (
	"context"
	"testing"

	"doccoder-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "documents.DOCUMENT_PROCESSED", Subject(events.DocumentProcessed))
	assert.Equal(t, "documents.DOCUMENT_FAILED", Subject(events.DocumentFailed))
}

func TestNopPublisher(t *testing.T) {
	var p EventPublisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), events.NewDocumentProcessed("d", "u", "f", "translate")))
}
