package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentEvents(t *testing.T) {
	ok := NewDocumentProcessed("d1", "u1", "a.pdf", "translate")
	assert.Equal(t, DocumentProcessed, ok.EventType())
	assert.Equal(t, "completed", ok.Payload()["status"])
	assert.NotContains(t, ok.Payload(), "error")

	failed := NewDocumentFailed("d1", "u1", "a.pdf", "ocr", errors.New("vision unsupported"))
	assert.Equal(t, DocumentFailed, failed.EventType())
	assert.Equal(t, "vision unsupported", failed.Payload()["error"])
	assert.False(t, failed.Timestamp().IsZero())

	var _ Event = ReceivedEvent{Type: "X"}
}
