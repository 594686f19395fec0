package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/pkg/content"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngest struct {
	err   error
	calls []uuid.UUID
}

func (f *fakeIngest) IngestFile(context.Context, uuid.UUID, content.UploadedFile) (*dto.IngestResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeIngest) IngestDocument(_ context.Context, id uuid.UUID) (int, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

// settled reports "ack" or "nack" for a processed message.
func settled(t *testing.T, msg *message.Message) string {
	t.Helper()
	select {
	case <-msg.Acked():
		return "ack"
	case <-msg.Nacked():
		return "nack"
	case <-time.After(time.Second):
		t.Fatal("message was neither acked nor nacked")
		return ""
	}
}

func TestConsumerProcessMessage(t *testing.T) {
	docID := uuid.New()
	valid, err := json.Marshal(dto.IngestDocumentMessage{DocumentId: docID})
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload []byte
		err     error
		want    string
		ingests int
	}{
		{"success", valid, nil, "ack", 1},
		{"malformed payload", []byte("{not json"), nil, "ack", 0},
		{"missing id", []byte(`{}`), nil, "ack", 0},
		{"document deleted", valid, ErrDocumentGone, "ack", 1},
		{"no embedder", valid, ErrNoEmbeddings, "ack", 1},
		{"retriable failure", valid, errors.New("db down"), "nack", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingest := &fakeIngest{err: tt.err}
			cs := &consumerService{ingest: ingest, logger: logger.NewNopLogger()}

			msg := message.NewMessage(watermill.NewUUID(), tt.payload)
			cs.processMessage(context.Background(), msg)

			assert.Equal(t, tt.want, settled(t, msg))
			assert.Len(t, ingest.calls, tt.ingests)
		})
	}
}
