package service

import (
	"context"
	"encoding/json"
	"errors"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	ingest    IIngestService
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingest IIngestService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		ingest:    ingest,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.DocumentId == uuid.Nil {
		cs.logger.Error(ingestLog, "Dropping invalid message", map[string]interface{}{
			"message_id": msg.UUID,
			"payload":    string(msg.Payload),
		})
		msg.Ack() // invalid messages would be redelivered forever
		return
	}

	n, err := cs.ingest.IngestDocument(ctx, payload.DocumentId)
	switch {
	case errors.Is(err, ErrDocumentGone), errors.Is(err, ErrNoEmbeddings):
		cs.logger.Warn(ingestLog, "Skipping ingestion", map[string]interface{}{
			"document_id": payload.DocumentId,
			"reason":      err.Error(),
		})
		msg.Ack()
	case err != nil:
		cs.logger.Error(ingestLog, "Ingestion failed", map[string]interface{}{
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		msg.Nack()
	default:
		cs.logger.Info(ingestLog, "Ingestion finished", map[string]interface{}{
			"document_id": payload.DocumentId,
			"chunks":      n,
		})
		msg.Ack()
	}
}
