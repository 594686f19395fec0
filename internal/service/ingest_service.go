package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/entity"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/repository/specification"
	"doccoder-be/internal/repository/unitofwork"
	"doccoder-be/pkg/codec"
	"doccoder-be/pkg/content"
	"doccoder-be/pkg/embedding"
	"doccoder-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	// ErrDocumentGone means the document was deleted before it could be ingested.
	ErrDocumentGone = errors.New("document not found")
	ErrNoEmbeddings = errors.New("embedding provider not configured")
)

const ingestLog = "INGEST"

type IIngestService interface {
	// IngestFile stores the upload as a document and embeds it before returning.
	IngestFile(ctx context.Context, userId uuid.UUID, file content.UploadedFile) (*dto.IngestResponse, error)
	// IngestDocument rebuilds the chunks of a stored document and returns their count.
	IngestDocument(ctx context.Context, documentId uuid.UUID) (int, error)
}

type ingestService struct {
	uowFactory   unitofwork.RepositoryFactory
	reader       *codec.Reader
	embedder     embedding.EmbeddingProvider
	chunkSize    int
	chunkOverlap int
	logger       logger.ILogger
}

// NewIngestService accepts a nil embedder; ingestion then fails with ErrNoEmbeddings.
func NewIngestService(
	uowFactory unitofwork.RepositoryFactory,
	reader *codec.Reader,
	embedder embedding.EmbeddingProvider,
	chunkSize, chunkOverlap int,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		uowFactory:   uowFactory,
		reader:       reader,
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       log,
	}
}

func (s *ingestService) IngestFile(ctx context.Context, userId uuid.UUID, file content.UploadedFile) (*dto.IngestResponse, error) {
	if s.embedder == nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "Embeddings are not configured.")
	}

	extracted, err := s.reader.Read(ctx, file)
	if err != nil {
		return nil, err
	}
	if extracted.Text == "" {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("No text could be read from %s.", file.Name))
	}

	doc := entity.Document{
		Id:        uuid.New(),
		UserId:    userId,
		FileName:  file.Name,
		FileType:  string(codec.Detect(file.Name, file.MimeType, file.Data)),
		FileSize:  int64(len(file.Data)),
		Content:   extracted.Text,
		Operation: entity.OperationUpload,
		Status:    entity.DocumentStatusCompleted,
		CreatedAt: time.Now(),
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	// page markers let chunks remember where they came from
	text := extracted.Text
	if len(extracted.Pages) > 1 {
		text = rag.WithPageMarkers(extracted.Pages)
	}

	n, err := s.store(ctx, &doc, text)
	if err != nil {
		return nil, err
	}
	return &dto.IngestResponse{
		DocumentId: &doc.Id,
		FileName:   doc.FileName,
		Chunks:     n,
		Embedded:   true,
	}, nil
}

func (s *ingestService) IngestDocument(ctx context.Context, documentId uuid.UUID) (int, error) {
	if s.embedder == nil {
		return 0, ErrNoEmbeddings
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return 0, err
	}
	if doc == nil {
		return 0, ErrDocumentGone
	}
	return s.store(ctx, doc, doc.Content)
}

// store embeds every chunk first, then swaps the document's chunks in one transaction.
func (s *ingestService) store(ctx context.Context, doc *entity.Document, text string) (int, error) {
	chunks := rag.ChunkDocument(text, rag.ChunkMeta{
		SourceID:   base64.StdEncoding.EncodeToString([]byte(doc.FileName)),
		SourceName: doc.FileName,
	}, s.chunkSize, s.chunkOverlap)

	s.logger.Info(ingestLog, "Embedding document", map[string]interface{}{
		"document_id": doc.Id,
		"chunks":      len(chunks),
		"content_len": len(text),
	})

	rows := make([]*entity.DocumentChunk, 0, len(chunks))
	for _, c := range chunks {
		res, err := s.embedder.Generate(ctx, c.Content, embedding.TaskDocument)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d of %s: %w", c.Index, doc.Id, err)
		}
		rows = append(rows, &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: doc.Id,
			ChunkIndex: c.Index,
			PageNumber: c.Meta.PageNumber,
			Content:    c.Content,
			Embedding:  res.Embedding.Values,
			CreatedAt:  time.Now(),
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		return 0, err
	}
	if len(rows) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, rows); err != nil {
			return 0, err
		}
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.logger.Info(ingestLog, "Document ingested", map[string]interface{}{
		"document_id": doc.Id,
		"chunks":      len(rows),
	})
	return len(rows), nil
}
