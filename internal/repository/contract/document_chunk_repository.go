package contract

import (
	"context"

	"doccoder-be/internal/entity"

	"github.com/google/uuid"
)

type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64 // 1 - cosine distance
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error)
	FindByDocumentId(ctx context.Context, documentId uuid.UUID) ([]*entity.DocumentChunk, error)
	SearchSimilarWithScore(ctx context.Context, documentId uuid.UUID, embedding []float32, limit int) ([]*ScoredDocumentChunk, error)
}
