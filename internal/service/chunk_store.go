package service

import (
	"context"

	"doccoder-be/internal/repository/unitofwork"
	"doccoder-be/pkg/rag"

	"github.com/google/uuid"
)

// chunkStore serves vector retrieval from the document_chunks table.
type chunkStore struct {
	uowFactory    unitofwork.RepositoryFactory
	minSimilarity float64
}

// NewChunkStore drops hits scoring below minSimilarity; zero keeps all of them.
func NewChunkStore(uowFactory unitofwork.RepositoryFactory, minSimilarity float64) rag.VectorStore {
	return &chunkStore{uowFactory: uowFactory, minSimilarity: minSimilarity}
}

func (c *chunkStore) SearchSimilar(ctx context.Context, documentID string, vector []float32, limit int) ([]rag.ScoredChunk, error) {
	id, err := uuid.Parse(documentID)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	hits, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, id, vector, limit)
	if err != nil {
		return nil, err
	}

	out := make([]rag.ScoredChunk, 0, len(hits))
	for _, h := range hits {
		if h.Similarity < c.minSimilarity {
			continue
		}
		out = append(out, rag.ScoredChunk{
			Content:    h.Chunk.Content,
			PageNumber: h.Chunk.PageNumber,
			Similarity: h.Similarity,
		})
	}
	return out, nil
}
