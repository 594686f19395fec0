package embedding

import (
	"context"
	"fmt"
	"math"
)

// Dimensions of the document_chunks.embedding column.
const Dimensions = 1536

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// Task types passed through to providers that distinguish them.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

// NewProvider picks an embedder by name. An empty name means openai.
func NewProvider(kind, model, apiKey, ollamaURL string) (EmbeddingProvider, error) {
	switch kind {
	case "", "openai":
		return NewOpenAIProvider(apiKey, model), nil
	case "ollama":
		return NewOllamaProvider(ollamaURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", kind)
	}
}

// normalizeVector normalizes a vector to unit length (magnitude = 1)
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}

// fitDimensions zero-pads or truncates vec to Dimensions.
func fitDimensions(vec []float32) []float32 {
	if len(vec) == Dimensions {
		return vec
	}
	out := make([]float32, Dimensions)
	copy(out, vec)
	return out
}
