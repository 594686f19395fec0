package rag

import (
	"context"
	"encoding/base64"
	"sort"
	"strings"

	"doccoder-be/internal/pkg/logger"
	"doccoder-be/pkg/embedding"
	"doccoder-be/pkg/utils"
)

const (
	vectorTopK    = 3
	heuristicTopN = 2
	chunkJoin     = "\n\n---\n\n"

	StrategyWhole     = "whole"
	StrategyHeuristic = "heuristic"
	StrategyVector    = "vector"
)

type ScoredChunk struct {
	Content    string
	PageNumber int
	Similarity float64
}

// VectorStore searches stored chunks of one document by embedding.
type VectorStore interface {
	SearchSimilar(ctx context.Context, documentID string, vector []float32, limit int) ([]ScoredChunk, error)
}

type RetrievalMeta struct {
	SourceID       string  `json:"sourceId"`
	SourceName     string  `json:"sourceName"`
	Intent         string  `json:"intent"`
	Strategy       string  `json:"strategy"`
	BestSimilarity float64 `json:"bestSimilarity,omitempty"`
	Pages          []int   `json:"pages,omitempty"`
}

type RetrievalResult struct {
	Content  string        `json:"content"`
	Metadata RetrievalMeta `json:"metadata"`
}

type Retriever struct {
	embedder embedding.EmbeddingProvider
	store    VectorStore
	logger   logger.ILogger
}

// NewRetriever accepts nil embedder or store; retrieval is then heuristic only.
func NewRetriever(embedder embedding.EmbeddingProvider, store VectorStore, log logger.ILogger) *Retriever {
	return &Retriever{embedder: embedder, store: store, logger: log}
}

// GetRelevantContext selects the parts of source that matter for query.
// Vector search is tried first when a document id is given; any error there
// falls back to term matching over source.
func (r *Retriever) GetRelevantContext(ctx context.Context, query, source, sourceName, documentID string) RetrievalResult {
	meta := RetrievalMeta{
		SourceID:   base64.StdEncoding.EncodeToString([]byte(sourceName)),
		SourceName: sourceName,
		Intent:     IdentifyIntent(query),
	}

	if documentID != "" && r.embedder != nil && r.store != nil {
		if res, ok := r.vector(ctx, query, documentID, meta); ok {
			return res
		}
	}

	content, strategy := SelectChunks(query, source)
	meta.Strategy = strategy
	return RetrievalResult{Content: content, Metadata: meta}
}

func (r *Retriever) vector(ctx context.Context, query, documentID string, meta RetrievalMeta) (RetrievalResult, bool) {
	emb, err := r.embedder.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		r.logger.Warn("RAG", "query embedding failed, using heuristic retrieval", map[string]interface{}{"error": err.Error()})
		return RetrievalResult{}, false
	}
	hits, err := r.store.SearchSimilar(ctx, documentID, emb.Embedding.Values, vectorTopK)
	if err != nil {
		r.logger.Warn("RAG", "vector search failed, using heuristic retrieval", map[string]interface{}{"error": err.Error(), "document_id": documentID})
		return RetrievalResult{}, false
	}
	if len(hits) == 0 {
		return RetrievalResult{}, false
	}

	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		parts = append(parts, h.Content)
		if h.Similarity > meta.BestSimilarity {
			meta.BestSimilarity = h.Similarity
		}
		if h.PageNumber > 0 {
			meta.Pages = append(meta.Pages, h.PageNumber)
		}
	}
	meta.Strategy = StrategyVector
	return RetrievalResult{Content: strings.Join(parts, chunkJoin), Metadata: meta}, true
}

// SelectChunks returns source whole when it fits in two chunks, otherwise the
// two chunks containing the most query terms longer than three characters.
func SelectChunks(query, source string) (string, string) {
	chunks := utils.SplitText(source, utils.DefaultChunkSize, utils.DefaultChunkOverlap)
	if len(chunks) <= heuristicTopN {
		return source, StrategyWhole
	}

	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len([]rune(t)) > 3 {
			terms = append(terms, t)
		}
	}

	type scored struct {
		chunk string
		score int
	}
	ranked := make([]scored, len(chunks))
	for i, c := range chunks {
		lc := strings.ToLower(c)
		n := 0
		for _, t := range terms {
			if strings.Contains(lc, t) {
				n++
			}
		}
		ranked[i] = scored{chunk: c, score: n}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	best := make([]string, 0, heuristicTopN)
	for _, s := range ranked[:heuristicTopN] {
		best = append(best, s.chunk)
	}
	return strings.Join(best, chunkJoin), StrategyHeuristic
}
