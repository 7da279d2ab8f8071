package vector

import (
	"context"
	"fmt"

	"quizgen/pkg/chunk"
	"quizgen/pkg/logger"
)

// Embedder produces the query-time embedding for a topic string. It must
// be the same model used when the index was built.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)
}

// Searcher answers topic similarity queries against an index and the
// chunk corpus it was built with. It holds both as immutable, eagerly
// loaded state for the process lifetime.
type Searcher struct {
	index    *Index
	corpus   *chunk.Corpus
	embedder Embedder
}

// NewSearcherParams contains the dependencies for creating a Searcher.
type NewSearcherParams struct {
	Index    *Index
	Corpus   *chunk.Corpus
	Embedder Embedder
}

// NewSearcher creates a Searcher over a loaded index and corpus.
func NewSearcher(params NewSearcherParams) *Searcher {
	return &Searcher{
		index:    params.Index,
		corpus:   params.Corpus,
		embedder: params.Embedder,
	}
}

// SearchTopic embeds the topic and returns the texts of the topK nearest
// chunks by L2 distance. Rows at or beyond the corpus length are skipped;
// a consistent index never produces them, but a stale index file paired
// with a newer corpus can.
func (s *Searcher) SearchTopic(ctx context.Context, topic string, topK int) ([]string, error) {
	embedding, err := s.embedder.GenerateEmbedding(ctx, []byte(topic))
	if err != nil {
		return nil, fmt.Errorf("embed topic: %w", err)
	}

	results, err := s.index.Search(embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	chunks := make([]string, 0, len(results))
	for _, res := range results {
		text, ok := s.corpus.Get(res.Row)
		if !ok {
			logger.Warn("[Vector] Index row has no corpus chunk, skipping", "row", res.Row, "corpus", s.corpus.Len())
			continue
		}
		chunks = append(chunks, text)
	}
	return chunks, nil
}
