package retrieval

import (
	"context"
	"fmt"

	"quizgen/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// DefaultTopK is the number of vector-search chunks retrieved when the
// caller does not say otherwise.
const DefaultTopK = 5

// FactStore is the graph-side read the coordinator depends on.
type FactStore interface {
	RetrieveFacts(ctx context.Context, topic string) ([]string, error)
}

// ChunkSearcher is the vector-side read the coordinator depends on.
type ChunkSearcher interface {
	SearchTopic(ctx context.Context, topic string, topK int) ([]string, error)
}

// Coordinator merges graph facts and vector-search chunks into the single
// ordered context list used for generation. Graph facts come first,
// vector chunks second; the two sources are concatenated verbatim with no
// cross-source dedup and no re-ranking.
type Coordinator struct {
	newFactStore func() FactStore
	searcher     ChunkSearcher
}

// NewCoordinatorParams contains the dependencies for a Coordinator.
// NewFactStore is called once per search so the graph store handle is
// scoped to the call rather than held for the coordinator's lifetime.
type NewCoordinatorParams struct {
	NewFactStore func() FactStore
	Searcher     ChunkSearcher
}

// NewCoordinator creates a retrieval Coordinator.
func NewCoordinator(params NewCoordinatorParams) *Coordinator {
	return &Coordinator{
		newFactStore: params.NewFactStore,
		searcher:     params.Searcher,
	}
}

// SearchTopic returns the combined context for a topic. The graph-fact
// read and the vector search are independent, so they run concurrently;
// either failure fails the whole search. topK <= 0 selects DefaultTopK.
func (c *Coordinator) SearchTopic(ctx context.Context, topic string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	var facts, chunks []string
	eg, ectx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		store := c.newFactStore()
		result, err := store.RetrieveFacts(ectx, topic)
		if err != nil {
			return fmt.Errorf("retrieve facts: %w", err)
		}
		facts = result
		return nil
	})

	eg.Go(func() error {
		result, err := c.searcher.SearchTopic(ectx, topic, topK)
		if err != nil {
			return fmt.Errorf("vector search: %w", err)
		}
		chunks = result
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("[Retrieval] Combined context assembled", "topic", topic, "facts", len(facts), "chunks", len(chunks))

	combined := make([]string, 0, len(facts)+len(chunks))
	combined = append(combined, facts...)
	combined = append(combined, chunks...)
	return combined, nil
}
