package retrieval

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeFactStore struct {
	facts []string
	err   error
	calls int
}

func (f *fakeFactStore) RetrieveFacts(ctx context.Context, topic string) ([]string, error) {
	f.calls++
	return f.facts, f.err
}

type fakeSearcher struct {
	chunks   []string
	err      error
	lastTopK int
}

func (f *fakeSearcher) SearchTopic(ctx context.Context, topic string, topK int) ([]string, error) {
	f.lastTopK = topK
	return f.chunks, f.err
}

func newTestCoordinator(store *fakeFactStore, searcher *fakeSearcher) *Coordinator {
	return NewCoordinator(NewCoordinatorParams{
		NewFactStore: func() FactStore { return store },
		Searcher:     searcher,
	})
}

func TestSearchTopicOrdersFactsFirst(t *testing.T) {
	t.Parallel()

	store := &fakeFactStore{facts: []string{"fact one", "fact two"}}
	searcher := &fakeSearcher{chunks: []string{"chunk one", "chunk two"}}

	got, err := newTestCoordinator(store, searcher).SearchTopic(context.Background(), "Photosynthesis", 2)
	if err != nil {
		t.Fatalf("search topic: %v", err)
	}

	want := []string{"fact one", "fact two", "chunk one", "chunk two"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected combined context: got %q, want %q", got, want)
	}
}

func TestSearchTopicKeepsDuplicatesAcrossSources(t *testing.T) {
	t.Parallel()

	store := &fakeFactStore{facts: []string{"same text"}}
	searcher := &fakeSearcher{chunks: []string{"same text"}}

	got, err := newTestCoordinator(store, searcher).SearchTopic(context.Background(), "topic", 1)
	if err != nil {
		t.Fatalf("search topic: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected verbatim concatenation with duplicates, got %q", got)
	}
}

func TestSearchTopicDefaultTopK(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{}
	_, err := newTestCoordinator(&fakeFactStore{}, searcher).SearchTopic(context.Background(), "topic", 0)
	if err != nil {
		t.Fatalf("search topic: %v", err)
	}
	if searcher.lastTopK != DefaultTopK {
		t.Fatalf("unexpected topK: got %d, want %d", searcher.lastTopK, DefaultTopK)
	}
}

func TestSearchTopicEmptySources(t *testing.T) {
	t.Parallel()

	got, err := newTestCoordinator(&fakeFactStore{}, &fakeSearcher{}).SearchTopic(context.Background(), "unknown", 5)
	if err != nil {
		t.Fatalf("search topic: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty context, got %q", got)
	}
}

func TestSearchTopicPropagatesErrors(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("graph store unreachable")
	_, err := newTestCoordinator(&fakeFactStore{err: storeErr}, &fakeSearcher{}).SearchTopic(context.Background(), "topic", 5)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected graph store error, got %v", err)
	}

	searchErr := errors.New("index unavailable")
	_, err = newTestCoordinator(&fakeFactStore{}, &fakeSearcher{err: searchErr}).SearchTopic(context.Background(), "topic", 5)
	if !errors.Is(err, searchErr) {
		t.Fatalf("expected searcher error, got %v", err)
	}
}
