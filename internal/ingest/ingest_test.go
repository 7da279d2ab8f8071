package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"quizgen/pkg/chunk"
	"quizgen/pkg/loader"
	"quizgen/pkg/vector"
)

type fakeSource struct {
	docs []loader.Document
	err  error
}

func (f *fakeSource) ListDocuments(ctx context.Context) ([]loader.Document, error) {
	return f.docs, f.err
}

type fakeExtractor struct {
	texts map[string]string
}

func (f *fakeExtractor) GetFileText(ctx context.Context, doc loader.Document) ([]byte, error) {
	text, ok := f.texts[doc.Path]
	if !ok {
		return nil, errors.New("parse failed")
	}
	return []byte(text), nil
}

type fakeEmbedder struct {
	dim        int
	batchSizes []int
	calls      int
	failCalls  int
}

func (f *fakeEmbedder) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	f.calls++
	if f.calls <= f.failCalls {
		return nil, errors.New("embedding service unavailable")
	}
	f.batchSizes = append(f.batchSizes, len(inputs))
	out := make([][]float32, len(inputs))
	for i := range inputs {
		vec := make([]float32, f.dim)
		vec[0] = float32(len(inputs[i]))
		out[i] = vec
	}
	return out, nil
}

type fakeDocStore struct {
	topic   string
	indexes []int
	texts   []string
}

func (f *fakeDocStore) UpsertDocument(ctx context.Context, topic string, chunkIndex int, text string) (bool, error) {
	f.topic = topic
	f.indexes = append(f.indexes, chunkIndex)
	f.texts = append(f.texts, text)
	return true, nil
}

func TestProcessPDFsSkipsBrokenDocuments(t *testing.T) {
	t.Parallel()

	source := &fakeSource{docs: []loader.Document{
		{ID: "a.pdf", Path: "a.pdf"},
		{ID: "broken.pdf", Path: "broken.pdf"},
		{ID: "b.pdf", Path: "b.pdf"},
	}}
	extractor := &fakeExtractor{texts: map[string]string{
		"a.pdf": "First sentence. Second sentence.",
		"b.pdf": "Third\nsentence. Fourth sentence.",
	}}

	p := NewPipeline(NewPipelineParams{
		Source:    source,
		Extractor: extractor,
	})

	chunks, err := p.ProcessPDFs(context.Background())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks from the parseable documents")
	}
	joined := strings.Join(chunks, " ")
	if !strings.Contains(joined, "First sentence") || !strings.Contains(joined, "Fourth sentence") {
		t.Fatalf("missing content from parseable documents: %q", joined)
	}
	if strings.Contains(joined, "\n") {
		t.Fatalf("newlines must be collapsed before chunking: %q", joined)
	}
}

func TestEmbedChunksBatches(t *testing.T) {
	t.Parallel()

	chunks := make([]string, 250)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("chunk %d", i)
	}

	embedder := &fakeEmbedder{dim: 4}
	p := NewPipeline(NewPipelineParams{Embedder: embedder})

	embeddings, err := p.embedChunks(context.Background(), chunks)
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(embeddings) != len(chunks) {
		t.Fatalf("embedding count: got %d, want %d", len(embeddings), len(chunks))
	}

	want := []int{100, 100, 50}
	if len(embedder.batchSizes) != len(want) {
		t.Fatalf("batch count: got %v, want %v", embedder.batchSizes, want)
	}
	for i, size := range want {
		if embedder.batchSizes[i] != size {
			t.Fatalf("batch %d size: got %d, want %d", i, embedder.batchSizes[i], size)
		}
	}
}

func TestEmbedChunksRetriesTransientFailure(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{dim: 4, failCalls: 2}
	p := NewPipeline(NewPipelineParams{Embedder: embedder, MaxTries: 3})

	embeddings, err := p.embedChunks(context.Background(), []string{"only chunk"})
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if len(embeddings) != 1 {
		t.Fatalf("embedding count: got %d, want 1", len(embeddings))
	}
	if embedder.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", embedder.calls)
	}
}

func TestRunAlignsCorpusAndIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	indexPath := filepath.Join(dir, "index.bin")
	chunksPath := filepath.Join(dir, "chunks.json")

	source := &fakeSource{docs: []loader.Document{{ID: "a.pdf", Path: "a.pdf"}}}
	extractor := &fakeExtractor{texts: map[string]string{
		"a.pdf": "Alpha sentence. Beta sentence. Gamma sentence.",
	}}
	store := &fakeDocStore{}

	p := NewPipeline(NewPipelineParams{
		Source:     source,
		Extractor:  extractor,
		Embedder:   &fakeEmbedder{dim: 8},
		Store:      store,
		ChunkSize:  20,
		IndexPath:  indexPath,
		ChunksPath: chunksPath,
	})

	if err := p.Run(context.Background(), "Greek Letters"); err != nil {
		t.Fatalf("run: %v", err)
	}

	corpus, err := chunk.LoadCorpus(chunksPath)
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	index, err := vector.Read(indexPath)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if corpus.Len() != index.Len() {
		t.Fatalf("corpus/index row mismatch: %d vs %d", corpus.Len(), index.Len())
	}

	if store.topic != "Greek Letters" {
		t.Fatalf("stored topic: got %q", store.topic)
	}
	if len(store.texts) != corpus.Len() {
		t.Fatalf("stored chunk count: got %d, want %d", len(store.texts), corpus.Len())
	}
	for i, idx := range store.indexes {
		if idx != i {
			t.Fatalf("chunk indexes must be sequential: got %v", store.indexes)
		}
	}
}
