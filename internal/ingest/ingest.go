package ingest

import (
	"context"
	"fmt"

	"quizgen/internal/util"
	"quizgen/pkg/chunk"
	"quizgen/pkg/loader"
	"quizgen/pkg/logger"
	"quizgen/pkg/vector"

	"github.com/pkoukk/tiktoken-go"
)

// Embedding batch size bounds peak memory while ingesting large corpora.
const embedBatchSize = 100

// Embedder is the batch embedding call the pipeline depends on; the
// full ai.QuizAIClient satisfies it.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error)
}

// DocumentStore receives every ingested chunk as a fact under the
// ingest topic.
type DocumentStore interface {
	UpsertDocument(ctx context.Context, topic string, chunkIndex int, text string) (bool, error)
}

// Pipeline turns a set of PDF documents into the two retrieval
// artifacts: the chunk corpus and the vector index, persisted side by
// side so row i of the index always addresses chunk i. It also writes
// every chunk into the graph fact store.
type Pipeline struct {
	source    loader.DocumentSource
	extractor loader.DocumentLoader
	embedder  Embedder
	store     DocumentStore

	chunkSize  int
	maxTries   int
	indexPath  string
	chunksPath string
}

// NewPipelineParams configures an ingestion Pipeline. ChunkSize defaults
// to the chunker default and MaxTries to 3 embedding attempts per batch.
type NewPipelineParams struct {
	Source    loader.DocumentSource
	Extractor loader.DocumentLoader
	Embedder  Embedder
	Store     DocumentStore

	ChunkSize  int
	MaxTries   int
	IndexPath  string
	ChunksPath string
}

// NewPipeline creates a Pipeline.
func NewPipeline(params NewPipelineParams) *Pipeline {
	chunkSize := params.ChunkSize
	if chunkSize <= 0 {
		chunkSize = chunk.DefaultChunkSize
	}
	maxTries := params.MaxTries
	if maxTries <= 0 {
		maxTries = 3
	}

	return &Pipeline{
		source:    params.Source,
		extractor: params.Extractor,
		embedder:  params.Embedder,
		store:     params.Store,

		chunkSize:  chunkSize,
		maxTries:   maxTries,
		indexPath:  params.IndexPath,
		chunksPath: params.ChunksPath,
	}
}

// Run executes the full ingestion for one topic: extract, chunk, embed,
// persist index and corpus together, and store every chunk as a fact.
func (p *Pipeline) Run(ctx context.Context, topic string) error {
	chunks, err := p.ProcessPDFs(ctx)
	if err != nil {
		return fmt.Errorf("process documents: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no text extracted from any document")
	}

	logger.Info("[Ingest] Extracted chunks",
		"topic", topic,
		"chunks", len(chunks),
		"tokens", countTokens(chunks),
	)

	embeddings, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	index, err := vector.NewIndex(len(embeddings[0]))
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := index.Add(embeddings...); err != nil {
		return fmt.Errorf("fill index: %w", err)
	}

	// Corpus and index are written together so their rows stay aligned.
	corpus := chunk.NewCorpus(chunks)
	if err := corpus.Save(p.chunksPath); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}
	if err := index.Write(p.indexPath); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	for i, text := range chunks {
		if _, err := p.store.UpsertDocument(ctx, topic, i, text); err != nil {
			return fmt.Errorf("store chunk %d: %w", i, err)
		}
	}

	logger.Info("[Ingest] Ingestion complete",
		"topic", topic,
		"index", p.indexPath,
		"corpus", p.chunksPath,
	)
	return nil
}

// ProcessPDFs extracts and chunks the text of every document the source
// lists. A document that fails to parse contributes nothing; it is
// logged and skipped so one broken file cannot sink the whole run. The
// chunk order follows the source's listing order.
func (p *Pipeline) ProcessPDFs(ctx context.Context) ([]string, error) {
	docs, err := p.source.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var chunks []string
	for _, doc := range docs {
		text, err := p.extractor.GetFileText(ctx, doc)
		if err != nil {
			logger.Error("[Ingest] Failed to extract document", "doc", doc.Path, "err", err)
			continue
		}

		flat := util.CollapseNewlines(string(text))
		docChunks := chunk.Split(flat, p.chunkSize)
		chunks = append(chunks, docChunks...)

		logger.Debug("[Ingest] Processed document", "doc", doc.Path, "chunks", len(docChunks))
	}

	return chunks, nil
}

func (p *Pipeline) embedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		batch := make([][]byte, 0, end-start)
		for _, text := range chunks[start:end] {
			batch = append(batch, []byte(text))
		}

		vecs, err := util.RetryWithContext(ctx, p.maxTries, func(ctx context.Context) ([][]float32, error) {
			return p.embedder.GenerateEmbeddings(ctx, batch)
		})
		if err != nil {
			return nil, fmt.Errorf("batch starting at %d: %w", start, err)
		}
		embeddings = append(embeddings, vecs...)

		logger.Debug("[Ingest] Embedded batch", "from", start, "to", end)
	}

	return embeddings, nil
}

func countTokens(chunks []string) int {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return 0
	}

	total := 0
	for _, text := range chunks {
		total += len(enc.Encode(text, nil, nil))
	}
	return total
}
