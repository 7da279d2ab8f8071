package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"quizgen/internal/ingest"
	"quizgen/internal/util"
	"quizgen/pkg/ai"
	"quizgen/pkg/graphstore"
	"quizgen/pkg/loader"
	ioloader "quizgen/pkg/loader/io"
	"quizgen/pkg/loader/pdf"
	s3loader "quizgen/pkg/loader/s3"
	"quizgen/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// IngestJobMsg is the payload published to the ingest queue. Source
// selects where the documents live: "s3" reads Prefix from the
// configured bucket, anything else reads Prefix as a local directory.
type IngestJobMsg struct {
	CorrelationID string `json:"correlation_id"`
	Topic         string `json:"topic"`
	Source        string `json:"source"`
	Prefix        string `json:"prefix"`
}

// ProcessIngest handles one ingest job: build the document source named
// by the message, run the ingestion pipeline, and write the retrieval
// artifacts configured via INDEX_PATH and CHUNKS_PATH.
func ProcessIngest(
	ctx context.Context,
	aiClient ai.QuizAIClient,
	pgConn *pgxpool.Pool,
	body []byte,
) error {
	var job IngestJobMsg
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("unmarshal ingest job: %w", err)
	}
	if job.Topic == "" {
		return fmt.Errorf("ingest job without topic")
	}

	logger.Info("[Queue] Processing ingest job",
		"correlation_id", job.CorrelationID,
		"topic", job.Topic,
		"source", job.Source,
		"prefix", job.Prefix,
	)

	source, err := newDocumentSource(ctx, job)
	if err != nil {
		return fmt.Errorf("create document source: %w", err)
	}

	pipeline := ingest.NewPipeline(ingest.NewPipelineParams{
		Source:     source,
		Extractor:  pdf.NewPDFDocumentLoader(source),
		Embedder:   aiClient,
		Store:      graphstore.New(pgConn),
		IndexPath:  util.GetEnvString("INDEX_PATH", "data/index.bin"),
		ChunksPath: util.GetEnvString("CHUNKS_PATH", "data/chunks.json"),
	})

	return pipeline.Run(ctx, job.Topic)
}

type documentSource interface {
	loader.DocumentSource
	loader.DocumentLoader
}

func newDocumentSource(ctx context.Context, job IngestJobMsg) (documentSource, error) {
	if job.Source == "s3" {
		return s3loader.NewS3DocumentLoader(ctx, s3loader.NewS3DocumentLoaderParams{
			Bucket:    util.GetEnv("AWS_BUCKET"),
			Prefix:    job.Prefix,
			Ext:       ".pdf",
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			Region:    util.GetEnv("AWS_REGION"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
		})
	}

	return ioloader.NewIODocumentLoader(ioloader.NewIODocumentLoaderParams{
		Root: job.Prefix,
		Ext:  ".pdf",
	}), nil
}
