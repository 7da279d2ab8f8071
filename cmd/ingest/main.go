package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"quizgen/internal/queue"
	"quizgen/internal/server"
	"quizgen/internal/util"
	"quizgen/pkg/logger"
	"quizgen/pkg/logger/console"

	"github.com/jackc/pgx/v5/pgxpool"
)

// One-shot offline build of the retrieval artifacts. Reads the same job
// shape the worker consumes, but from INGEST_* environment variables.
func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	topic := util.GetEnv("INGEST_TOPIC")
	if topic == "" {
		logger.Fatal("INGEST_TOPIC is required")
	}

	pgConn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()

	job := queue.IngestJobMsg{
		Topic:  topic,
		Source: util.GetEnvString("INGEST_SOURCE", "fs"),
		Prefix: util.GetEnvString("INGEST_PREFIX", "dataset"),
	}
	body, err := json.Marshal(job)
	if err != nil {
		logger.Fatal("Failed to marshal ingest job", "err", err)
	}

	aiClient := server.NewAIClient()

	if err := queue.ProcessIngest(ctx, aiClient, pgConn, body); err != nil {
		logger.Fatal("Ingestion failed", "err", err)
	}

	logger.Info("Ingestion finished", "topic", topic)
}
