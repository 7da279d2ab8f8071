package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizgen/internal/queue"
	mid "quizgen/internal/server/middleware"
	"quizgen/internal/util"
	"quizgen/pkg/ai"
	oai "quizgen/pkg/ai/ollama"
	gai "quizgen/pkg/ai/openai"
	"quizgen/pkg/chunk"
	"quizgen/pkg/graphstore"
	"quizgen/pkg/logger"
	"quizgen/pkg/retrieval"
	"quizgen/pkg/vector"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// JWT validation is optional; without AUTH_URL only the master API
	// key authorizes requests.
	var key *keyfunc.Keyfunc
	if authURL := util.GetEnv("AUTH_URL"); authURL != "" {
		k, err := keyfunc.NewDefault([]string{authURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		key = &k
	}

	runMigrations()

	conn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}

	if err := queue.SetupQueues(ch, []string{queue.IngestQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	aiClient := NewAIClient()

	app := &mid.App{
		DBConn:       conn,
		Queue:        ch,
		Key:          key,
		AiClient:     aiClient,
		Retriever:    newRetriever(conn, aiClient),
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// NewAIClient builds the AI client selected by AI_ADAPTER: "ollama" or
// any OpenAI-compatible endpoint (the default).
func NewAIClient() ai.QuizAIClient {
	adapter := util.GetEnv("AI_ADAPTER")

	if adapter == "ollama" {
		client, err := oai.NewQuizOllamaClient(oai.NewQuizOllamaClientParams{
			ChatModel:      util.GetEnv("AI_CHAT_MODEL"),
			EmbeddingModel: util.GetEnv("AI_EMBED_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	}

	return gai.NewQuizOpenAIClient(gai.NewQuizOpenAIClientParams{
		ChatModel:      util.GetEnv("AI_CHAT_MODEL"),
		EmbeddingModel: util.GetEnv("AI_EMBED_MODEL"),

		ChatURL:      util.GetEnv("AI_CHAT_URL"),
		ChatKey:      util.GetEnv("AI_CHAT_KEY"),
		EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
		EmbeddingKey: util.GetEnv("AI_EMBED_KEY"),

		MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 8)),
	})
}

// newRetriever wires the retrieval coordinator over the graph store and
// the persisted vector artifacts. A missing or unreadable index is not
// fatal: retrieval then serves graph facts only until the artifacts are
// rebuilt and the server restarted.
func newRetriever(conn *pgxpool.Pool, aiClient ai.QuizAIClient) *retrieval.Coordinator {
	var searcher retrieval.ChunkSearcher = noopSearcher{}

	indexPath := util.GetEnvString("INDEX_PATH", "data/index.bin")
	chunksPath := util.GetEnvString("CHUNKS_PATH", "data/chunks.json")

	index, err := vector.Read(indexPath)
	if err != nil {
		logger.Warn("Vector index unavailable, serving graph facts only", "path", indexPath, "err", err)
	} else {
		corpus, err := chunk.LoadCorpus(chunksPath)
		if err != nil {
			logger.Warn("Chunk corpus unavailable, serving graph facts only", "path", chunksPath, "err", err)
		} else {
			searcher = vector.NewSearcher(vector.NewSearcherParams{
				Index:    index,
				Corpus:   corpus,
				Embedder: aiClient,
			})
		}
	}

	return retrieval.NewCoordinator(retrieval.NewCoordinatorParams{
		NewFactStore: func() retrieval.FactStore {
			return graphstore.New(conn)
		},
		Searcher: searcher,
	})
}

type noopSearcher struct{}

func (noopSearcher) SearchTopic(ctx context.Context, topic string, topK int) ([]string, error) {
	return nil, nil
}

func runMigrations() {
	// The database may still be starting; a few attempts cover that.
	err := util.RetryErr(5, func() error {
		m, err := migrate.New("file://migrations", util.GetEnv("DATABASE_URL"))
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	})
	if err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}
}
