package openai

import (
	"sync"

	"quizgen/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

const defaultMaxConcurrentRequests = 8

// QuizOpenAIClient implements ai.QuizAIClient against any OpenAI-compatible
// API. Chat and embeddings may target different endpoints and keys, which
// lets the generation model run on a hosted provider while embeddings come
// from elsewhere.
type QuizOpenAIClient struct {
	embeddingModel string
	chatModel      string

	embeddingURL string
	chatURL      string

	embedDim   int
	timeoutMin int

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewQuizOpenAIClientParams defines the configuration for creating a
// QuizOpenAIClient. Empty URLs fall back to the official OpenAI endpoint;
// a Groq or other compatible endpoint is selected purely via ChatURL.
type NewQuizOpenAIClientParams struct {
	EmbeddingModel string
	ChatModel      string

	EmbeddingURL string
	EmbeddingKey string
	ChatURL      string
	ChatKey      string

	EmbeddingDimensions   int
	RequestTimeoutMin     int
	MaxConcurrentRequests int64
}

// NewQuizOpenAIClient creates a client with separate OpenAI clients for
// embeddings and chat completion.
func NewQuizOpenAIClient(params NewQuizOpenAIClientParams) *QuizOpenAIClient {
	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentRequests
	}
	timeoutMin := params.RequestTimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = 5
	}

	return &QuizOpenAIClient{
		embeddingModel: params.EmbeddingModel,
		chatModel:      params.ChatModel,

		embeddingURL: params.EmbeddingURL,
		chatURL:      params.ChatURL,

		embedDim:   params.EmbeddingDimensions,
		timeoutMin: timeoutMin,

		reqLock: semaphore.NewWeighted(maxConcurrent),

		ChatClient:      newOpenaiClient(params.ChatURL, params.ChatKey),
		EmbeddingClient: newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey),
	}
}

func newOpenaiClient(baseURL string, apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

func (c *QuizOpenAIClient) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}

// GetMetrics returns the accumulated usage metrics for this client.
func (c *QuizOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}
