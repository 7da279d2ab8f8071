package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"quizgen/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// QuizOllamaClient implements ai.QuizAIClient using Ollama as the backend
// for locally-hosted chat and embedding models.
type QuizOllamaClient struct {
	embeddingModel string
	chatModel      string

	embedDim   int
	timeoutMin int

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client

	Client *api.Client
}

// NewQuizOllamaClientParams contains configuration options for creating a
// new QuizOllamaClient.
type NewQuizOllamaClientParams struct {
	EmbeddingModel string
	ChatModel      string

	BaseURL string
	ApiKey  string

	EmbeddingDimensions   int
	RequestTimeoutMin     int
	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		// don't overwrite if already set
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewQuizOllamaClient creates a new Ollama-backed AI client. It connects
// to the Ollama server at the given BaseURL (or the default if empty).
func NewQuizOllamaClient(params NewQuizOllamaClientParams) (*QuizOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)

	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: map[string]string{
				"Authorization": "Bearer " + params.ApiKey,
			},
			rt: http.DefaultTransport,
		},
	}

	cli := api.NewClient(u, httpClient)

	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	timeoutMin := params.RequestTimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = 5
	}

	return &QuizOllamaClient{
		embeddingModel: params.EmbeddingModel,
		chatModel:      params.ChatModel,

		embedDim:   params.EmbeddingDimensions,
		timeoutMin: timeoutMin,

		reqLock: semaphore.NewWeighted(maxConcurrent),

		baseURL:    u,
		apiKey:     params.ApiKey,
		httpClient: httpClient,

		Client: cli,
	}, nil
}

func (c *QuizOllamaClient) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}

// GetMetrics returns the accumulated usage metrics for this client.
func (c *QuizOllamaClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}
