package quiz

import (
	"context"
	"fmt"
	"time"

	"quizgen/pkg/ai"
	"quizgen/pkg/graphstore"
	"quizgen/pkg/logger"
)

// ContextRetriever supplies the combined fact/chunk context for a topic.
type ContextRetriever interface {
	SearchTopic(ctx context.Context, topic string, topK int) ([]string, error)
}

// QuestionStore is the dedup-and-store write the generator depends on.
type QuestionStore interface {
	StoreQuestion(ctx context.Context, q graphstore.Question) (bool, error)
}

// CompletionClient is the single generation call the generator depends
// on; the full ai.QuizAIClient satisfies it.
type CompletionClient interface {
	GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error)
}

// Generator orchestrates quiz-question generation: retrieve context,
// prompt the model once per question, parse the response, deduplicate
// against the graph store, and format the caller-facing result.
type Generator struct {
	retriever ContextRetriever
	store     QuestionStore
	aiClient  CompletionClient
	templates *TemplateSet
	policy    SelectionPolicy

	topK            int
	maxTries        int
	questionTimeout time.Duration
}

// NewGeneratorParams contains the dependencies and tuning knobs for a
// Generator. Templates defaults to the built-in set, Policy to uniform
// random selection, TopK to the retrieval default, MaxTries to 1 (no
// retry), and QuestionTimeout to 2 minutes per generated question.
type NewGeneratorParams struct {
	Retriever ContextRetriever
	Store     QuestionStore
	AiClient  CompletionClient

	Templates       *TemplateSet
	Policy          SelectionPolicy
	TopK            int
	MaxTries        int
	QuestionTimeout time.Duration
}

// NewGenerator creates a Generator.
func NewGenerator(params NewGeneratorParams) *Generator {
	templates := params.Templates
	if templates == nil {
		templates = DefaultTemplates()
	}
	policy := params.Policy
	if policy == nil {
		policy = RandomPolicy{}
	}
	maxTries := params.MaxTries
	if maxTries <= 0 {
		maxTries = 1
	}
	timeout := params.QuestionTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Generator{
		retriever: params.Retriever,
		store:     params.Store,
		aiClient:  params.AiClient,
		templates: templates,
		policy:    policy,

		topK:            params.TopK,
		maxTries:        maxTries,
		questionTimeout: timeout,
	}
}

// GenerateParams is one caller-facing generation request.
type GenerateParams struct {
	Topic        string
	NumQuestions int
	Difficulty   Difficulty
	QuestionType QuestionType
}

// Generate produces up to NumQuestions formatted questions for a topic.
//
// Unsupported question types or difficulty levels and an empty retrieval
// context all return a single-element result carrying a sentinel message,
// with a nil error; callers must check for the "Error:" and "No relevant
// context" prefixes before treating entries as questions.
//
// The request is clamped to the number of retrieved context items, and
// context entries are assigned cyclically across the generated questions.
// When a later iteration fails, the questions generated and stored by
// earlier iterations are returned alongside the error.
func (g *Generator) Generate(ctx context.Context, params GenerateParams) ([]string, error) {
	if !params.QuestionType.Valid() {
		return []string{sentinelUnsupportedType()}, nil
	}
	if !params.Difficulty.Valid() {
		return []string{sentinelUnsupportedDifficulty()}, nil
	}

	retrieved, err := g.retriever.SearchTopic(ctx, params.Topic, g.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	if len(retrieved) == 0 {
		return []string{SentinelNoContext}, nil
	}

	numQuestions := params.NumQuestions
	if numQuestions > len(retrieved) {
		numQuestions = len(retrieved)
	}

	candidates := g.templates.Get(params.QuestionType)
	template := g.policy.Select(candidates)

	logger.Debug("[Quiz] Generating questions",
		"topic", params.Topic,
		"requested", params.NumQuestions,
		"clamped", numQuestions,
		"type", params.QuestionType,
		"difficulty", params.Difficulty,
	)

	questions := make([]string, 0, numQuestions)
	for i := 0; i < numQuestions; i++ {
		contextChunk := retrieved[i%len(retrieved)]
		prompt := template.Fill(contextChunk, params.Difficulty)

		response, err := g.generateOne(ctx, prompt)
		if err != nil {
			return questions, fmt.Errorf("generate question %d: %w", i+1, err)
		}

		questionText, correctAnswer := ParseResponse(params.QuestionType, response)

		stored, err := g.store.StoreQuestion(ctx, graphstore.Question{
			Topic:         params.Topic,
			Text:          questionText,
			Difficulty:    string(params.Difficulty),
			Type:          string(params.QuestionType),
			CorrectAnswer: correctAnswer,
		})
		if err != nil {
			return questions, fmt.Errorf("store question %d: %w", i+1, err)
		}
		if !stored {
			logger.Debug("[Quiz] Duplicate question discarded by store", "topic", params.Topic)
		}

		questions = append(questions, FormatResult(params.QuestionType, questionText, correctAnswer))
	}

	return questions, nil
}

// generateOne runs the model call for a single question under its own
// deadline. Expiry of that deadline counts as a failed try and is
// retried; cancellation of the parent context aborts immediately.
func (g *Generator) generateOne(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for i := 0; i < g.maxTries; i++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		rCtx, cancel := context.WithTimeout(ctx, g.questionTimeout)
		response, err := g.aiClient.GenerateCompletion(rCtx, prompt)
		cancel()
		if err == nil {
			return response, nil
		}
		lastErr = err
	}
	return "", lastErr
}
