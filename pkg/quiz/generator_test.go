package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"quizgen/pkg/ai"
	"quizgen/pkg/graphstore"
)

type fakeRetriever struct {
	context []string
	err     error
}

func (f *fakeRetriever) SearchTopic(ctx context.Context, topic string, topK int) ([]string, error) {
	return f.context, f.err
}

type fakeStore struct {
	stored   []graphstore.Question
	existing map[string]bool
	failAt   int // 1-based call index that fails; 0 = never
	calls    int
	err      error
}

func (f *fakeStore) StoreQuestion(ctx context.Context, q graphstore.Question) (bool, error) {
	f.calls++
	if f.failAt != 0 && f.calls == f.failAt {
		return false, f.err
	}
	if f.existing[q.Text] {
		return false, nil
	}
	if f.existing == nil {
		f.existing = make(map[string]bool)
	}
	f.existing[q.Text] = true
	f.stored = append(f.stored, q)
	return true, nil
}

type fakeAI struct {
	responses []string
	prompts   []string
	failAt    int
	err       error
}

func (f *fakeAI) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	f.prompts = append(f.prompts, prompt)
	call := len(f.prompts)
	if f.failAt != 0 && call == f.failAt {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return fmt.Sprintf("generated question %d", call), nil
	}
	return f.responses[(call-1)%len(f.responses)], nil
}

func newTestGenerator(r *fakeRetriever, s *fakeStore, a *fakeAI) *Generator {
	return NewGenerator(NewGeneratorParams{
		Retriever: r,
		Store:     s,
		AiClient:  a,
		Policy:    FixedPolicy{},
	})
}

func TestGenerateUnsupportedType(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(&fakeRetriever{}, &fakeStore{}, &fakeAI{})
	got, err := g.Generate(context.Background(), GenerateParams{
		Topic:        "Photosynthesis",
		NumQuestions: 3,
		Difficulty:   DifficultyEasy,
		QuestionType: "Essay",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got) != 1 || !strings.HasPrefix(got[0], "Error:") {
		t.Fatalf("expected single Error sentinel, got %q", got)
	}
	if !strings.Contains(got[0], "question type") {
		t.Fatalf("expected question type message, got %q", got[0])
	}
}

func TestGenerateUnsupportedDifficulty(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(&fakeRetriever{}, &fakeStore{}, &fakeAI{})
	got, err := g.Generate(context.Background(), GenerateParams{
		Topic:        "Photosynthesis",
		NumQuestions: 3,
		Difficulty:   "Impossible",
		QuestionType: TypeTrueFalse,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got) != 1 || !strings.HasPrefix(got[0], "Error:") {
		t.Fatalf("expected single Error sentinel, got %q", got)
	}
	if !strings.Contains(got[0], "difficulty") {
		t.Fatalf("expected difficulty message, got %q", got[0])
	}
}

func TestGenerateEmptyContext(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	aiClient := &fakeAI{}
	g := newTestGenerator(&fakeRetriever{}, store, aiClient)

	got, err := g.Generate(context.Background(), GenerateParams{
		Topic:        "Unknown",
		NumQuestions: 3,
		Difficulty:   DifficultyEasy,
		QuestionType: TypeTrueFalse,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got) != 1 || got[0] != SentinelNoContext {
		t.Fatalf("expected no-context sentinel, got %q", got)
	}
	if len(aiClient.prompts) != 0 {
		t.Fatalf("expected no generation calls, got %d", len(aiClient.prompts))
	}
	if store.calls != 0 {
		t.Fatalf("expected no store calls, got %d", store.calls)
	}
}

func TestGenerateClampsToContextLength(t *testing.T) {
	t.Parallel()

	retriever := &fakeRetriever{context: []string{"chunk a", "chunk b", "chunk c"}}
	store := &fakeStore{}
	aiClient := &fakeAI{}
	g := newTestGenerator(retriever, store, aiClient)

	got, err := g.Generate(context.Background(), GenerateParams{
		Topic:        "Photosynthesis",
		NumQuestions: 5,
		Difficulty:   DifficultyEasy,
		QuestionType: TypeTrueFalse,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected clamp to 3 questions, got %d (%q)", len(got), got)
	}
	if len(store.stored) != 3 {
		t.Fatalf("expected 3 stored questions, got %d", len(store.stored))
	}
	for _, q := range got {
		if strings.Contains(q, "**Answer:**") {
			t.Fatalf("true/false result must not carry an answer suffix: %q", q)
		}
	}

	// Each prompt must embed the context chunk assigned cyclically.
	for i, prompt := range aiClient.prompts {
		want := retriever.context[i%len(retriever.context)]
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt %d missing context %q: %q", i, want, prompt)
		}
	}
}

func TestGenerateFillInTheBlankStoresAnswer(t *testing.T) {
	t.Parallel()

	retriever := &fakeRetriever{context: []string{"The sky appears blue due to Rayleigh scattering."}}
	store := &fakeStore{}
	aiClient := &fakeAI{responses: []string{"Question: The sky is ___.\nCorrect Answer: blue"}}
	g := newTestGenerator(retriever, store, aiClient)

	got, err := g.Generate(context.Background(), GenerateParams{
		Topic:        "Light",
		NumQuestions: 1,
		Difficulty:   DifficultyMedium,
		QuestionType: TypeFillInTheBlank,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := "Question: The sky is ___.\n\n**Answer:** blue"
	if len(got) != 1 || got[0] != want {
		t.Fatalf("unexpected result: got %q, want %q", got, want)
	}

	if len(store.stored) != 1 {
		t.Fatalf("expected 1 stored question, got %d", len(store.stored))
	}
	stored := store.stored[0]
	if stored.Text != "Question: The sky is ___." {
		t.Fatalf("unexpected stored text: %q", stored.Text)
	}
	if stored.CorrectAnswer != "blue" {
		t.Fatalf("unexpected stored answer: %q", stored.CorrectAnswer)
	}
	if stored.Type != string(TypeFillInTheBlank) || stored.Difficulty != string(DifficultyMedium) {
		t.Fatalf("unexpected stored metadata: %+v", stored)
	}
}

func TestGenerateDuplicateDiscardedByStore(t *testing.T) {
	t.Parallel()

	retriever := &fakeRetriever{context: []string{"chunk"}}
	store := &fakeStore{existing: map[string]bool{"generated question 1": true}}
	g := newTestGenerator(retriever, store, &fakeAI{})

	got, err := g.Generate(context.Background(), GenerateParams{
		Topic:        "Topic",
		NumQuestions: 1,
		Difficulty:   DifficultyEasy,
		QuestionType: TypeOpenEnded,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// The duplicate is still returned to the caller; only storage skips it.
	if len(got) != 1 {
		t.Fatalf("expected question in result list, got %q", got)
	}
	if len(store.stored) != 0 {
		t.Fatalf("expected store to discard the duplicate, got %d stored", len(store.stored))
	}
}

func TestGeneratePartialResultsOnFailure(t *testing.T) {
	t.Parallel()

	retriever := &fakeRetriever{context: []string{"a", "b", "c"}}
	store := &fakeStore{}
	genErr := errors.New("generation service unreachable")
	aiClient := &fakeAI{failAt: 3, err: genErr}
	g := newTestGenerator(retriever, store, aiClient)

	got, err := g.Generate(context.Background(), GenerateParams{
		Topic:        "Topic",
		NumQuestions: 3,
		Difficulty:   DifficultyHard,
		QuestionType: TypeOpenEnded,
	})
	if !errors.Is(err, genErr) {
		t.Fatalf("expected generation error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the two earlier questions returned, got %q", got)
	}
	if len(store.stored) != 2 {
		t.Fatalf("expected earlier questions stored, got %d", len(store.stored))
	}
}

func TestGenerateRetrievalErrorPropagates(t *testing.T) {
	t.Parallel()

	retErr := errors.New("vector index missing")
	g := newTestGenerator(&fakeRetriever{err: retErr}, &fakeStore{}, &fakeAI{})

	_, err := g.Generate(context.Background(), GenerateParams{
		Topic:        "Topic",
		NumQuestions: 1,
		Difficulty:   DifficultyEasy,
		QuestionType: TypeTrueFalse,
	})
	if !errors.Is(err, retErr) {
		t.Fatalf("expected retrieval error, got %v", err)
	}
}

func TestGenerateRetriesGenerationFailures(t *testing.T) {
	t.Parallel()

	retriever := &fakeRetriever{context: []string{"chunk"}}
	store := &fakeStore{}
	aiClient := &fakeAI{failAt: 1, err: errors.New("transient")}
	g := NewGenerator(NewGeneratorParams{
		Retriever: retriever,
		Store:     store,
		AiClient:  aiClient,
		Policy:    FixedPolicy{},
		MaxTries:  2,
	})

	got, err := g.Generate(context.Background(), GenerateParams{
		Topic:        "Topic",
		NumQuestions: 1,
		Difficulty:   DifficultyEasy,
		QuestionType: TypeOpenEnded,
	})
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one question, got %q", got)
	}
	if len(aiClient.prompts) != 2 {
		t.Fatalf("expected 2 generation attempts, got %d", len(aiClient.prompts))
	}
}
