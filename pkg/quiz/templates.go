package quiz

import (
	"math/rand"
	"strings"
	"sync/atomic"
)

// Template is a single prompt phrasing for one question type. The
// placeholders {context} and {difficulty} are filled per generation.
type Template struct {
	Text string
}

// Fill substitutes the context and difficulty placeholders.
func (t Template) Fill(context string, difficulty Difficulty) string {
	r := strings.NewReplacer(
		"{context}", context,
		"{difficulty}", string(difficulty),
	)
	return r.Replace(t.Text)
}

// SelectionPolicy picks one template out of the ordered collection
// registered for a question type. Policies must tolerate single-element
// collections, which is the common case today.
type SelectionPolicy interface {
	Select(templates []Template) Template
}

// RandomPolicy selects a template uniformly at random.
type RandomPolicy struct{}

func (RandomPolicy) Select(templates []Template) Template {
	return templates[rand.Intn(len(templates))]
}

// RoundRobinPolicy cycles through the templates in registration order.
// Safe for concurrent use.
type RoundRobinPolicy struct {
	counter atomic.Uint64
}

func (p *RoundRobinPolicy) Select(templates []Template) Template {
	n := p.counter.Add(1) - 1
	return templates[int(n%uint64(len(templates)))]
}

// FixedPolicy always selects the first template.
type FixedPolicy struct{}

func (FixedPolicy) Select(templates []Template) Template {
	return templates[0]
}

// TemplateSet holds the per-type ordered template collections.
type TemplateSet struct {
	byType map[QuestionType][]Template
}

// Get returns the template collection for a question type.
func (s *TemplateSet) Get(t QuestionType) []Template {
	return s.byType[t]
}

// DefaultTemplates returns the built-in prompt templates, one per
// question type. The per-type collections are ordered so additional
// phrasings can be registered without changing selection semantics.
func DefaultTemplates() *TemplateSet {
	return &TemplateSet{byType: map[QuestionType][]Template{
		TypeTrueFalse: {{Text: "You are an AI that generates True/False questions.\n" +
			"Context: {context}\n" +
			"Generate a {difficulty} level True/False question.\n" +
			"Format:\n" +
			"Statement: [Generated statement]\n" +
			"True or False?\n" +
			"Correct Answer: [True or False]"}},
		TypeMultipleChoice: {{Text: "You are an AI that generates multiple-choice questions with four options.\n" +
			"Context: {context}\n" +
			"Generate a {difficulty} level multiple-choice question.\n" +
			"Format:\n" +
			"Question: [Generated question]\n" +
			"A) [Option 1]\n" +
			"B) [Option 2]\n" +
			"C) [Option 3]\n" +
			"D) [Option 4]\n" +
			"Correct Answer: [A/B/C/D] [Full Text of Correct Option]"}},
		TypeOpenEnded: {{Text: "You are an AI that generates open-ended questions.\n" +
			"Context: {context}\n" +
			"Generate a {difficulty} level open-ended question that encourages a detailed response.\n" +
			"Format:\n" +
			"Question: [Generated question]"}},
		TypeFillInTheBlank: {{Text: "You are an AI that generates fill-in-the-blank questions.\n" +
			"Context: {context}\n" +
			"Generate a {difficulty} level fill-in-the-blank question.\n" +
			"Format:\n" +
			"Question: [Generated question with a blank]\n" +
			"Correct Answer: [The correct word/phrase that fills in the blank]"}},
		TypeMatching: {{Text: "You are an AI that generates matching questions.\n" +
			"Context: {context}\n" +
			"Generate a {difficulty} level matching question with five pairs.\n" +
			"Format:\n" +
			"Question: Match the items in Column A with their correct pairs in Column B.\n" +
			"**Column A:**\n" +
			"1) [Item 1]\n" +
			"2) [Item 2]\n" +
			"3) [Item 3]\n" +
			"4) [Item 4]\n" +
			"5) [Item 5]\n\n" +
			"**Column B:**\n" +
			"A) [Definition for Item 1]\n" +
			"B) [Definition for Item 2]\n" +
			"C) [Definition for Item 3]\n" +
			"D) [Definition for Item 4]\n" +
			"E) [Definition for Item 5]\n\n" +
			"**Correct Matches:** 1 → [A], 2 → [B], 3 → [C], 4 → [D], 5 → [E]"}},
	}}
}
