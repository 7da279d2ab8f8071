package quiz

import (
	"strings"
	"testing"
)

func TestDefaultTemplatesCoverEveryType(t *testing.T) {
	t.Parallel()

	set := DefaultTemplates()
	for _, qt := range QuestionTypes {
		templates := set.Get(qt)
		if len(templates) == 0 {
			t.Fatalf("no templates registered for %q", qt)
		}
		for i, tpl := range templates {
			if !strings.Contains(tpl.Text, "{context}") {
				t.Fatalf("template %d for %q is missing the context placeholder", i, qt)
			}
			if !strings.Contains(tpl.Text, "{difficulty}") {
				t.Fatalf("template %d for %q is missing the difficulty placeholder", i, qt)
			}
		}
	}
}

func TestTemplateFill(t *testing.T) {
	t.Parallel()

	tpl := Template{Text: "Context: {context}\nGenerate a {difficulty} level question."}
	got := tpl.Fill("Plants absorb sunlight.", DifficultyEasy)
	want := "Context: Plants absorb sunlight.\nGenerate a Easy level question."
	if got != want {
		t.Fatalf("unexpected filled template: got %q, want %q", got, want)
	}
}

func TestRoundRobinPolicy(t *testing.T) {
	t.Parallel()

	templates := []Template{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	policy := &RoundRobinPolicy{}

	want := []string{"a", "b", "c", "a", "b"}
	for i, w := range want {
		got := policy.Select(templates)
		if got.Text != w {
			t.Fatalf("round robin pick %d: got %q, want %q", i, got.Text, w)
		}
	}
}

func TestFixedPolicy(t *testing.T) {
	t.Parallel()

	templates := []Template{{Text: "first"}, {Text: "second"}}
	for i := 0; i < 3; i++ {
		if got := (FixedPolicy{}).Select(templates); got.Text != "first" {
			t.Fatalf("fixed policy pick %d: got %q, want %q", i, got.Text, "first")
		}
	}
}

func TestRandomPolicySelectsRegisteredTemplate(t *testing.T) {
	t.Parallel()

	templates := []Template{{Text: "only"}}
	for i := 0; i < 5; i++ {
		if got := (RandomPolicy{}).Select(templates); got.Text != "only" {
			t.Fatalf("random policy over single-element set returned %q", got.Text)
		}
	}
}
