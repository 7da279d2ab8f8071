package quiz

import "testing"

func TestParseResponseFillInTheBlank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		raw        string
		wantText   string
		wantAnswer string
	}{
		{
			name:       "well formed",
			raw:        "Question: The sky is ___.\nCorrect Answer: blue",
			wantText:   "Question: The sky is ___.",
			wantAnswer: "blue",
		},
		{
			name:       "missing delimiter keeps raw text",
			raw:        "Question: The sky is ___. Answer: blue",
			wantText:   "Question: The sky is ___. Answer: blue",
			wantAnswer: "",
		},
		{
			name:       "multiple delimiters keep raw text",
			raw:        "Q\nCorrect Answer: a\nCorrect Answer: b",
			wantText:   "Q\nCorrect Answer: a\nCorrect Answer: b",
			wantAnswer: "",
		},
		{
			name:       "surrounding whitespace trimmed",
			raw:        "  Question: Water boils at ___ degrees.\nCorrect Answer: 100  ",
			wantText:   "Question: Water boils at ___ degrees.",
			wantAnswer: "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text, answer := ParseResponse(TypeFillInTheBlank, tt.raw)
			if text != tt.wantText {
				t.Fatalf("unexpected question text: got %q, want %q", text, tt.wantText)
			}
			if answer != tt.wantAnswer {
				t.Fatalf("unexpected answer: got %q, want %q", answer, tt.wantAnswer)
			}
		})
	}
}

func TestParseResponseMatching(t *testing.T) {
	t.Parallel()

	raw := "Match the items.\n**Column A:**\n1) X\n\n**Column B:**\nA) Y\n**Correct Matches:** 1 → A, 2 → B"
	text, answer := ParseResponse(TypeMatching, raw)

	if text != "Match the items.\n**Column A:**\n1) X\n\n**Column B:**\nA) Y" {
		t.Fatalf("unexpected question text: %q", text)
	}
	if answer != "1: A, 2: B" {
		t.Fatalf("expected arrows replaced with colons, got %q", answer)
	}
}

func TestParseResponseMatchingMalformed(t *testing.T) {
	t.Parallel()

	raw := "Match the items with no answer section"
	text, answer := ParseResponse(TypeMatching, raw)
	if text != raw {
		t.Fatalf("expected raw text preserved, got %q", text)
	}
	if answer != "" {
		t.Fatalf("expected no answer, got %q", answer)
	}
}

func TestParseResponsePassthroughTypes(t *testing.T) {
	t.Parallel()

	raw := "Statement: Water is wet.\nTrue or False?\nCorrect Answer: True"
	for _, qt := range []QuestionType{TypeTrueFalse, TypeMultipleChoice, TypeOpenEnded} {
		text, answer := ParseResponse(qt, raw)
		if text != raw {
			t.Fatalf("%s: expected raw text passthrough, got %q", qt, text)
		}
		if answer != "" {
			t.Fatalf("%s: expected no extracted answer, got %q", qt, answer)
		}
	}
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	got := FormatResult(TypeFillInTheBlank, "The sky is ___.", "blue")
	want := "The sky is ___.\n\n**Answer:** blue"
	if got != want {
		t.Fatalf("unexpected formatted result: got %q, want %q", got, want)
	}

	got = FormatResult(TypeTrueFalse, "Statement: Water is wet.", "")
	if got != "Statement: Water is wet." {
		t.Fatalf("expected plain statement, got %q", got)
	}
}
