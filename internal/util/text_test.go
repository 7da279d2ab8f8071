package util

import "testing"

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain utf8",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "contains null byte",
			input: "hel\x00lo",
			want:  "hello",
		},
		{
			name:  "contains invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePostgresText(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected sanitized value: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollapseNewlines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unix newlines",
			input: "one\ntwo\nthree",
			want:  "one two three",
		},
		{
			name:  "windows newlines",
			input: "one\r\ntwo",
			want:  "one two",
		},
		{
			name:  "bare carriage return",
			input: "one\rtwo",
			want:  "one two",
		},
		{
			name:  "no newlines",
			input: "already flat",
			want:  "already flat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollapseNewlines(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected collapsed value: got %q, want %q", got, tt.want)
			}
		})
	}
}
