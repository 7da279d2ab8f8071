package util

import "strings"

// SanitizePostgresText strips NUL bytes and invalid UTF-8 sequences, both
// of which Postgres rejects in text columns.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// CollapseNewlines replaces every line break in extracted document text
// with a single space so that sentence splitting sees one flat stream.
func CollapseNewlines(value string) string {
	value = strings.ReplaceAll(value, "\r\n", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.ReplaceAll(value, "\r", " ")
}
