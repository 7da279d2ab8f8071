package quiz

import "strings"

const (
	fillBlankDelimiter = "\nCorrect Answer: "
	matchingDelimiter  = "\n**Correct Matches:** "
)

// ParseResponse extracts question text and, for answer-bearing types, the
// correct answer from a raw model response.
//
// Fill in the Blank responses split on "\nCorrect Answer: " and Matching
// responses on "\n**Correct Matches:** "; in the Matching answer the
// arrow glyph is normalized to a colon. The split must produce exactly
// two parts, otherwise the entire raw text is kept as the question with
// no answer. All other types pass the raw text through untouched.
func ParseResponse(questionType QuestionType, raw string) (questionText string, correctAnswer string) {
	raw = strings.TrimSpace(raw)

	switch questionType {
	case TypeFillInTheBlank:
		parts := strings.Split(raw, fillBlankDelimiter)
		if len(parts) != 2 {
			return raw, ""
		}
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	case TypeMatching:
		parts := strings.Split(raw, matchingDelimiter)
		if len(parts) != 2 {
			return raw, ""
		}
		answer := strings.TrimSpace(parts[1])
		answer = strings.ReplaceAll(answer, " →", ":")
		return strings.TrimSpace(parts[0]), answer
	default:
		return raw, ""
	}
}

// FormatResult renders one generated question for the caller-facing
// result list. Answer-bearing types get a blank line and an answer
// suffix; other types return the question text alone.
func FormatResult(questionType QuestionType, questionText string, correctAnswer string) string {
	if !questionType.HasAnswerKey() {
		return questionText
	}
	return questionText + "\n\n**Answer:** " + correctAnswer
}
