package quiz

import "strings"

// Difficulty is the requested difficulty level for generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists the supported difficulty levels in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is one of the supported difficulty levels.
func (d Difficulty) Valid() bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

// QuestionType is the requested kind of quiz question.
type QuestionType string

const (
	TypeTrueFalse      QuestionType = "True/False"
	TypeMultipleChoice QuestionType = "Multiple Choice"
	TypeOpenEnded      QuestionType = "Open Ended"
	TypeFillInTheBlank QuestionType = "Fill in the Blank"
	TypeMatching       QuestionType = "Matching"
)

// QuestionTypes lists the supported question types in display order.
var QuestionTypes = []QuestionType{
	TypeTrueFalse,
	TypeMultipleChoice,
	TypeOpenEnded,
	TypeFillInTheBlank,
	TypeMatching,
}

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	for _, v := range QuestionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// HasAnswerKey reports whether responses for this type carry a separate
// correct answer that must be parsed out of the model response.
func (t QuestionType) HasAnswerKey() bool {
	return t == TypeFillInTheBlank || t == TypeMatching
}

// Sentinel messages returned as a single-element result instead of an
// error. Callers distinguish them from generated questions by prefix.
const SentinelNoContext = "No relevant context found. Please refine your topic."

func sentinelUnsupportedType() string {
	names := make([]string, len(QuestionTypes))
	for i, t := range QuestionTypes {
		names[i] = string(t)
	}
	return "Error: Unsupported question type. Please choose from " + strings.Join(names, ", ") + "."
}

func sentinelUnsupportedDifficulty() string {
	names := make([]string, len(Difficulties))
	for i, d := range Difficulties {
		names[i] = string(d)
	}
	return "Error: Unsupported difficulty level. Please choose from " + strings.Join(names, ", ") + "."
}
