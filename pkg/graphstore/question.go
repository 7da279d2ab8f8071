package graphstore

import (
	"context"
	"database/sql"
	"fmt"

	"quizgen/internal/util"
	"quizgen/pkg/logger"
)

// StoreQuestion persists a generated question unless one with identical
// text already exists. The existence condition and the insert are a
// single atomic statement, so two concurrent generations of the same
// question text produce exactly one node. When the question is a
// duplicate the new attempt's difficulty, type, and answer are discarded.
//
// CorrectAnswer is written by a second statement in the same transaction,
// and only when non-empty and the question is new.
//
// Returns whether the question was stored.
func (s *Store) StoreQuestion(ctx context.Context, q Question) (bool, error) {
	text := util.SanitizePostgresText(q.Text)
	answer := util.SanitizePostgresText(q.CorrectAnswer)

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin question tx: %w", err)
	}
	defer tx.Rollback(ctx)

	topicID, err := upsertTopic(ctx, tx, q.Topic)
	if err != nil {
		return false, fmt.Errorf("upsert topic %q: %w", q.Topic, err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO questions (topic_id, text, difficulty, question_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (text) DO NOTHING
	`, topicID, text, q.Difficulty, q.Type)
	if err != nil {
		return false, fmt.Errorf("insert question: %w", err)
	}

	inserted := tag.RowsAffected() == 1
	if inserted && answer != "" {
		if _, err := tx.Exec(ctx, `
			UPDATE questions SET correct_answer = $2 WHERE text = $1
		`, text, answer); err != nil {
			return false, fmt.Errorf("set correct answer: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit question tx: %w", err)
	}

	if !inserted {
		logger.Debug("[Graph] Question already exists, skipping", "topic", q.Topic)
	}
	return inserted, nil
}

// ListQuestions returns every stored question for the named topic.
func (s *Store) ListQuestions(ctx context.Context, topic string) ([]Question, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT t.name, q.text, q.difficulty, q.question_type, q.correct_answer
		FROM questions q
		JOIN topics t ON t.id = q.topic_id
		WHERE t.name = $1
		ORDER BY q.id
	`, topic)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		var answer sql.NullString
		if err := rows.Scan(&q.Topic, &q.Text, &q.Difficulty, &q.Type, &answer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.CorrectAnswer = answer.String
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
