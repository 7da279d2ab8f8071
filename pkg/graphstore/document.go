package graphstore

import (
	"context"
	"fmt"

	"quizgen/internal/util"
	"quizgen/pkg/logger"
)

// RetrieveFacts returns the text of every document linked to the named
// topic, in chunk order. A missing topic or a topic without documents
// yields an empty result, never an error.
func (s *Store) RetrieveFacts(ctx context.Context, topic string) ([]string, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT d.text
		FROM documents d
		JOIN topics t ON t.id = d.topic_id
		WHERE t.name = $1
		ORDER BY d.chunk_index, d.id
	`, topic)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var facts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		facts = append(facts, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate facts: %w", err)
	}
	return facts, nil
}

// UpsertDocument links a chunk to a topic as a document node. The insert
// is conditional on the document text not already existing under the
// topic, in one atomic statement; re-ingesting the same material is a
// no-op. Returns whether a new document was created.
func (s *Store) UpsertDocument(ctx context.Context, topic string, chunkIndex int, text string) (bool, error) {
	text = util.SanitizePostgresText(text)

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin document tx: %w", err)
	}
	defer tx.Rollback(ctx)

	topicID, err := upsertTopic(ctx, tx, topic)
	if err != nil {
		return false, fmt.Errorf("upsert topic %q: %w", topic, err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO documents (topic_id, chunk_index, text)
		VALUES ($1, $2, $3)
		ON CONFLICT (topic_id, text) DO NOTHING
	`, topicID, chunkIndex, text)
	if err != nil {
		return false, fmt.Errorf("insert document: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit document tx: %w", err)
	}

	inserted := tag.RowsAffected() == 1
	if !inserted {
		logger.Debug("[Graph] Document already exists, skipping", "topic", topic, "chunk_index", chunkIndex)
	}
	return inserted, nil
}

// ListTopics returns every stored topic with its document and question
// counts.
func (s *Store) ListTopics(ctx context.Context) ([]Topic, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT t.name,
		       COUNT(DISTINCT d.id),
		       COUNT(DISTINCT q.id)
		FROM topics t
		LEFT JOIN documents d ON d.topic_id = t.id
		LEFT JOIN questions q ON q.topic_id = t.id
		GROUP BY t.id
		ORDER BY t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var topics []Topic
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.Name, &t.Documents, &t.Questions); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	return topics, nil
}
