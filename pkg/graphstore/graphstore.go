package graphstore

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Conn is the subset of pgx connection behavior the store needs. Both
// *pgxpool.Pool and a plain *pgx.Conn satisfy it.
type Conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// Store persists the quiz knowledge graph in Postgres: Topic nodes,
// Document nodes holding ingested chunks, and Question nodes holding
// generated questions, each linked to exactly one topic.
//
// All writes are idempotent by natural key. Insert-iff-absent is done as
// a single conditional statement rather than a check-then-insert round
// trip, so concurrent writers cannot create duplicate nodes.
type Store struct {
	conn Conn
}

// New creates a Store on an existing connection or pool. The store does
// not own the connection; callers manage its lifecycle.
func New(conn Conn) *Store {
	return &Store{conn: conn}
}

// Topic is a stored topic with its node counts.
type Topic struct {
	Name      string `json:"name"`
	Documents int64  `json:"documents"`
	Questions int64  `json:"questions"`
}

// Question is a generated question attached to a topic. Text is the
// dedup key; CorrectAnswer is empty for types that carry none.
type Question struct {
	Topic         string `json:"topic"`
	Text          string `json:"text"`
	Difficulty    string `json:"difficulty"`
	Type          string `json:"type"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

// upsertTopic creates the topic if absent and returns its id. The dummy
// update makes the statement return the id for pre-existing rows too.
func upsertTopic(ctx context.Context, tx pgxv5.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO topics (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name).Scan(&id)
	return id, err
}
