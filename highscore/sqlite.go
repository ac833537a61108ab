package highscore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    score      INTEGER NOT NULL,
    level      INTEGER NOT NULL,
    lines      INTEGER NOT NULL,
    seed       INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS scores_rank ON scores (score DESC, lines DESC, created_at ASC);
`

// SQLiteStore implements Store on a local SQLite database in WAL mode.
// created_at is kept as unix nanoseconds so ties order exactly.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("highscore: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, q := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", schema} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			db.Close()
			return nil, fmt.Errorf("highscore: setup %q: %w", firstLine(q), err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func firstLine(q string) string {
	for i, r := range q {
		if r == '\n' && i > 0 {
			return q[:i]
		}
	}
	return q
}

// Add stores e. Entries without an ID get a random one.
func (s *SQLiteStore) Add(ctx context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	const q = `
		INSERT INTO scores (id, name, score, level, lines, seed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, e.ID, e.Name, e.Score, e.Level, e.Lines, e.Seed, e.CreatedAt.UnixNano()); err != nil {
		return fmt.Errorf("highscore: add %q: %w", e.ID, err)
	}
	return nil
}

// Top returns the n best entries.
func (s *SQLiteStore) Top(ctx context.Context, n int) ([]Entry, error) {
	const q = `
		SELECT id, name, score, level, lines, seed, created_at FROM scores
		ORDER BY score DESC, lines DESC, created_at ASC
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, max(n, 0))
	if err != nil {
		return nil, fmt.Errorf("highscore: query top %d: %w", n, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Score, &e.Level, &e.Lines, &e.Seed, &created); err != nil {
			return nil, fmt.Errorf("highscore: scan entry: %w", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("highscore: iterate entries: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
