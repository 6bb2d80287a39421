// Package journal persists finished automation sessions and their diagnostic
// timelines in a local sqlite database, so past runs can be inspected after
// the fact.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

// Open creates or opens the journal database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Store{db: db}, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	editor TEXT NOT NULL CHECK(editor IN ('pcbnew','eeschema')),
	input_file TEXT NOT NULL,
	outcome TEXT NOT NULL,
	started_at TEXT NOT NULL,
	ended_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS timeline_entries (
	session_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	entry TEXT NOT NULL,
	PRIMARY KEY(session_id, seq),
	FOREIGN KEY(session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
);
`

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Session is one recorded automation run. Outcome is empty for success,
// otherwise the failure category.
type Session struct {
	ID        string
	Editor    string
	InputFile string
	Outcome   string
	StartedAt time.Time
	EndedAt   time.Time
	Entries   []string
}

// RecordSession stores the session and its timeline atomically. A missing ID
// is generated.
func (s *Store) RecordSession(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record session: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO sessions(session_id, editor, input_file, outcome, started_at, ended_at)
VALUES (?, ?, ?, ?, ?, ?)
`, sess.ID, sess.Editor, sess.InputFile, sess.Outcome, ts(sess.StartedAt), ts(sess.EndedAt))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	for i, entry := range sess.Entries {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO timeline_entries(session_id, seq, entry) VALUES (?, ?, ?)
`, sess.ID, i, entry); err != nil {
			return fmt.Errorf("insert timeline entry %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record session: %w", err)
	}
	return nil
}

// Sessions lists recorded sessions, newest first, without their timelines.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT session_id, editor, input_file, outcome, started_at, ended_at
FROM sessions ORDER BY started_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		var started, ended string
		if err := rows.Scan(&sess.ID, &sess.Editor, &sess.InputFile, &sess.Outcome, &started, &ended); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt = parseTS(started)
		sess.EndedAt = parseTS(ended)
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Entries returns the recorded timeline of one session, in order.
func (s *Store) Entries(ctx context.Context, sessionID string) ([]string, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE session_id = ?`, sessionID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT entry FROM timeline_entries WHERE session_id = ? ORDER BY seq
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list timeline entries: %w", err)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTS(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
