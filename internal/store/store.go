// Package store handles SQLite persistence for the passage library.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/recite/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrPassageNotFound is returned when a passage id does not exist.
var ErrPassageNotFound = errors.New("passage not found")

// Store wraps SQLite access for saved passages.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passages (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			time_limit_s INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddPassage saves a passage and returns its id. The title defaults to the first words
// of the body.
func (s *Store) AddPassage(ctx context.Context, p model.Passage) (int64, error) {
	body := strings.TrimSpace(p.Body)
	if body == "" {
		return 0, fmt.Errorf("passage body is empty")
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = defaultTitle(body)
	}
	limit := int64(p.TimeLimit / time.Second)
	if limit < 0 {
		limit = 0
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO passages (title, body, time_limit_s, created_at) VALUES (?, ?, ?, ?)`,
		title, body, limit, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListPassages returns every saved passage ordered by id.
func (s *Store) ListPassages(ctx context.Context) ([]model.Passage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, time_limit_s, created_at FROM passages ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var passages []model.Passage
	for rows.Next() {
		var p model.Passage
		var limit int64
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &limit, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		p.TimeLimit = time.Duration(limit) * time.Second
		p.CreatedAt = parsed
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return passages, nil
}

// DeletePassage removes a passage by id.
func (s *Store) DeletePassage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM passages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrPassageNotFound, id)
	}
	return nil
}

func defaultTitle(body string) string {
	words := strings.Fields(body)
	if len(words) > 5 {
		return strings.Join(words[:5], " ") + "…"
	}
	return strings.Join(words, " ")
}
