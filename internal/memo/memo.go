// Package memo persists translations in a local SQLite database so repeated
// words and reruns with a fresh checkpoint do not hit the backend again.
package memo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oukeidos/vocabx/internal/translate"
)

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	source_lang TEXT NOT NULL,
	target_lang TEXT NOT NULL,
	text        TEXT NOT NULL,
	translation TEXT NOT NULL,
	created_at  INTEGER NOT NULL DEFAULT (strftime('%s','now')),
	PRIMARY KEY (source_lang, target_lang, text)
)`

// Store is a SQLite backed translate.MemoStore.
type Store struct {
	db *sql.DB
}

var _ translate.MemoStore = (*Store)(nil)

// Open opens (creating if needed) the memo database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open memo database: %w", err)
	}
	// Workers share the store; a single connection serializes writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create memo table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key translate.Key) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT translation FROM translations WHERE source_lang = ? AND target_lang = ? AND text = ?`,
		key.Source, key.Target, key.Text,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Store) Put(ctx context.Context, key translate.Key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translations (source_lang, target_lang, text, translation) VALUES (?, ?, ?, ?)
		 ON CONFLICT (source_lang, target_lang, text) DO UPDATE SET translation = excluded.translation`,
		key.Source, key.Target, key.Text, value,
	)
	return err
}

// Len returns the number of stored translations.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations`).Scan(&n)
	return n, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
