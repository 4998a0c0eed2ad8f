// Package sqlite reads and writes offline lexicon bundles: a single SQLite
// file holding one JSON document per word.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"wordquiz/internal/domain"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS lexicon_entries (
	word TEXT PRIMARY KEY,
	data TEXT NOT NULL
)`

// Bundle is an open lexicon bundle file.
type Bundle struct {
	db *sql.DB
}

// Open opens (creating if needed) the bundle at path.
func Open(ctx context.Context, path string) (*Bundle, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping bundle: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create lexicon_entries: %w", err)
	}
	return &Bundle{db: db}, nil
}

func (b *Bundle) Close() error {
	return b.db.Close()
}

// LoadLexicon returns every entry ordered by word.
func (b *Bundle) LoadLexicon(ctx context.Context) ([]domain.LexiconEntry, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT word, data FROM lexicon_entries ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	defer rows.Close()

	var entries []domain.LexiconEntry
	for rows.Next() {
		var word, data string
		if err := rows.Scan(&word, &data); err != nil {
			return nil, fmt.Errorf("scan lexicon entry: %w", err)
		}
		var entry domain.LexiconEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal lexicon entry %q: %w", word, err)
		}
		entry.Word = word
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	if len(entries) == 0 {
		return nil, domain.ErrLexiconEmpty
	}
	return entries, nil
}

// LookupEntry loads a single word.
func (b *Bundle) LookupEntry(ctx context.Context, word string) (domain.LexiconEntry, error) {
	var data string
	err := b.db.QueryRowContext(ctx, `SELECT data FROM lexicon_entries WHERE word = ?`, word).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LexiconEntry{}, fmt.Errorf("%w: %s", domain.ErrWordNotFound, word)
	}
	if err != nil {
		return domain.LexiconEntry{}, fmt.Errorf("lookup %s: %w", word, err)
	}
	var entry domain.LexiconEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return domain.LexiconEntry{}, fmt.Errorf("unmarshal lexicon entry %q: %w", word, err)
	}
	return entry, nil
}

// WriteLexicon upserts entries in a single transaction.
func (b *Bundle) WriteLexicon(ctx context.Context, entries []domain.LexiconEntry) (int, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO lexicon_entries (word, data) VALUES (?, ?)
		ON CONFLICT(word) DO UPDATE SET data = excluded.data`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, entry := range entries {
		if entry.Word == "" {
			continue
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return 0, fmt.Errorf("marshal entry %q: %w", entry.Word, err)
		}
		if _, err := stmt.ExecContext(ctx, entry.Word, string(data)); err != nil {
			return 0, fmt.Errorf("insert %q: %w", entry.Word, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return written, nil
}
