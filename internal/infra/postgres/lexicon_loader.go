package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"wordquiz/internal/domain"
)

// LexiconLoader loads lexicon entries stored as JSONB from Postgres.
type LexiconLoader struct {
	pool *pgxpool.Pool
}

func NewLexiconLoader(pool *pgxpool.Pool) *LexiconLoader {
	return &LexiconLoader{pool: pool}
}

func (l *LexiconLoader) LoadLexicon(ctx context.Context) ([]domain.LexiconEntry, error) {
	rows, err := l.pool.Query(ctx, `SELECT word, data FROM lexicon_entries ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	defer rows.Close()

	var entries []domain.LexiconEntry
	for rows.Next() {
		var (
			word string
			raw  []byte
		)
		if err := rows.Scan(&word, &raw); err != nil {
			return nil, fmt.Errorf("scan lexicon entry: %w", err)
		}
		var entry domain.LexiconEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
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
func (l *LexiconLoader) LookupEntry(ctx context.Context, word string) (domain.LexiconEntry, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM lexicon_entries WHERE word=$1`, word).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LexiconEntry{}, fmt.Errorf("%w: %s", domain.ErrWordNotFound, word)
	}
	if err != nil {
		return domain.LexiconEntry{}, fmt.Errorf("lookup %s: %w", word, err)
	}
	var entry domain.LexiconEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.LexiconEntry{}, fmt.Errorf("unmarshal lexicon entry %q: %w", word, err)
	}
	return entry, nil
}
