package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"wordquiz/internal/domain"
	pgmigrations "wordquiz/internal/infra/postgres/migrations"
)

// lexiconRow is the bun model of the lexicon_entries table.
type lexiconRow struct {
	bun.BaseModel `bun:"table:lexicon_entries"`

	Word      string    `bun:"word,pk"`
	Data      string    `bun:"data,type:jsonb"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// OpenDB opens a bun handle over the pgdriver connector.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return group, nil
}

// LexiconWriter upserts lexicon entries in batches.
type LexiconWriter struct {
	db        *bun.DB
	batchSize int
}

func NewLexiconWriter(db *bun.DB) *LexiconWriter {
	return &LexiconWriter{db: db, batchSize: 500}
}

// WriteLexicon stores entries, replacing existing rows with the same word.
// Each batch runs in its own transaction.
func (w *LexiconWriter) WriteLexicon(ctx context.Context, entries []domain.LexiconEntry) (int, error) {
	rows := make([]lexiconRow, 0, len(entries))
	for _, entry := range entries {
		if entry.Word == "" {
			continue
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return 0, fmt.Errorf("marshal entry %q: %w", entry.Word, err)
		}
		rows = append(rows, lexiconRow{Word: entry.Word, Data: string(data), UpdatedAt: time.Now().UTC()})
	}

	written := 0
	for start := 0; start < len(rows); start += w.batchSize {
		batch := rows[start:min(start+w.batchSize, len(rows))]
		err := w.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.NewInsert().
				Model(&batch).
				On("CONFLICT (word) DO UPDATE").
				Set("data = EXCLUDED.data").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx)
			return err
		})
		if err != nil {
			return written, fmt.Errorf("write lexicon batch at %d: %w", start, err)
		}
		written += len(batch)
	}
	return written, nil
}
