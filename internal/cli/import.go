package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wordquiz/internal/config"
	"wordquiz/internal/domain"
	"wordquiz/internal/infra/dataset"
	pgstore "wordquiz/internal/infra/postgres"
	"wordquiz/internal/infra/sqlite"
	"wordquiz/internal/logger"
)

type importOptions struct {
	from       string
	to         string
	sqlitePath string
}

// NewImportCmd loads a YAML dataset into Postgres or a SQLite bundle.
func NewImportCmd(configPath *string) *cobra.Command {
	opts := importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a lexicon dataset into postgres or a sqlite bundle",
		Example: "  wordquiz import --from lexicon.yaml --to postgres\n" +
			"  wordquiz import --from lexicon.yaml --to sqlite --sqlite-path lexicon.db",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, *configPath, opts)
		},
	}
	cmd.Flags().StringVar(&opts.from, "from", "", "dataset file (YAML or JSON); empty imports the embedded sample")
	cmd.Flags().StringVar(&opts.to, "to", "sqlite", "destination: postgres or sqlite")
	cmd.Flags().StringVar(&opts.sqlitePath, "sqlite-path", "", "bundle file (overrides sqlite.path)")
	return cmd
}

func runImport(cmd *cobra.Command, configPath string, opts importOptions) error {
	ctx := cmd.Context()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	entries := dataset.Sample()
	if opts.from != "" {
		entries, err = dataset.NewFileLoader(opts.from).LoadLexicon(ctx)
		if err != nil {
			return err
		}
	}

	var written int
	switch opts.to {
	case "postgres":
		written, err = importPostgres(ctx, cfg, entries)
	case "sqlite":
		path := opts.sqlitePath
		if path == "" {
			path = cfg.SQLite.Path
		}
		if path == "" {
			return fmt.Errorf("sqlite path not configured")
		}
		written, err = importSQLite(ctx, path, entries)
	default:
		return fmt.Errorf("unknown destination %q (want postgres or sqlite)", opts.to)
	}
	if err != nil {
		return err
	}
	log.Info("lexicon imported", zap.String("to", opts.to), zap.Int("entries", written))
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries into %s\n", written, opts.to)
	return nil
}

func importPostgres(ctx context.Context, cfg config.Config, entries []domain.LexiconEntry) (int, error) {
	if cfg.Postgres.URL == "" {
		return 0, fmt.Errorf("postgres url not configured")
	}
	db := pgstore.OpenDB(cfg.Postgres.URL)
	defer db.Close()

	if _, err := pgstore.Migrate(ctx, db); err != nil {
		return 0, err
	}
	return pgstore.NewLexiconWriter(db).WriteLexicon(ctx, entries)
}

func importSQLite(ctx context.Context, path string, entries []domain.LexiconEntry) (int, error) {
	bundle, err := sqlite.Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer bundle.Close()
	return bundle.WriteLexicon(ctx, entries)
}
