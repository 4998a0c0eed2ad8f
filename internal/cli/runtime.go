package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wordquiz/internal/app"
	"wordquiz/internal/config"
	"wordquiz/internal/infra/dataset"
	"wordquiz/internal/infra/memory"
	pgstore "wordquiz/internal/infra/postgres"
	rediscache "wordquiz/internal/infra/redis"
	"wordquiz/internal/infra/sqlite"
	"wordquiz/internal/logger"
)

const (
	defaultRedisTTL   = 10 * time.Minute
	defaultLexiconTTL = time.Hour
	defaultRetention  = 10 * time.Minute
)

// runtime holds the wired dependencies shared by the commands.
type runtime struct {
	cfg      config.Config
	logger   *zap.Logger
	redis    *redis.Client
	lexicons *memory.LexiconRepository
	closers  []func()
}

func loadRuntime(ctx context.Context, path string) (*runtime, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: log}
	rt.closers = append(rt.closers, func() { _ = log.Sync() })

	if cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = rt.redis.Close() })
	}

	loader, err := rt.lexiconLoader(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if rt.redis != nil {
		loader = rediscache.NewLexiconCache(rt.redis, loader, config.Duration(cfg.Redis.TTL, defaultRedisTTL), log)
	}
	rt.lexicons = memory.NewLexiconRepository(loader, config.Duration(cfg.Lexicon.TTL, defaultLexiconTTL))
	return rt, nil
}

// lexiconLoader picks the backing store: postgres, then a sqlite bundle, then
// a dataset file, then the embedded sample.
func (rt *runtime) lexiconLoader(ctx context.Context) (memory.LexiconLoader, error) {
	switch {
	case rt.cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, rt.cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		rt.logger.Info("lexicon source", zap.String("store", "postgres"))
		return pgstore.NewLexiconLoader(pool), nil
	case rt.cfg.SQLite.Path != "":
		bundle, err := sqlite.Open(ctx, rt.cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = bundle.Close() })
		rt.logger.Info("lexicon source", zap.String("store", "sqlite"), zap.String("path", rt.cfg.SQLite.Path))
		return bundle, nil
	case rt.cfg.Lexicon.Path != "":
		rt.logger.Info("lexicon source", zap.String("store", "dataset"), zap.String("path", rt.cfg.Lexicon.Path))
		return dataset.NewFileLoader(rt.cfg.Lexicon.Path), nil
	default:
		rt.logger.Info("lexicon source", zap.String("store", "embedded sample"))
		return memory.NewStaticLexiconLoader(dataset.Sample()), nil
	}
}

// service builds a QuizService over the configured lexicon and channel store.
func (rt *runtime) service(opts ...app.ServiceOption) *app.QuizService {
	var channels app.ChannelRepository = memory.NewChannelStore()
	if rt.redis != nil {
		channels = rediscache.NewChannelStore(rt.redis, config.Duration(rt.cfg.Redis.TTL, defaultRedisTTL))
	}
	rounds := memory.NewRoundStore(config.Duration(rt.cfg.Quiz.Retention, defaultRetention))

	base := []app.ServiceOption{
		app.WithLogger(rt.logger),
		app.WithRoundTimeout(config.Duration(rt.cfg.Quiz.Timeout, app.DefaultRoundTimeout)),
		app.WithSelector(app.NewSelector(app.WithHardAttempts(rt.cfg.Lexicon.HardAttempts))),
	}
	return app.NewQuizService(channels, rounds, rt.lexicons, append(base, opts...)...)
}

// Close releases connections in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}
