package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"wordquiz/internal/app"
	"wordquiz/internal/domain"
	"wordquiz/internal/infra/dataset"
	"wordquiz/internal/infra/memory"
	pgstore "wordquiz/internal/infra/postgres"
	infraredis "wordquiz/internal/infra/redis"
)

func TestRoundEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedLexicon(t, ctx, pgURL, dataset.Sample())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewLexiconLoader(pool)
	paris, err := loader.LookupEntry(ctx, "Paris")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !paris.Senses[0].Instance {
		t.Fatalf("expected Paris to be stored as a named entity, got %+v", paris)
	}
	if _, err := loader.LookupEntry(ctx, "ghost"); !errors.Is(err, domain.ErrWordNotFound) {
		t.Fatalf("expected word not found, got %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	cache := infraredis.NewLexiconCache(redisClient, loader, 5*time.Minute, nil)
	lexicons := memory.NewLexiconRepository(cache, time.Minute)
	channels := infraredis.NewChannelStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(channels, memory.NewRoundStore(time.Minute), lexicons)

	if _, err := service.Join(ctx, "general", "u1", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := service.Join(ctx, "general", "u2", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}

	round, err := service.StartRound(ctx, "general", "hard", "hell")
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	if len(round.Options()) < domain.ExtremeMinOptions {
		t.Fatalf("expected at least %d options, got %d", domain.ExtremeMinOptions, len(round.Options()))
	}

	outcome, err := service.SubmitAnswer(ctx, round.ID(), round.Question().CorrectWord, domain.Responder{UserID: "u2"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !outcome.Accepted || !outcome.Correct || outcome.Responder.DisplayName != "Bob" {
		t.Fatalf("expected bob's correct answer to win, got %+v", outcome)
	}

	late, err := service.SubmitAnswer(ctx, round.ID(), round.Question().CorrectWord, domain.Responder{UserID: "u1"})
	if err != nil {
		t.Fatalf("late submit: %v", err)
	}
	if late.Accepted {
		t.Fatalf("late answer must be ignored")
	}

	n, err := redisClient.HLen(ctx, infraredis.DefaultLexiconKey).Result()
	if err != nil {
		t.Fatalf("hlen: %v", err)
	}
	if int(n) != len(dataset.Sample()) {
		t.Fatalf("expected %d cached entries, got %d", len(dataset.Sample()), n)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedLexicon(t *testing.T, ctx context.Context, dsn string, entries []domain.LexiconEntry) {
	t.Helper()
	db := pgstore.OpenDB(dsn)
	defer db.Close()

	if _, err := pgstore.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	written, err := pgstore.NewLexiconWriter(db).WriteLexicon(ctx, entries)
	if err != nil {
		t.Fatalf("write lexicon: %v", err)
	}
	if written != len(entries) {
		t.Fatalf("expected %d rows, wrote %d", len(entries), written)
	}
	// a second import must upsert rather than fail on the primary key
	if _, err := pgstore.NewLexiconWriter(db).WriteLexicon(ctx, entries[:1]); err != nil {
		t.Fatalf("rewrite lexicon: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
