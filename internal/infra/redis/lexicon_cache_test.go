package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"wordquiz/internal/domain"
	"wordquiz/internal/infra/memory"
)

func TestLexiconCacheStoresInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{LexiconLoader: memory.NewStaticLexiconLoader(sampleEntries())}
	cache := NewLexiconCache(newClient(mr), loader, time.Minute, nil)

	entries, err := cache.LoadLexicon(context.Background())
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	if len(entries) != 2 || loader.count() != 1 {
		t.Fatalf("expected 2 entries from one load, got %d entries and %d loads", len(entries), loader.count())
	}
	if !mr.Exists(DefaultLexiconKey) {
		t.Fatalf("expected %s to be written", DefaultLexiconKey)
	}
	if ttl := mr.TTL(DefaultLexiconKey); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("expected ttl with at most 10%% jitter, got %s", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := cache.LoadLexicon(context.Background())
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.count())
	}
	if cached[0].Word != "ocean" || cached[1].Word != "sea" {
		t.Fatalf("expected entries sorted by word, got %+v", cached)
	}
	if cached[0].Senses[0].POS != domain.PartOfSpeechNoun || cached[0].Senses[0].Lemmas[1] != "sea" {
		t.Fatalf("entry did not round trip: %+v", cached[0])
	}
}

func TestLexiconCacheReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{LexiconLoader: memory.NewStaticLexiconLoader(sampleEntries())}
	cache := NewLexiconCache(newClient(mr), loader, time.Minute, nil)

	if _, err := cache.LoadLexicon(context.Background()); err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.LoadLexicon(context.Background()); err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	if loader.count() != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.count())
	}

	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := cache.LoadLexicon(context.Background()); err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	if loader.count() != 3 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.count())
	}
}

func TestLexiconCachePropagatesLoaderErrors(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	boom := errors.New("boom")
	cache := NewLexiconCache(newClient(mr), failingLoader{err: boom}, time.Minute, nil)
	if _, err := cache.LoadLexicon(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if mr.Exists(DefaultLexiconKey) {
		t.Fatalf("nothing should be cached on failure")
	}
}

func TestLexiconCacheFeedsRepository(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewLexiconCache(newClient(mr), memory.NewStaticLexiconLoader(sampleEntries()), time.Minute, nil)
	repo := memory.NewLexiconRepository(cache, time.Minute)

	lex, err := repo.GetLexicon(context.Background())
	if err != nil {
		t.Fatalf("get lexicon: %v", err)
	}
	synonyms, _ := lex.SynonymsAndAntonyms("ocean")
	if len(synonyms) != 1 || synonyms[0] != "sea" {
		t.Fatalf("unexpected synonyms %v", synonyms)
	}
}

type countingLoader struct {
	memory.LexiconLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadLexicon(ctx context.Context) ([]domain.LexiconEntry, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.LexiconLoader.LoadLexicon(ctx)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type failingLoader struct {
	err error
}

func (l failingLoader) LoadLexicon(context.Context) ([]domain.LexiconEntry, error) {
	return nil, l.err
}

func sampleEntries() []domain.LexiconEntry {
	return []domain.LexiconEntry{
		{Word: "sea", Senses: []domain.Sense{{POS: domain.PartOfSpeechNoun, Definition: "a division of an ocean", Lemmas: []string{"sea"}}}},
		{Word: "ocean", Senses: []domain.Sense{{POS: domain.PartOfSpeechNoun, Definition: "a large body of water", Lemmas: []string{"ocean", "sea"}}}},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
