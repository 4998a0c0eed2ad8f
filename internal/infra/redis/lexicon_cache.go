package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"wordquiz/internal/domain"
	"wordquiz/internal/infra/memory"
)

// DefaultLexiconKey is the hash holding the cached lexicon:
//
//	HSET lexicon:entries {word} {entry json}
const DefaultLexiconKey = "lexicon:entries"

// LexiconCache caches the lexicon in Redis and falls back to a loader on
// cache miss. It is itself a memory.LexiconLoader so it slots in front of the
// in-process repository.
type LexiconCache struct {
	client *redis.Client
	loader memory.LexiconLoader
	key    string
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

var _ memory.LexiconLoader = (*LexiconCache)(nil)

func NewLexiconCache(client *redis.Client, loader memory.LexiconLoader, ttl time.Duration, logger *zap.Logger) *LexiconCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LexiconCache{
		client: client,
		loader: loader,
		key:    DefaultLexiconKey,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LexiconCache) LoadLexicon(ctx context.Context) ([]domain.LexiconEntry, error) {
	if entries, ok := c.cached(ctx); ok {
		return entries, nil
	}

	result, err, _ := c.sf.Do(c.key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if entries, ok := c.cached(ctx); ok {
			return entries, nil
		}

		entries, err := c.loader.LoadLexicon(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.store(ctx, entries); err != nil {
			// the lexicon is still usable; the next load retries the write
			c.logger.Warn("cache lexicon in redis", zap.Error(err))
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.LexiconEntry), nil
}

// Invalidate drops the cached lexicon so the next load hits the loader.
func (c *LexiconCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

func (c *LexiconCache) cached(ctx context.Context) ([]domain.LexiconEntry, bool) {
	raw, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	entries := make([]domain.LexiconEntry, 0, len(raw))
	for word, data := range raw {
		var entry domain.LexiconEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			c.logger.Warn("drop malformed cached entry", zap.String("word", word), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, false
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Word < entries[j].Word })
	return entries, true
}

func (c *LexiconCache) store(ctx context.Context, entries []domain.LexiconEntry) error {
	fields := make(map[string]interface{}, len(entries))
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry %q: %w", entry.Word, err)
		}
		fields[entry.Word] = data
	}
	if len(fields) == 0 {
		return nil
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, c.key)
	pipe.HSet(ctx, c.key, fields)
	if ttl := c.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, c.key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *LexiconCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
