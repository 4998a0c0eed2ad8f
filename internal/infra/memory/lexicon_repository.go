package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"wordquiz/internal/app"
	"wordquiz/internal/domain"
)

// LexiconLoader fetches lexicon entries from a backing store (dataset file,
// SQLite bundle, Postgres, Redis cache).
type LexiconLoader interface {
	LoadLexicon(ctx context.Context) ([]domain.LexiconEntry, error)
}

// LexiconRepository caches the indexed lexicon with a TTL so the backing
// store is hit once per period.
type LexiconRepository struct {
	loader LexiconLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	lexicon   *Lexicon
	expiresAt time.Time
}

var _ app.LexiconRepository = (*LexiconRepository)(nil)

// NewLexiconRepository caches loads for ttl; ttl <= 0 caches forever.
func NewLexiconRepository(loader LexiconLoader, ttl time.Duration) *LexiconRepository {
	return &LexiconRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *LexiconRepository) GetLexicon(ctx context.Context) (app.Lexicon, error) {
	if lex, ok := r.cached(r.clock()); ok {
		return lex, nil
	}

	result, err, _ := r.sf.Do("lexicon", func() (interface{}, error) {
		now := r.clock()
		if lex, ok := r.cached(now); ok {
			return lex, nil
		}

		entries, err := r.loader.LoadLexicon(ctx)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		lex := NewLexicon(entries)
		if lex.Len() == 0 {
			return nil, domain.ErrLexiconEmpty
		}

		r.mu.Lock()
		r.lexicon = lex
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return lex, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Lexicon), nil
}

func (r *LexiconRepository) cached(now time.Time) (*Lexicon, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.lexicon == nil {
		return nil, false
	}
	if r.ttl > 0 && !r.expiresAt.After(now) {
		return nil, false
	}
	return r.lexicon, true
}

// StaticLexiconLoader is a simple loader backed by an in-memory slice (useful for tests/demos).
type StaticLexiconLoader struct {
	entries []domain.LexiconEntry
}

func NewStaticLexiconLoader(entries []domain.LexiconEntry) *StaticLexiconLoader {
	return &StaticLexiconLoader{entries: entries}
}

func (l *StaticLexiconLoader) LoadLexicon(_ context.Context) ([]domain.LexiconEntry, error) {
	if len(l.entries) == 0 {
		return nil, domain.ErrLexiconEmpty
	}
	return l.entries, nil
}

func (r *LexiconRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
