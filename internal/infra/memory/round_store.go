package memory

import (
	"sync"
	"time"

	"wordquiz/internal/app"
)

// RoundStore keeps rounds for a retention period after they were created.
// Expired rounds are swept on Save.
type RoundStore struct {
	retention time.Duration
	clock     func() time.Time

	mu     sync.RWMutex
	rounds map[string]storedRound
}

type storedRound struct {
	round     *app.Round
	expiresAt time.Time
}

func NewRoundStore(retention time.Duration) *RoundStore {
	return &RoundStore{
		retention: retention,
		clock:     time.Now,
		rounds:    make(map[string]storedRound),
	}
}

func (s *RoundStore) Save(round *app.Round) {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, stored := range s.rounds {
		if !stored.expiresAt.After(now) && isResolved(stored.round) {
			delete(s.rounds, id)
		}
	}
	expiresAt := round.Deadline()
	if s.retention > 0 {
		expiresAt = expiresAt.Add(s.retention)
	}
	s.rounds[round.ID()] = storedRound{round: round, expiresAt: expiresAt}
}

func (s *RoundStore) Get(roundID string) (*app.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.rounds[roundID]
	if !ok || !stored.expiresAt.After(s.clock()) && isResolved(stored.round) {
		return nil, false
	}
	return stored.round, true
}

// Len returns the number of retained rounds.
func (s *RoundStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rounds)
}

func isResolved(round *app.Round) bool {
	return round.State().Terminal()
}
