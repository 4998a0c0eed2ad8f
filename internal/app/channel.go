package app

import (
	"sort"
	"sync"
	"time"

	"wordquiz/internal/domain"
)

// Channel is an in-memory chat channel: its members and the subscribers that
// receive every render of rounds started in it.
type Channel struct {
	id           string
	createdAt    time.Time
	now          func() time.Time
	mu           sync.RWMutex
	participants map[string]*domain.Participant
	subscribers  map[chan domain.Render]struct{}
	last         *domain.Render
}

func newChannel(id string) *Channel {
	return newChannelWithClock(id, time.Now)
}

// newChannelWithClock allows deterministic timestamps in tests.
func newChannelWithClock(id string, now func() time.Time) *Channel {
	return &Channel{
		id:           id,
		createdAt:    now(),
		now:          now,
		participants: make(map[string]*domain.Participant),
		subscribers:  make(map[chan domain.Render]struct{}),
	}
}

// ID returns the channel identifier.
func (c *Channel) ID() string {
	return c.id
}

func (c *Channel) join(userID, displayName string) domain.Roster {
	c.mu.Lock()
	defer c.mu.Unlock()

	if participant, ok := c.participants[userID]; ok {
		participant.DisplayName = displayName
	} else {
		c.participants[userID] = &domain.Participant{
			UserID:      userID,
			DisplayName: displayName,
			JoinedAt:    c.now(),
		}
	}
	return c.rosterLocked()
}

func (c *Channel) leave(userID string) domain.Roster {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.participants, userID)
	return c.rosterLocked()
}

func (c *Channel) participant(userID string) (domain.Participant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.participants[userID]
	if !ok {
		return domain.Participant{}, false
	}
	return *p, true
}

func (c *Channel) isEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.participants) == 0
}

// IsEmpty reports whether the channel has no participants.
func (c *Channel) IsEmpty() bool {
	return c.isEmpty()
}

// subscribe registers a render listener. The latest render, if any, is
// delivered first so late joiners see the current round.
func (c *Channel) subscribe() (<-chan domain.Render, func()) {
	ch := make(chan domain.Render, 8)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	if c.last != nil {
		ch <- *c.last
	}
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// publish fans a render out to every subscriber. It is used as a round's
// RenderFunc.
func (c *Channel) publish(render domain.Render) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = &render
	for ch := range c.subscribers {
		select {
		case ch <- render:
		default:
			// drop the oldest queued render so slow readers never block a round
			select {
			case <-ch:
			default:
			}
			ch <- render
		}
	}
}

func (c *Channel) rosterLocked() domain.Roster {
	entries := make([]domain.RosterEntry, 0, len(c.participants))
	for _, participant := range c.participants {
		entries = append(entries, domain.RosterEntry{
			UserID:      participant.UserID,
			DisplayName: participant.DisplayName,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		pi := c.participants[entries[i].UserID]
		pj := c.participants[entries[j].UserID]
		if !pi.JoinedAt.Equal(pj.JoinedAt) {
			return pi.JoinedAt.Before(pj.JoinedAt)
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})

	return domain.Roster{
		ChannelID: c.id,
		Entries:   entries,
		UpdatedAt: c.now(),
	}
}
