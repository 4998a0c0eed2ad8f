package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"wordquiz/internal/app"
)

// ChannelStore is a Redis-aware implementation of app.ChannelRepository.
// Channels and their subscribers stay in process; Redis only carries a
// liveness marker per active channel so other instances can see which
// channels are in use.
type ChannelStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	channels map[string]*app.Channel
}

var _ app.ChannelRepository = (*ChannelStore)(nil)

func NewChannelStore(client *redis.Client, ttl time.Duration) *ChannelStore {
	return &ChannelStore{
		client:   client,
		ttl:      ttl,
		channels: make(map[string]*app.Channel),
	}
}

func (s *ChannelStore) GetOrCreate(channelID string) *app.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	channel, ok := s.channels[channelID]
	if !ok {
		channel = app.NewChannel(channelID)
		s.channels[channelID] = channel
	}
	// best-effort liveness marker, refreshed on every join
	_ = s.client.Set(context.Background(), s.key(channelID), "1", s.ttl).Err()
	return channel
}

func (s *ChannelStore) Get(channelID string) (*app.Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channel, ok := s.channels[channelID]
	return channel, ok
}

func (s *ChannelStore) DeleteIfEmpty(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	channel, ok := s.channels[channelID]
	if !ok {
		return
	}
	if channel.IsEmpty() {
		delete(s.channels, channelID)
		_ = s.client.Del(context.Background(), s.key(channelID)).Err()
	}
}

func (s *ChannelStore) key(channelID string) string {
	return "quiz:channel:" + channelID
}
