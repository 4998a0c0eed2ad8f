package memory

import (
	"sync"

	"wordquiz/internal/app"
)

// ChannelStore is an in-memory implementation of app.ChannelRepository.
type ChannelStore struct {
	mu       sync.RWMutex
	channels map[string]*app.Channel
}

func NewChannelStore() *ChannelStore {
	return &ChannelStore{
		channels: make(map[string]*app.Channel),
	}
}

func (s *ChannelStore) GetOrCreate(channelID string) *app.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if channel, ok := s.channels[channelID]; ok {
		return channel
	}
	channel := app.NewChannel(channelID)
	s.channels[channelID] = channel
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
	}
}
