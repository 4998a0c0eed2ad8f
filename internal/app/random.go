package app

import (
	"math/rand"
	"sync"
	"time"
)

// randomizer serializes access to a *rand.Rand shared by concurrent builders.
type randomizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newRandomizer(seed int64) *randomizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randomizer{rnd: rand.New(rand.NewSource(seed))}
}

func (r *randomizer) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// shuffled returns a shuffled copy of in.
func (r *randomizer) shuffled(in []string) []string {
	out := append([]string(nil), in...)
	r.mu.Lock()
	r.rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	r.mu.Unlock()
	return out
}

// sample draws n distinct elements of in uniformly without replacement.
func (r *randomizer) sample(in []string, n int) []string {
	if n > len(in) {
		n = len(in)
	}
	return r.shuffled(in)[:n]
}
