package app

import (
	"testing"
	"time"

	"wordquiz/internal/domain"
)

func TestChannelRosterOrderedByJoinTime(t *testing.T) {
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	c := newChannelWithClock("general", func() time.Time { return now })

	c.join("u2", "Zed")
	now = now.Add(time.Second)
	c.join("u1", "Amy")
	roster := c.join("u3", "Bob")

	want := []string{"u2", "u1", "u3"}
	for i, entry := range roster.Entries {
		if entry.UserID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], entry.UserID)
		}
	}

	roster = c.leave("u2")
	if len(roster.Entries) != 2 || c.isEmpty() {
		t.Fatalf("unexpected roster after leave %+v", roster)
	}
}

func TestChannelFanOutDropsOldestForSlowReaders(t *testing.T) {
	c := newChannel("general")
	ch, cancel := c.subscribe()
	defer cancel()

	for i := 0; i < 20; i++ {
		c.publish(domain.Render{RoundID: "r", Content: string(rune('a' + i))})
	}

	var last domain.Render
	for i := 0; i < cap(ch); i++ {
		last = <-ch
	}
	if last.Content != string(rune('a'+19)) {
		t.Fatalf("expected newest render last, got %q", last.Content)
	}
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra render %+v", extra)
	default:
	}
}

func TestChannelReplaysLastRender(t *testing.T) {
	c := newChannel("general")
	c.publish(domain.Render{RoundID: "r1", State: domain.RoundOpen})

	ch, cancel := c.subscribe()
	select {
	case render := <-ch:
		if render.RoundID != "r1" {
			t.Fatalf("unexpected replay %+v", render)
		}
	default:
		t.Fatalf("expected the last render to be replayed")
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected subscription to be closed")
	}
}
