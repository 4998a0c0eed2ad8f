package memory

import "testing"

func TestChannelStoreLifecycle(t *testing.T) {
	store := NewChannelStore()

	channel := store.GetOrCreate("chan-1")
	if channel == nil {
		t.Fatalf("expected channel")
	}
	if again := store.GetOrCreate("chan-1"); again != channel {
		t.Fatalf("expected the same channel on second call")
	}
	if _, ok := store.Get("chan-1"); !ok {
		t.Fatalf("expected channel present")
	}

	store.DeleteIfEmpty("chan-1")
	if _, ok := store.Get("chan-1"); ok {
		t.Fatalf("expected channel removed when empty")
	}
}
