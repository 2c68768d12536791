package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestRecordTruncatesFIFO(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(20)

	for i := 0; i < 30; i++ {
		if err := store.Record(ctx, "10.0.0.1", []string{fmt.Sprintf("song-%d", i)}); err != nil {
			t.Fatalf("record: %v", err)
		}
		history, _ := store.History(ctx, "10.0.0.1")
		if len(history) > 20 {
			t.Fatalf("history exceeded limit: %d", len(history))
		}
	}

	history, _ := store.History(ctx, "10.0.0.1")
	if len(history) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(history))
	}
	if history[0] != "song-10" || history[19] != "song-29" {
		t.Errorf("expected song-10..song-29, got %s..%s", history[0], history[19])
	}
}

func TestRecordBatchLargerThanLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(3)

	store.Record(ctx, "k", []string{"a", "b", "c", "d", "e"})
	history, _ := store.History(ctx, "k")
	if len(history) != 3 || history[0] != "c" {
		t.Errorf("expected [c d e], got %v", history)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(5)
	store.Record(ctx, "k", []string{"a"})

	history, _ := store.History(ctx, "k")
	history[0] = "mutated"

	again, _ := store.History(ctx, "k")
	if again[0] != "a" {
		t.Errorf("store state leaked through History: %v", again)
	}
}

func TestResetSemantics(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(20)
	store.Record(ctx, "known", []string{"a", "b"})

	found, err := store.Reset(ctx, "known")
	if err != nil || !found {
		t.Fatalf("expected reset of known session, got found=%v err=%v", found, err)
	}
	history, _ := store.History(ctx, "known")
	if len(history) != 0 {
		t.Errorf("expected empty history after reset, got %v", history)
	}

	found, err = store.Reset(ctx, "stranger")
	if err != nil || found {
		t.Errorf("expected not found for unknown session, got found=%v err=%v", found, err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("reset of unknown key must not create an entry, count=%d", n)
	}
}

func TestConcurrentRecordNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Record(ctx, "shared", []string{fmt.Sprintf("id-%d", n)})
		}(i)
	}
	wg.Wait()

	history, _ := store.History(ctx, "shared")
	if len(history) != 50 {
		t.Errorf("expected 50 entries, got %d", len(history))
	}
}
