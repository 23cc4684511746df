package bot

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Fatal("empty store reported a session")
	}

	session := Session{OrderType: OrderTypeApp, Step: StepEmail, Name: "Alice"}
	if err := store.Set(ctx, 1, session); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok, err := store.Get(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("Get = (%v, %v), want session", ok, err)
	}
	if got != session {
		t.Errorf("Get = %+v, want %+v", got, session)
	}

	// A new Set silently replaces whatever was in flight.
	replacement := Session{OrderType: OrderTypeWebsite, Step: StepItemSelection}
	if err := store.Set(ctx, 1, replacement); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, _, _ = store.Get(ctx, 1)
	if got.Name != "" || got.OrderType != OrderTypeWebsite {
		t.Errorf("replacement kept old fields: %+v", got)
	}

	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Error("session survived Delete")
	}
}

func TestMemorySessionStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	const users = 8
	const rounds = 100

	var wg sync.WaitGroup
	for u := int64(1); u <= users; u++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				session := Session{
					OrderType: OrderTypeApp,
					Step:      StepName,
					Name:      fmt.Sprintf("user-%d-round-%d", chatID, i),
				}
				if err := store.Set(ctx, chatID, session); err != nil {
					t.Errorf("Set failed: %v", err)
					return
				}
				got, ok, err := store.Get(ctx, chatID)
				if err != nil || !ok {
					t.Errorf("Get = (%v, %v)", ok, err)
					return
				}
				if got.Name != session.Name {
					t.Errorf("chat %d read %q, want %q", chatID, got.Name, session.Name)
					return
				}
			}
		}(u)
	}
	wg.Wait()

	for u := int64(1); u <= users; u++ {
		got, ok, _ := store.Get(ctx, u)
		if !ok {
			t.Fatalf("chat %d lost its session", u)
		}
		want := fmt.Sprintf("user-%d-round-%d", u, rounds-1)
		if got.Name != want {
			t.Errorf("chat %d final name = %q, want %q", u, got.Name, want)
		}
	}
}
