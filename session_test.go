package widgetdemo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClockedStore(ttl time.Duration) (*MemorySessionStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemorySessionStoreTTL(ttl)
	store.now = clock.Now
	return store, clock
}

func TestMemorySessionStore_SetGetDelete(t *testing.T) {
	store := NewMemorySessionStore()

	if got := store.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}

	store.Set("a", 42)
	if got := store.Get("a"); got != 42 {
		t.Errorf("Get(a) = %v, want 42", got)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}

	store.Delete("a")
	if store.Get("a") != nil {
		t.Error("Get() after Delete() returned a value")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestMemorySessionStore_TTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"custom", time.Hour, time.Hour},
		{"zero uses default", 0, DefaultSessionTTL},
		{"negative uses default", -time.Second, DefaultSessionTTL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewMemorySessionStoreTTL(tt.ttl).ttl; got != tt.want {
				t.Errorf("ttl = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMemorySessionStore_ExpiresIdleSessions(t *testing.T) {
	store, clock := newClockedStore(time.Hour)
	store.Set("idle", "x")
	store.Set("busy", "y")

	clock.Advance(40 * time.Minute)
	if store.Get("busy") == nil {
		t.Fatal("busy session expired too early")
	}

	clock.Advance(40 * time.Minute)
	if got := store.Get("idle"); got != nil {
		t.Errorf("idle session should have expired, got %v", got)
	}
	if store.Get("busy") == nil {
		t.Error("access should refresh the session")
	}
}

func TestMemorySessionStore_Cleanup(t *testing.T) {
	store, clock := newClockedStore(time.Hour)
	store.Set("old-1", 1)
	store.Set("old-2", 2)
	clock.Advance(2 * time.Hour)
	store.Set("new", 3)

	if removed := store.Cleanup(); removed != 2 {
		t.Errorf("Cleanup() = %d, want 2", removed)
	}
	if store.Len() != 1 || store.Get("new") == nil {
		t.Error("Cleanup() removed a live session")
	}
}

func TestMemorySessionStore_RunCleanup(t *testing.T) {
	store, clock := newClockedStore(time.Minute)
	store.Set("old", 1)
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunCleanup(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if store.Len() != 0 {
		t.Error("RunCleanup did not remove the expired session")
	}
}

func TestMemorySessionStore_Concurrent(t *testing.T) {
	store := NewMemorySessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			store.Set(id, i)
			_ = store.Get(id)
		}(i)
	}
	wg.Wait()

	if store.Len() != 50 {
		t.Errorf("Len() = %d, want 50", store.Len())
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := newSessionID(), newSessionID()
	if a == b {
		t.Error("session ids should be unique")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("session id %q is not a UUID: %v", a, err)
	}
}
