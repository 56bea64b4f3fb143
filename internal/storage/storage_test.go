package storage

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eugenenazirov/paper-carbon/internal/tracker"
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
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(opts ...Option) (*MemoryStorage, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewMemoryStorage(nil, opts...), clock
}

func TestWithCreatesSessionForUnknownIDs(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore()

	for _, id := range []string{"", "not-a-ulid", "01ARZ3NDEKTSV4RRFFQ69G5FAV"} {
		got, err := store.With(id, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == "" || got == id {
			t.Fatalf("expected a fresh session id for %q, got %q", id, got)
		}
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 sessions, got %d", store.Len())
	}
}

func TestWithReusesSessionState(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore()

	id, err := store.With("", func(tr *tracker.Tracker) {
		tr.SetSheetText("100")
		tr.Calculate()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var state tracker.State
	again, err := store.With(id, func(tr *tracker.Tracker) {
		state = tr.State()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != id {
		t.Fatalf("expected session %s to be reused, got %s", id, again)
	}
	if state.Result == nil {
		t.Fatalf("expected stored result to survive between calls")
	}
}

func TestFactoryBuildsNewSessions(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage(func() *tracker.Tracker {
		return tracker.New(tracker.WithMode(tracker.ModeStandard))
	})

	var mode tracker.Mode
	if _, err := store.With("", func(tr *tracker.Tracker) { mode = tr.Form().Mode }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != tracker.ModeStandard {
		t.Fatalf("expected factory mode standard, got %s", mode)
	}
}

func TestExpiredSessionsAreReplaced(t *testing.T) {
	t.Parallel()

	store, clock := newTestStore(WithTTL(time.Minute))

	id, _ := store.With("", nil)
	clock.Advance(30 * time.Second)
	if again, _ := store.With(id, nil); again != id {
		t.Fatalf("expected session to be alive after 30s")
	}

	clock.Advance(2 * time.Minute)
	if again, _ := store.With(id, nil); again == id {
		t.Fatalf("expected idle session to expire")
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()

	store, clock := newTestStore(WithTTL(time.Minute))
	for i := 0; i < 5; i++ {
		if _, err := store.With("", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if removed := store.Sweep(); removed != 0 {
		t.Fatalf("expected nothing to expire yet, removed %d", removed)
	}

	clock.Advance(2 * time.Minute)
	if removed := store.Sweep(); removed != 5 {
		t.Fatalf("expected 5 expired sessions, removed %d", removed)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestMaxSessions(t *testing.T) {
	t.Parallel()

	store, clock := newTestStore(WithMaxSessions(2), WithTTL(time.Minute))

	first, _ := store.With("", nil)
	if _, err := store.With("", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.With("", nil); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}

	// existing sessions keep working while the store is full
	if again, err := store.With(first, nil); err != nil || again != first {
		t.Fatalf("expected existing session to be served, got %q, %v", again, err)
	}

	// expired sessions make room
	clock.Advance(2 * time.Minute)
	if _, err := store.With("", nil); err != nil {
		t.Fatalf("expected room after expiry, got %v", err)
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store, _ := newTestStore()
	id, _ := store.With("", nil)
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			if _, err := store.With(id, func(tr *tracker.Tracker) {
				tr.SetSheetText("10")
				tr.Calculate()
			}); err != nil {
				t.Errorf("With failed: %v", err)
			}
		}()

		go func() {
			defer wg.Done()
			if _, err := store.With(id, func(tr *tracker.Tracker) {
				tr.Dismiss()
				_ = tr.State()
			}); err != nil {
				t.Errorf("With failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if store.Len() != 1 {
		t.Fatalf("expected a single shared session, got %d", store.Len())
	}
}
