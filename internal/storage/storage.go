package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/eugenenazirov/paper-carbon/internal/tracker"
)

const (
	defaultMaxSessions = 10_000
	defaultTTL         = 30 * time.Minute
)

var (
	// ErrTooManySessions indicates the store is full and cannot start a new session.
	ErrTooManySessions = errors.New("too many active sessions")
)

// Storage keeps one tracker per browser session.
type Storage interface {
	// With runs fn against the tracker of session id, creating a fresh session
	// when id is empty, malformed or unknown. It returns the effective id.
	With(id string, fn func(t *tracker.Tracker)) (string, error)
	Len() int
}

// Factory builds the tracker of a new session.
type Factory func() *tracker.Tracker

type session struct {
	tracker *tracker.Tracker
	seenAt  time.Time
}

// MemoryStorage keeps sessions in-memory and serialises access with a mutex.
type MemoryStorage struct {
	mu       sync.Mutex
	sessions map[string]*session

	factory     Factory
	ttl         time.Duration
	maxSessions int
	clock       func() time.Time
}

// Option configures a MemoryStorage.
type Option func(*MemoryStorage)

// WithTTL sets how long an idle session survives.
func WithTTL(ttl time.Duration) Option {
	return func(s *MemoryStorage) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *MemoryStorage) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *MemoryStorage) {
		s.clock = clock
	}
}

// NewMemoryStorage creates an empty store whose sessions start from factory.
func NewMemoryStorage(factory Factory, opts ...Option) *MemoryStorage {
	if factory == nil {
		factory = func() *tracker.Tracker { return tracker.New() }
	}
	s := &MemoryStorage{
		sessions:    make(map[string]*session),
		factory:     factory,
		ttl:         defaultTTL,
		maxSessions: defaultMaxSessions,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// With implements Storage. fn runs while the store is locked and must not block.
func (s *MemoryStorage) With(id string, fn func(t *tracker.Tracker)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	sess, ok := s.lookup(id, now)
	if !ok {
		if len(s.sessions) >= s.maxSessions {
			s.sweepLocked(now)
			if len(s.sessions) >= s.maxSessions {
				return "", ErrTooManySessions
			}
		}
		id = ulid.Make().String()
		sess = &session{tracker: s.factory()}
		s.sessions[id] = sess
	}

	sess.seenAt = now
	if fn != nil {
		fn(sess.tracker)
	}
	return id, nil
}

// Len returns the number of live sessions.
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many were removed.
func (s *MemoryStorage) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.clock())
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *MemoryStorage) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *MemoryStorage) lookup(id string, now time.Time) (*session, bool) {
	if id == "" {
		return nil, false
	}
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, false
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	return sess, true
}

func (s *MemoryStorage) sweepLocked(now time.Time) int {
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStorage) expired(sess *session, now time.Time) bool {
	return now.Sub(sess.seenAt) > s.ttl
}
