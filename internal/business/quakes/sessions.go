package quakes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Sessions holds the open dashboard sessions keyed by ID.
// Idle sessions are evicted by Sweep once they exceed the TTL.
type Sessions struct {
	store    *FeedStore
	pageSize int
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessions creates an empty registry. A non-positive ttl disables eviction.
func NewSessions(store *FeedStore, pageSize int, ttl time.Duration, logger zerolog.Logger) *Sessions {
	return &Sessions{
		store:    store,
		pageSize: pageSize,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create opens a session with default inputs.
func (r *Sessions) Create() *Session {
	s := newSession(uuid.NewString(), r.store, r.pageSize, r.now)

	r.mu.Lock()
	r.sessions[s.ID] = s
	count := len(r.sessions)
	r.mu.Unlock()

	sessionsActive.Set(float64(count))
	r.logger.Debug().Str("session_id", s.ID).Msg("session created")
	return s
}

// Get looks up a session.
func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Delete closes a session. Returns true if it existed.
func (r *Sessions) Delete(id string) bool {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	count := len(r.sessions)
	r.mu.Unlock()

	sessionsActive.Set(float64(count))
	return ok
}

// Len returns the number of open sessions.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Sessions) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if s.lastActive().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	count := len(r.sessions)
	r.mu.Unlock()

	sessionsActive.Set(float64(count))
	if removed > 0 {
		r.logger.Info().Int("evicted", removed).Int("remaining", count).Msg("idle sessions evicted")
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Sessions) RunSweeper(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
