// Package transport implements the Session & Transport Layer (C8): the
// streaming /mcp HTTP endpoint, its JSON-RPC envelope, the per-session
// dispatcher, and the bounded event log backing SSE resumption. SSE
// subscriber registration uses ping heartbeats, X-Accel-Buffering: no, and
// flush-per-event; the HTTP server carries explicit Read/Write/Idle
// timeouts and a graceful Shutdown(ctx).
package transport

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/common"
	"github.com/ternarybob/docsearch/internal/models"
)

// SessionRegistry owns the process-wide Session map: mutated on create and
// destroy only, so reads never block on long-lived dispatch work.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*models.Session)}
}

// Create mints a fresh high-entropy session identifier (a UUIDv4 carries
// 122 bits of entropy) and registers it.
func (r *SessionRegistry) Create() *models.Session {
	now := time.Now()
	s := &models.Session{ID: uuid.NewString(), CreatedAt: now, LastActivity: now}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for id, or nil if it does not exist (never
// created, or already destroyed).
func (r *SessionRegistry) Get(id string) *models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Touch updates a session's last-activity timestamp, keeping it alive
// against the inactivity sweep.
func (r *SessionRegistry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.LastActivity = time.Now()
	}
}

// Destroy terminates a session. Returns false if it did not exist.
func (r *SessionRegistry) Destroy(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Count reports the live session cardinality, which never exceeds the
// number of live client transports currently attached.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SweepInactive destroys every session whose last activity predates
// cutoff, returning the number of sessions destroyed.
func (r *SessionRegistry) SweepInactive(idleTimeout time.Duration) int {
	cutoff := time.Now().Add(-idleTimeout)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.LastActivity.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper starts a background sweep loop, stopping when ctx-like done
// channel closes. Callers own the ticker's lifecycle via the returned
// stop function. The loop runs under common.SafeGo so a bug in a future
// sweep rule logs and recovers instead of taking the process down.
func (r *SessionRegistry) RunSweeper(interval, idleTimeout time.Duration, logger arbor.ILogger) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	common.SafeGo(logger, "session-sweeper", func() {
		for {
			select {
			case <-ticker.C:
				r.SweepInactive(idleTimeout)
			case <-done:
				ticker.Stop()
				return
			}
		}
	})
	return func() { close(done) }
}
