package application

import (
	"sort"
	"sync"
	"time"

	"github.com/shreyas-rp/ChatApp/internal/domain"
	"github.com/shreyas-rp/ChatApp/internal/ports"
)

// SessionStatus is the result of a registry lookup.
type SessionStatus int

const (
	SessionAbsent SessionStatus = iota
	SessionActive
	SessionExpired
)

// Registry is the process-wide table of active sessions. It is an explicitly
// owned object injected into the auth service and the HTTP layer; there is no
// package-level state. Entries are pruned lazily on admission and lookup;
// no background timer exists.
//
// All read-modify-write sequences run under one mutex so a prune can never
// race an admission into overshooting the cap.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]domain.Session
	maxSessions int
	ttl         time.Duration
	clock       ports.Clock
}

func NewRegistry(maxSessions int, ttl time.Duration, clock ports.Clock) *Registry {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Registry{
		sessions:    make(map[string]domain.Session),
		maxSessions: maxSessions,
		ttl:         ttl,
		clock:       clock,
	}
}

// Admit registers id iff the active count is below the cap, or id is already
// present (idempotent re-admission for the same browser tab). The cap is
// enforced only here, at admission time.
func (r *Registry) Admit(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.prune(now)

	if session, ok := r.sessions[id]; ok {
		session.LastActiveAt = now
		r.sessions[id] = session
		return true
	}

	if len(r.sessions) >= r.maxSessions {
		return false
	}

	r.sessions[id] = domain.Session{ID: id, CreatedAt: now, LastActiveAt: now}
	return true
}

// Touch refreshes the session's last activity; no-op for unknown ids.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return
	}
	session.LastActiveAt = r.clock.Now()
	r.sessions[id] = session
}

// Lookup reports whether id is active, expired, or absent. An entry observed
// to be stale is removed on the spot, so an expired session is reported as
// expired exactly once and absent afterwards.
func (r *Registry) Lookup(id string) (domain.Session, SessionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, SessionAbsent
	}
	if r.stale(session, r.clock.Now()) {
		delete(r.sessions, id)
		return session, SessionExpired
	}
	return session, SessionActive
}

// IsActive prunes expired entries and reports membership.
func (r *Registry) IsActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(r.clock.Now())
	_, ok := r.sessions[id]
	return ok
}

// Remove deletes the session unconditionally; idempotent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

// ResetAll clears the whole table. Administrative escape hatch for lockouts.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = make(map[string]domain.Session)
}

// Cap returns the configured concurrent-session limit.
func (r *Registry) Cap() int {
	return r.maxSessions
}

// ActiveCount prunes and returns the number of active sessions.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(r.clock.Now())
	return len(r.sessions)
}

// Snapshot returns the active sessions ordered by creation time, for the
// administrative sessions view.
func (r *Registry) Snapshot() []domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(r.clock.Now())

	sessions := make([]domain.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	return sessions
}

// prune removes stale entries. Caller must hold r.mu.
func (r *Registry) prune(now time.Time) {
	for id, session := range r.sessions {
		if r.stale(session, now) {
			delete(r.sessions, id)
		}
	}
}

func (r *Registry) stale(session domain.Session, now time.Time) bool {
	return now.Sub(session.LastActiveAt) > r.ttl
}
