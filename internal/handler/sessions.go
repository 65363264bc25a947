// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/utils"
)

// Session is one client's server-side state. Sessions carry no secrets;
// they only correlate requests and remember whether the client has
// unlocked the archive.
type Session struct {
	ID            string
	CreatedAt     time.Time
	LastActivity  time.Time
	Authenticated bool
}

// SessionTable is a mutex-guarded in-memory session registry with a
// fixed inactivity timeout.
type SessionTable struct {
	mu       sync.Mutex
	sessions map[string]*Session
	timeout  time.Duration
	uuid     *utils.UUIDGenerator
	logs     *logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewSessionTable builds an empty table expiring sessions idle longer
// than timeout.
func NewSessionTable(timeout time.Duration, logs *logger.Logger) *SessionTable {
	return &SessionTable{
		sessions: make(map[string]*Session),
		timeout:  timeout,
		uuid:     utils.NewUUIDGenerator(),
		logs:     logs,
		now:      time.Now,
	}
}

// Create registers a new unauthenticated session and returns it.
func (t *SessionTable) Create() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC()
	session := &Session{
		ID:           t.uuid.Generate(),
		CreatedAt:    now,
		LastActivity: now,
	}
	t.sessions[session.ID] = session

	t.logs.Debug().Str("session_id", session.ID).Msg("session created")
	return session
}

// Get returns the session stored under id. An expired session is
// removed and reported as ErrSessionExpired; an unknown id as
// ErrSessionNotFound.
func (t *SessionTable) Get(id string) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if t.expired(session) {
		delete(t.sessions, id)
		t.logs.Debug().Str("session_id", id).Msg("session expired")
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Touch refreshes the session's last-activity timestamp.
func (t *SessionTable) Touch(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if session, ok := t.sessions[id]; ok {
		session.LastActivity = t.now().UTC()
	}
}

// SetAuthenticated flips the session's authentication state.
func (t *SessionTable) SetAuthenticated(id string, authenticated bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if session, ok := t.sessions[id]; ok {
		session.Authenticated = authenticated
	}
}

// Sweep removes every expired session and returns how many were
// dropped. Called periodically by the session sweeper worker.
func (t *SessionTable) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, session := range t.sessions {
		if t.expired(session) {
			delete(t.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		t.logs.Debug().Int("removed", removed).Msg("expired sessions swept")
	}
	return removed
}

// Len reports the number of live entries, expired or not.
func (t *SessionTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

func (t *SessionTable) expired(session *Session) bool {
	return t.now().UTC().Sub(session.LastActivity) > t.timeout
}
