package session

import (
	"errors"
	"sync"
	"time"

	"github.com/inconshreveable/log15"

	"github.com/tracelink-network/gtrace/crypto"
)

// ErrInvalidCredentials is the uniform login failure. The specific cause
// (unknown user, wrong password) is logged, never surfaced.
var ErrInvalidCredentials = errors.New("session: invalid credentials")

// processStart anchors the monotonic-nanosecond component of session
// identifiers; wall-clock adjustments cannot produce a collision with an
// earlier identifier.
var processStart = time.Now()

type entry struct {
	username string
	lastSeen time.Time
}

// Store is the process-wide session mapping. Lifecycle is bound to process
// uptime; nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	byUser   map[string]string
	timeout  time.Duration

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewStore creates a store whose sessions expire after timeout of
// inactivity.
func NewStore(timeout time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		byUser:   make(map[string]string),
		timeout:  timeout,
		now:      time.Now,
	}
}

// newSessionID derives an identifier from the username, the wall clock in
// milliseconds and the process-monotonic nanoseconds, digested to 64 hex
// characters.
func newSessionID(username string, now time.Time) string {
	return crypto.HashConcat(
		username,
		crypto.FormatUint(uint64(now.UnixMilli())),
		crypto.FormatUint(uint64(time.Since(processStart).Nanoseconds())),
	)
}

// Create returns a session identifier for username. A user with a live
// session gets the existing identifier back rather than a new allocation.
func (s *Store) Create(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	if id, ok := s.byUser[username]; ok {
		if e, live := s.sessions[id]; live && now.Sub(e.lastSeen) <= s.timeout {
			e.lastSeen = now
			return id
		}
		// Stale mapping left by an expired session.
		delete(s.sessions, id)
		delete(s.byUser, username)
	}

	id := newSessionID(username, now)
	s.sessions[id] = &entry{username: username, lastSeen: now}
	s.byUser[username] = id
	return id
}

// Get resolves a session identifier to its username, refreshing the idle
// timer. Expired sessions are removed on access.
func (s *Store) Get(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return "", false
	}
	now := s.now()
	if now.Sub(e.lastSeen) > s.timeout {
		delete(s.sessions, id)
		delete(s.byUser, e.username)
		return "", false
	}
	e.lastSeen = now
	return e.username, true
}

// Destroy removes a session if present.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		delete(s.byUser, e.username)
		delete(s.sessions, id)
	}
}

// Len returns the number of live entries, expired or not yet reaped
// included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Authenticator validates credentials against a fixed user set and hands out
// sessions.
type Authenticator struct {
	mu    sync.RWMutex
	users map[string]*User
	store *Store
	log   log15.Logger
}

// NewAuthenticator creates an authenticator over store.
func NewAuthenticator(store *Store) *Authenticator {
	return &Authenticator{
		users: make(map[string]*User),
		store: store,
		log:   log15.New("module", "session"),
	}
}

// AddUser registers or replaces a user.
func (a *Authenticator) AddUser(u *User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[u.Username] = u
}

// Login checks the credentials and returns a session identifier. Unknown
// username and password mismatch are indistinguishable to the caller; the
// detailed reason goes to the log only.
func (a *Authenticator) Login(username, password string) (string, error) {
	a.mu.RLock()
	u, ok := a.users[username]
	a.mu.RUnlock()
	if !ok {
		a.log.Warn("Login failed", "reason", "unknown username")
		return "", ErrInvalidCredentials
	}
	if !u.CheckPassword(password) {
		a.log.Warn("Login failed", "reason", "password mismatch", "user", username)
		return "", ErrInvalidCredentials
	}
	return a.store.Create(username), nil
}

// UserForSession resolves a live session to its user.
func (a *Authenticator) UserForSession(id string) (*User, bool) {
	username, ok := a.store.Get(id)
	if !ok {
		return nil, false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	u, ok := a.users[username]
	return u, ok
}
