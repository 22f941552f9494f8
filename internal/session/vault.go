package session

import (
	"sync"
	"time"

	"github.com/awnumar/memguard"
)

type sessionEntry struct {
	userID    string
	secret    *memguard.Enclave
	expiresAt time.Time
}

// Vault is an in-memory store of sealed session secrets. It is safe for
// concurrent use.
type Vault struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

// NewVault returns an empty Vault.
func NewVault() *Vault {
	return &Vault{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

// Put stores secret for the session until expiresAt, replacing any secret
// previously stored under sessionID.
func (v *Vault) Put(sessionID, userID, secret string, expiresAt time.Time) {
	e := sessionEntry{userID: userID, expiresAt: expiresAt}
	if secret != "" {
		// NewEnclave wipes the buffer it seals
		e.secret = memguard.NewEnclave([]byte(secret))
	}

	v.mu.Lock()
	v.sessions[sessionID] = e
	v.mu.Unlock()
}

// Secret returns the secret of an active session owned by userID.
func (v *Vault) Secret(sessionID, userID string) (string, error) {
	e, ok := v.lookup(sessionID, userID)
	if !ok {
		return "", ErrSessionNotFound
	}
	if e.secret == nil {
		return "", nil
	}

	buf, err := e.secret.Open()
	if err != nil {
		return "", ErrSessionNotFound
	}
	defer buf.Destroy()

	return string(buf.Bytes()), nil
}

// Exists reports whether sessionID is an active session of userID.
func (v *Vault) Exists(sessionID, userID string) bool {
	_, ok := v.lookup(sessionID, userID)
	return ok
}

func (v *Vault) lookup(sessionID, userID string) (sessionEntry, bool) {
	v.mu.RLock()
	e, ok := v.sessions[sessionID]
	v.mu.RUnlock()

	if !ok || e.userID != userID || !v.now().Before(e.expiresAt) {
		return sessionEntry{}, false
	}
	return e, true
}

// Close drops a session. Closing an unknown session is a no-op.
func (v *Vault) Close(sessionID string) {
	v.mu.Lock()
	delete(v.sessions, sessionID)
	v.mu.Unlock()
}

// CloseUser drops every session of userID except keepSessionID and returns
// how many were dropped.
func (v *Vault) CloseUser(userID, keepSessionID string) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	closed := 0
	for id, e := range v.sessions {
		if e.userID == userID && id != keepSessionID {
			delete(v.sessions, id)
			closed++
		}
	}
	return closed
}

// Sweep drops expired sessions and returns how many were dropped.
func (v *Vault) Sweep() int {
	now := v.now()

	v.mu.Lock()
	defer v.mu.Unlock()

	swept := 0
	for id, e := range v.sessions {
		if !now.Before(e.expiresAt) {
			delete(v.sessions, id)
			swept++
		}
	}
	return swept
}

// Len returns the number of stored sessions, expired ones included.
func (v *Vault) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.sessions)
}
