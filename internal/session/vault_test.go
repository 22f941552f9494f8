package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func newTestVault() (*Vault, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	v := NewVault()
	v.now = clock.Now
	return v, clock
}

func TestVault_PutAndSecret(t *testing.T) {
	v, clock := newTestVault()
	v.Put("s1", "u1", "hunter2", clock.Now().Add(time.Hour))

	secret, err := v.Secret("s1", "u1")

	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)
	assert.True(t, v.Exists("s1", "u1"))
}

func TestVault_SecretCanBeReadRepeatedly(t *testing.T) {
	v, clock := newTestVault()
	v.Put("s1", "u1", "hunter2", clock.Now().Add(time.Hour))

	for range 3 {
		secret, err := v.Secret("s1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "hunter2", secret)
	}
}

func TestVault_EmptySecret(t *testing.T) {
	v, clock := newTestVault()
	v.Put("s1", "u1", "", clock.Now().Add(time.Hour))

	secret, err := v.Secret("s1", "u1")

	require.NoError(t, err)
	assert.Empty(t, secret)
}

func TestVault_SecretErrors(t *testing.T) {
	v, clock := newTestVault()
	v.Put("s1", "u1", "hunter2", clock.Now().Add(time.Hour))

	tests := map[string]struct {
		sessionID, userID string
	}{
		"unknown session": {"s2", "u1"},
		"other user":      {"s1", "u2"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Secret(tt.sessionID, tt.userID)
			assert.ErrorIs(t, err, ErrSessionNotFound)
			assert.False(t, v.Exists(tt.sessionID, tt.userID))
		})
	}
}

func TestVault_Expiry(t *testing.T) {
	v, clock := newTestVault()
	v.Put("s1", "u1", "hunter2", clock.Now().Add(time.Minute))

	clock.Advance(time.Minute)

	_, err := v.Secret("s1", "u1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1, v.Len(), "expired sessions stay until swept")

	assert.Equal(t, 1, v.Sweep())
	assert.Equal(t, 0, v.Len())
}

func TestVault_SweepKeepsActiveSessions(t *testing.T) {
	v, clock := newTestVault()
	v.Put("short", "u1", "a", clock.Now().Add(time.Minute))
	v.Put("long", "u1", "b", clock.Now().Add(time.Hour))

	clock.Advance(2 * time.Minute)

	assert.Equal(t, 1, v.Sweep())
	assert.True(t, v.Exists("long", "u1"))
}

func TestVault_Close(t *testing.T) {
	v, clock := newTestVault()
	v.Put("s1", "u1", "hunter2", clock.Now().Add(time.Hour))

	v.Close("s1")
	v.Close("unknown")

	assert.False(t, v.Exists("s1", "u1"))
	assert.Equal(t, 0, v.Len())
}

func TestVault_CloseUser(t *testing.T) {
	v, clock := newTestVault()
	exp := clock.Now().Add(time.Hour)
	v.Put("a", "u1", "x", exp)
	v.Put("b", "u1", "x", exp)
	v.Put("c", "u1", "x", exp)
	v.Put("d", "u2", "y", exp)

	closed := v.CloseUser("u1", "b")

	assert.Equal(t, 2, closed)
	assert.True(t, v.Exists("b", "u1"))
	assert.True(t, v.Exists("d", "u2"))
	assert.False(t, v.Exists("a", "u1"))
}

func TestVault_PutReplaces(t *testing.T) {
	v, clock := newTestVault()
	v.Put("s1", "u1", "old", clock.Now().Add(time.Hour))
	v.Put("s1", "u1", "new", clock.Now().Add(time.Hour))

	secret, err := v.Secret("s1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", secret)
}

func TestVault_ConcurrentAccess(t *testing.T) {
	v, clock := newTestVault()
	exp := clock.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			v.Put(id, "u1", "secret", exp)
			_, _ = v.Secret(id, "u1")
			v.Sweep()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, v.Len())
}
