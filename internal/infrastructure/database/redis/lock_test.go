package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutex_LockUnlock(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	m := NewMutex(client, "insight:lock:test", 10*time.Second)
	ok, err := m.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists(m.Key()))

	require.NoError(t, m.Unlock(ctx))
	assert.False(t, mr.Exists(m.Key()))
}

func TestMutex_Contention(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	a := NewMutex(client, "insight:lock:test", 10*time.Second)
	b := NewMutex(client, "insight:lock:test", 10*time.Second)

	ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, b.Unlock(ctx), ErrLockNotHeld)
	require.NoError(t, a.Unlock(ctx))

	ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMutex_Expiry(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	a := NewMutex(client, "insight:lock:test", time.Second)
	ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	extended, err := a.Extend(ctx, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, extended)
	assert.Equal(t, 5*time.Second, mr.TTL(a.Key()))

	mr.FastForward(6 * time.Second)
	extended, err = a.Extend(ctx, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, extended)

	b := NewMutex(client, "insight:lock:test", time.Second)
	ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

//Personal.AI order the ending
