package cache

import (
	"bitwise74/account-api/config"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetOverwrite(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "a@example.com")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "a@example.com", "111111", time.Minute))
	require.NoError(t, m.Set(ctx, "a@example.com", "222222", time.Minute))

	v, err := m.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", v)

	require.NoError(t, m.Delete(ctx, "a@example.com"))
	_, err = m.Get(ctx, "a@example.com")
	require.ErrorIs(t, err, ErrMiss)

	// Deleting a missing key is fine
	require.NoError(t, m.Delete(ctx, "a@example.com"))
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", 200*time.Millisecond))

	// Reads before expiry must not extend the TTL
	for range 3 {
		time.Sleep(50 * time.Millisecond)
		v, err := m.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	}

	time.Sleep(150 * time.Millisecond)

	_, err := m.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	r, err := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	return r, mr
}

func TestRedis_SetGetExpire(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	_, err := r.Get(ctx, "a@example.com")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, r.Set(ctx, "a@example.com", "123456", 2*time.Minute))
	assert.True(t, mr.Exists("otp:a@example.com"))

	v, err := r.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", v)

	mr.FastForward(2*time.Minute + time.Second)

	_, err = r.Get(ctx, "a@example.com")
	require.ErrorIs(t, err, ErrMiss)
}

func TestRedis_OverwriteResetsTTL(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", "old", time.Minute))
	mr.FastForward(50 * time.Second)
	require.NoError(t, r.Set(ctx, "k", "new", time.Minute))
	mr.FastForward(50 * time.Second)

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	require.NoError(t, r.Delete(ctx, "k"))
	_, err = r.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestNewRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(context.Background(), config.RedisConfig{Addr: addr})
	require.Error(t, err)
}
