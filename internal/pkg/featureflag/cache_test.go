package featureflag

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlot/MotorLot/app/models"
)

func newTestRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBackend(client), mr
}

func TestFlagCache_MissResolvesAndStores(t *testing.T) {
	t.Parallel()

	repo := newFakeFlagRepo()
	require.NoError(t, repo.Create(&models.FeatureFlag{Key: "cached_flag", Name: "Cached", DefaultEnabled: true}))

	backend, mr := newTestRedisBackend(t)
	fc := NewFlagCache(backend, NewResolver(repo), time.Minute)

	flags, err := fc.GetOrResolve(12)
	require.NoError(t, err)
	assert.True(t, flags["cached_flag"])

	// The resolved map is now cached under the org key
	assert.True(t, mr.Exists("featureflags:org:12"))
}

func TestFlagCache_HitSkipsResolver(t *testing.T) {
	t.Parallel()

	repo := newFakeFlagRepo()
	require.NoError(t, repo.Create(&models.FeatureFlag{Key: "cached_flag", Name: "Cached", DefaultEnabled: true}))

	backend, _ := newTestRedisBackend(t)
	fc := NewFlagCache(backend, NewResolver(repo), time.Minute)

	_, err := fc.GetOrResolve(5)
	require.NoError(t, err)

	// Break the store; a live cache entry must still answer
	repo.failReads = true
	flags, err := fc.GetOrResolve(5)
	require.NoError(t, err)
	assert.True(t, flags["cached_flag"])
}

func TestFlagCache_InvalidateForcesRecompute(t *testing.T) {
	t.Parallel()

	repo := newFakeFlagRepo()
	require.NoError(t, repo.Create(&models.FeatureFlag{Key: "toggled", Name: "Toggled"}))

	backend, _ := newTestRedisBackend(t)
	fc := NewFlagCache(backend, NewResolver(repo), time.Minute)

	flags, err := fc.GetOrResolve(3)
	require.NoError(t, err)
	assert.False(t, flags["toggled"])

	// Flip the flag in the store; the stale cache entry still answers
	flag, err := repo.GetByKey("toggled")
	require.NoError(t, err)
	flag.DefaultEnabled = true
	require.NoError(t, repo.Update(flag))

	flags, err = fc.GetOrResolve(3)
	require.NoError(t, err)
	assert.False(t, flags["toggled"], "pre-invalidation read may serve the cached value")

	// After invalidation the very next read sees the new value
	require.NoError(t, fc.Invalidate(3))
	flags, err = fc.GetOrResolve(3)
	require.NoError(t, err)
	assert.True(t, flags["toggled"])
}

func TestFlagCache_ExpiredEntryRecomputes(t *testing.T) {
	t.Parallel()

	repo := newFakeFlagRepo()
	require.NoError(t, repo.Create(&models.FeatureFlag{Key: "short_lived", Name: "Short"}))

	backend, mr := newTestRedisBackend(t)
	fc := NewFlagCache(backend, NewResolver(repo), time.Minute)

	_, err := fc.GetOrResolve(8)
	require.NoError(t, err)

	flag, err := repo.GetByKey("short_lived")
	require.NoError(t, err)
	flag.DefaultEnabled = true
	require.NoError(t, repo.Update(flag))

	// TTL elapses without an explicit invalidation
	mr.FastForward(2 * time.Minute)

	flags, err := fc.GetOrResolve(8)
	require.NoError(t, err)
	assert.True(t, flags["short_lived"])
}

// failingBackend simulates an unreachable cache server.
type failingBackend struct{}

var errBackendDown = errors.New("cache backend unreachable")

func (failingBackend) Get(string) (string, bool, error)        { return "", false, errBackendDown }
func (failingBackend) Set(string, string, time.Duration) error { return errBackendDown }
func (failingBackend) Del(string) error                        { return errBackendDown }

func TestFlagCache_BackendFailureDegradesToDirectResolution(t *testing.T) {
	t.Parallel()

	repo := newFakeFlagRepo()
	require.NoError(t, repo.Create(&models.FeatureFlag{Key: "resilient", Name: "Resilient", DefaultEnabled: true}))

	fc := NewFlagCache(failingBackend{}, NewResolver(repo), time.Minute)

	flags, err := fc.GetOrResolve(2)
	require.NoError(t, err, "an unreachable cache must not fail reads")
	assert.True(t, flags["resilient"])
}

func TestFlagCache_NoopBackendAlwaysResolves(t *testing.T) {
	t.Parallel()

	repo := newFakeFlagRepo()
	require.NoError(t, repo.Create(&models.FeatureFlag{Key: "plain", Name: "Plain"}))

	fc := NewFlagCache(NoopBackend{}, NewResolver(repo), time.Minute)

	flags, err := fc.GetOrResolve(1)
	require.NoError(t, err)
	assert.False(t, flags["plain"])

	// Store changes are visible immediately: nothing is cached
	flag, err := repo.GetByKey("plain")
	require.NoError(t, err)
	flag.DefaultEnabled = true
	require.NoError(t, repo.Update(flag))

	flags, err = fc.GetOrResolve(1)
	require.NoError(t, err)
	assert.True(t, flags["plain"])
}
