package record

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource counts backend reads so tests can tell cache hits apart
// from fall-throughs.
type countingSource struct {
	Source
	gets atomic.Int64
}

func (c *countingSource) Get(ctx context.Context, entity string) (Record, bool, error) {
	c.gets.Add(1)
	return c.Source.Get(ctx, entity)
}

func newCachedFixture(t *testing.T) (*CachedSource, *countingSource, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	backend := &countingSource{Source: NewStaticSource(map[string]Record{
		"Acme Analytics": {FinancialEstimates: "$50M ARR"},
	})}

	cached, err := NewCachedSource(backend, CacheConfig{
		Addr: mr.Addr(),
		TTL:  time.Minute,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cached.Close() })
	return cached, backend, mr
}

func TestNewCachedSource_ConnectFailure(t *testing.T) {
	_, err := NewCachedSource(NewStaticSource(nil), CacheConfig{
		Addr: "127.0.0.1:1",
	}, nil)
	assert.ErrorContains(t, err, "connect record cache")
}

func TestCachedSource_ReadThrough(t *testing.T) {
	cached, backend, _ := newCachedFixture(t)
	ctx := context.Background()

	rec, ok, err := cached.Get(ctx, "Acme Analytics")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "$50M ARR", rec.FinancialEstimates)
	assert.Equal(t, int64(1), backend.gets.Load())

	// Second read is served from the cache.
	rec, ok, err = cached.Get(ctx, "Acme Analytics")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "$50M ARR", rec.FinancialEstimates)
	assert.Equal(t, int64(1), backend.gets.Load())
}

func TestCachedSource_Invalidate(t *testing.T) {
	cached, backend, _ := newCachedFixture(t)
	ctx := context.Background()

	_, _, err := cached.Get(ctx, "Acme Analytics")
	require.NoError(t, err)
	require.NoError(t, cached.Invalidate(ctx, "Acme Analytics"))

	_, _, err = cached.Get(ctx, "Acme Analytics")
	require.NoError(t, err)
	assert.Equal(t, int64(2), backend.gets.Load())
}

func TestCachedSource_MissesNotCached(t *testing.T) {
	cached, backend, _ := newCachedFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, ok, err := cached.Get(ctx, "NoSuchCo")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, int64(2), backend.gets.Load(), "misses go to the backend every time")
}

func TestCachedSource_CorruptEntryFallsThrough(t *testing.T) {
	cached, backend, mr := newCachedFixture(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(cacheKeyPrefix+"Acme Analytics", "{not json"))

	rec, ok, err := cached.Get(ctx, "Acme Analytics")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "$50M ARR", rec.FinancialEstimates)
	assert.Equal(t, int64(1), backend.gets.Load())
}

func TestCachedSource_ListAndAllDelegate(t *testing.T) {
	cached, _, _ := newCachedFixture(t)
	ctx := context.Background()

	names, err := cached.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Analytics"}, names)

	all, err := cached.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
