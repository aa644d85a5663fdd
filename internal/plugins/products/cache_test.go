package products

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (ListCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewListCache(rdb, ttl), mr
}

func TestRedisListCache_RoundTrip(t *testing.T) {
	cache, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()

	_, gen, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should miss")
	assert.Equal(t, int64(0), gen)

	want := []Product{{ID: "p1", Price: 9.99, Brand: "Acme", Color: "red", Category: "tools", Stock: 3}}
	require.NoError(t, cache.Set(ctx, gen, want))
	assert.Equal(t, time.Minute, mr.TTL(listKey(0)))

	got, _, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, cache.Invalidate(ctx))
	_, gen, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "invalidated list should miss")
	assert.Equal(t, int64(1), gen)
}

func TestRedisListCache_StaleGenerationNotServed(t *testing.T) {
	cache, _ := newRedisCache(t, time.Minute)
	ctx := context.Background()

	_, gen, _, err := cache.Get(ctx)
	require.NoError(t, err)

	// A write lands between the read of gen and the store.
	require.NoError(t, cache.Invalidate(ctx))
	require.NoError(t, cache.Set(ctx, gen, []Product{{ID: "old"}}))

	_, _, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisListCache_EmptyListIsAHit(t *testing.T) {
	cache, _ := newRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 0, []Product{}))
	got, _, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRedisListCache_Expires(t *testing.T) {
	cache, mr := newRedisCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 0, []Product{{ID: "p1"}}))
	mr.FastForward(31 * time.Second)

	_, _, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisListCache_CorruptEntry(t *testing.T) {
	cache, mr := newRedisCache(t, time.Minute)
	require.NoError(t, mr.Set(listKey(0), "{not json"))

	_, _, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisListCache_ServerDown(t *testing.T) {
	cache, mr := newRedisCache(t, time.Minute)
	mr.Close()

	_, _, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewListCache_NilClient(t *testing.T) {
	cache := NewListCache(nil, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 0, []Product{{ID: "p1"}}))
	_, _, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Invalidate(ctx))
}

// A List that read the database before a concurrent Create must not leave
// its stale result in the cache.
func TestList_CreateDuringCacheFill(t *testing.T) {
	cache, _ := newRedisCache(t, time.Minute)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		rows    []Product
		blocked bool
	)
	reading := make(chan struct{})
	release := make(chan struct{})

	repo := &mockProductRepo{
		listFn: func(context.Context) ([]Product, error) {
			mu.Lock()
			snapshot := append([]Product{}, rows...)
			first := !blocked
			blocked = true
			mu.Unlock()

			if first {
				close(reading)
				<-release
			}
			return snapshot, nil
		},
		createFn: func(_ context.Context, p *Product) error {
			mu.Lock()
			defer mu.Unlock()
			rows = append(rows, *p)
			return nil
		},
	}
	svc := NewProductService(repo, cache)

	type result struct {
		products []Product
		err      error
	}
	done := make(chan result, 1)
	go func() {
		products, err := svc.List(ctx)
		done <- result{products, err}
	}()

	<-reading
	created, err := svc.Create(ctx, "user-1", validInput)
	require.NoError(t, err)
	close(release)

	stale := <-done
	require.NoError(t, stale.err)
	assert.Empty(t, stale.products, "the in-flight read started before the create")

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)
}
