package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Drivers(t *testing.T) {
	for _, driver := range []string{DriverMemory, DriverRedis, DriverNone, ""} {
		c, err := New(Config{Driver: driver, TTLSeconds: 60, Prefix: "test:"}, nil)
		require.NoError(t, err, driver)
		assert.NotNil(t, c)
	}

	_, err := New(Config{Driver: "memcached"}, nil)
	assert.ErrorContains(t, err, "unsupported cache driver")
}

func TestCache_GetOrLoad_CachesValue(t *testing.T) {
	c := NewWithStore(NewMemoryStore(), time.Minute, nil)
	var calls int32
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("payload"), nil
	}

	first, err := c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)
	second, err := c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)

	assert.Equal(t, []byte("payload"), first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_GetOrLoad_ErrorNotCached(t *testing.T) {
	c := NewWithStore(NewMemoryStore(), time.Minute, nil)
	boom := errors.New("boom")

	_, err := c.GetOrLoad(context.Background(), "k", func(context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	value, err := c.GetOrLoad(context.Background(), "k", func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), value)
}

func TestCache_GetOrLoad_ZeroTTLBypasses(t *testing.T) {
	c := NewWithStore(NewMemoryStore(), 0, nil)
	var calls int32
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("x"), nil
	}
	_, _ = c.GetOrLoad(context.Background(), "k", load)
	_, _ = c.GetOrLoad(context.Background(), "k", load)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCache_GetOrLoad_SingleflightSharesLoad(t *testing.T) {
	c := NewWithStore(NewMemoryStore(), time.Minute, nil)
	var calls int32
	release := make(chan struct{})
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("shared"), nil
	}

	var wg sync.WaitGroup
	results := make([][]byte, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.GetOrLoad(context.Background(), "k", load)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, []byte("shared"), r)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_Purge(t *testing.T) {
	c := NewWithStore(NewMemoryStore(), time.Minute, nil)
	var calls int32
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("x"), nil
	}
	_, _ = c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, c.Purge(context.Background()))
	_, _ = c.GetOrLoad(context.Background(), "k", load)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCache_PurgeDuringLoadDropsStaleValue(t *testing.T) {
	c := NewWithStore(NewMemoryStore(), time.Minute, nil)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	slow := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return []byte("old"), nil
	}

	done := make(chan []byte)
	go func() {
		value, err := c.GetOrLoad(ctx, "k", slow)
		assert.NoError(t, err)
		done <- value
	}()

	<-started
	require.NoError(t, c.Purge(ctx))
	close(release)
	assert.Equal(t, []byte("old"), <-done)

	value, err := c.GetOrLoad(ctx, "k", func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("new"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), value)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), time.Minute))
	value, ok, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	now = now.Add(2 * time.Minute)
	_, ok, err = store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store down")
}
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("store down")
}
func (failingStore) Purge(context.Context) error { return errors.New("store down") }

func TestCache_StoreFailureDegradesToLoad(t *testing.T) {
	c := NewWithStore(failingStore{}, time.Minute, nil)
	value, err := c.GetOrLoad(context.Background(), "k", func(context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), value)
	assert.Error(t, c.Purge(context.Background()))
}

func TestRedisStore_UnreachableServer(t *testing.T) {
	store := NewRedisStore(Config{RedisAddr: "127.0.0.1:1", Prefix: "test:"})
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, ok, err := store.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)

	c := NewWithStore(store, time.Minute, nil)
	value, err := c.GetOrLoad(ctx, "k", func(context.Context) ([]byte, error) {
		return []byte("fallback"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("fallback"), value)
}
