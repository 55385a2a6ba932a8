package schedcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timelines/internal/domain"
)

func TestGetOrCompute_CachesByKey(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	var calls int32
	fn := func(ctx context.Context) (*domain.Schedule, error) {
		atomic.AddInt32(&calls, 1)
		return &domain.Schedule{}, nil
	}

	key := Key{CacheHash: 1, AsOf: time.Now(), Mode: ModeDeterministic}
	_, err = c.GetOrCompute(context.Background(), key, fn)
	require.NoError(t, err)
	_, err = c.GetOrCompute(context.Background(), key, fn)
	require.NoError(t, err)

	assert.EqualValues(t, 1, calls)
}

func TestGetOrCompute_TerminalSetOrderInsensitive(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	var calls int32
	fn := func(ctx context.Context) (*domain.Schedule, error) {
		atomic.AddInt32(&calls, 1)
		return &domain.Schedule{}, nil
	}

	asOf := time.Now()
	k1 := Key{CacheHash: 1, AsOf: asOf, Terminals: []string{"a", "b"}, Mode: ModeDeterministic}
	k2 := Key{CacheHash: 1, AsOf: asOf, Terminals: []string{"b", "a"}, Mode: ModeDeterministic}

	_, err = c.GetOrCompute(context.Background(), k1, fn)
	require.NoError(t, err)
	_, err = c.GetOrCompute(context.Background(), k2, fn)
	require.NoError(t, err)

	assert.EqualValues(t, 1, calls)
}

func TestGetOrCompute_DistinctKeysDontCollide(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	fn := func(ctx context.Context) (*domain.Schedule, error) {
		return &domain.Schedule{}, nil
	}

	_, err = c.GetOrCompute(context.Background(), Key{CacheHash: 1}, fn)
	require.NoError(t, err)
	_, err = c.GetOrCompute(context.Background(), Key{CacheHash: 2}, fn)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
}

func TestGetOrCompute_ConcurrentCallsShareOneComputation(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	var calls int32
	start := make(chan struct{})
	fn := func(ctx context.Context) (*domain.Schedule, error) {
		atomic.AddInt32(&calls, 1)
		<-start
		return &domain.Schedule{}, nil
	}

	key := Key{CacheHash: 1}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.GetOrCompute(context.Background(), key, fn)
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, calls)
}

func TestInvalidate_ClearsAllEntries(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	fn := func(ctx context.Context) (*domain.Schedule, error) { return &domain.Schedule{}, nil }
	_, err = c.GetOrCompute(context.Background(), Key{CacheHash: 1}, fn)
	require.NoError(t, err)

	c.Invalidate()
	assert.Equal(t, 0, c.Len())
}
