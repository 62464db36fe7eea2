package locker

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

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys("c", "a", "b", "a", ""))
	assert.Empty(t, SortedKeys())
}

func TestKeyedMutex(t *testing.T) {
	t.Run("should serialize holders of the same key", func(t *testing.T) {
		m := NewKeyedMutex()
		var inside, maxInside int32
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := m.Lock(context.Background(), "supervisor:1")
				if !assert.NoError(t, err) {
					return
				}
				n := atomic.AddInt32(&inside, 1)
				for {
					cur := atomic.LoadInt32(&maxInside)
					if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				unlock()
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), maxInside)
	})

	t.Run("should not block on unrelated keys", func(t *testing.T) {
		m := NewKeyedMutex()
		unlockA, err := m.Lock(context.Background(), "a")
		require.NoError(t, err)
		defer unlockA()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		unlockB, err := m.Lock(ctx, "b")
		require.NoError(t, err)
		unlockB()
	})

	t.Run("should give up when the context ends and release partial holds", func(t *testing.T) {
		m := NewKeyedMutex()
		unlockB, err := m.Lock(context.Background(), "b")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = m.Lock(ctx, "a", "b")
		assert.True(t, errors.Is(err, ErrLockTimeout))
		assert.True(t, errors.Is(err, context.DeadlineExceeded))

		// "a" must be free again
		unlockA, err := m.Lock(context.Background(), "a")
		require.NoError(t, err)
		unlockA()
		unlockB()
	})

	t.Run("should tolerate double unlock and duplicate keys", func(t *testing.T) {
		m := NewKeyedMutex()
		unlock, err := m.Lock(context.Background(), "x", "x")
		require.NoError(t, err)
		unlock()
		unlock()

		m.mu.Lock()
		assert.Empty(t, m.locks)
		m.mu.Unlock()
	})
}
