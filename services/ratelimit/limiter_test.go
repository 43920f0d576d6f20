package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestParseCeiling(t *testing.T) {
	c, err := ParseCeiling("250")
	require.NoError(t, err)
	require.False(t, c.IsUnbounded())
	require.Equal(t, 250, c.PerSecondValue())

	c, err = ParseCeiling("unbounded")
	require.NoError(t, err)
	require.True(t, c.IsUnbounded())

	_, err = ParseCeiling("0")
	require.Error(t, err)

	_, err = ParseCeiling("-5")
	require.Error(t, err)

	_, err = ParseCeiling("inf")
	require.Error(t, err)
}

func TestAdmitExactCeiling(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore())
	ctx := context.Background()

	admitted := 0
	for i := 0; i < 11; i++ {
		ok, err := limiter.Admit(ctx, "lic-1", "BASIC", PerSecond(10))
		require.NoError(t, err)
		if ok {
			admitted++
		}
	}
	require.Equal(t, 10, admitted)
}

func TestAdmitFreshWindow(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := limiter.Admit(ctx, "lic-1", "BASIC", PerSecond(5))
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := limiter.Admit(ctx, "lic-1", "BASIC", PerSecond(5))
	require.NoError(t, err)
	require.False(t, ok)

	now = now.Add(time.Second)

	admitted := 0
	for i := 0; i < 6; i++ {
		ok, err := limiter.Admit(ctx, "lic-1", "BASIC", PerSecond(5))
		require.NoError(t, err)
		if ok {
			admitted++
		}
	}
	require.Equal(t, 5, admitted)
}

func TestAdmitUnbounded(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		ok, err := limiter.Admit(ctx, "lic-unlimited", "UNLIMITED", Unbounded())
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestAdmitIndependentKeys(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore())
	ctx := context.Background()

	ok, err := limiter.Admit(ctx, "lic-a", "BASIC", PerSecond(1))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Admit(ctx, "lic-a", "BASIC", PerSecond(1))
	require.NoError(t, err)
	require.False(t, ok)

	// Exhausting lic-a must not affect lic-b.
	ok, err = limiter.Admit(ctx, "lic-b", "BASIC", PerSecond(1))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAdmitConcurrentSameKey(t *testing.T) {
	store := NewMemoryStore()
	fixed := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	limiter := NewLimiter(store)
	ctx := context.Background()

	const workers = 100
	const ceiling = 50

	var admitted, failed int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			ok, err := limiter.Admit(ctx, "lic-1", "PROFESSIONAL", PerSecond(ceiling))
			if err != nil {
				atomic.AddInt64(&failed, 1)
				return
			}
			if ok {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	require.Zero(t, failed)
	require.EqualValues(t, ceiling, admitted)
}
