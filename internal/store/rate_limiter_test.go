package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterDeniesBeyondThreshold(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(5).(*slidingWindowLimiter)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		require.True(t, limiter.Admit("10.0.0.1"), "request %d within threshold should be admitted", i+1)
	}
	require.False(t, limiter.Admit("10.0.0.1"))
	require.False(t, limiter.Admit("10.0.0.1"))
}

func TestRateLimiterResumesAfterWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(3).(*slidingWindowLimiter)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.True(t, limiter.Admit("client"))
	}
	require.False(t, limiter.Admit("client"))

	// 越过 60 秒窗口后恢复准入
	now = now.Add(61 * time.Second)
	require.True(t, limiter.Admit("client"))
}

func TestRateLimiterDeniedAttemptNotRecorded(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2).(*slidingWindowLimiter)
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.Admit("k"))
	require.True(t, limiter.Admit("k"))
	require.False(t, limiter.Admit("k"))

	// 被拒的尝试不计入窗口：两条已记录的时间戳过期后应立刻恢复两个配额
	now = now.Add(61 * time.Second)
	require.True(t, limiter.Admit("k"))
	require.True(t, limiter.Admit("k"))
	require.False(t, limiter.Admit("k"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(1)

	require.True(t, limiter.Admit("a"))
	require.False(t, limiter.Admit("a"))
	require.True(t, limiter.Admit("b"))
}

func TestRateLimiterConcurrentAdmit(t *testing.T) {
	limiter := NewRateLimiter(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				limiter.Admit("shared")
			}
		}()
	}
	wg.Wait()

	// 1000 次准入已经用满，下一次必须被拒
	require.False(t, limiter.Admit("shared"))
}
