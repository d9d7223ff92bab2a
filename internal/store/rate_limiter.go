// Package store 提供进程内的共享可变状态：限流窗口、会话表和对话日志。
// 所有状态只在进程生命周期内存在，重启即清空。
package store

import (
	"sync"
	"time"

	"chatcore-go/pkg/log"
)

// 滑动窗口的时间跨度固定为 60 秒。
const rateWindow = time.Minute

// RateLimiter 按客户端标识做滑动窗口限流。
type RateLimiter interface {
	// Admit 判定一次请求是否放行。放行时记录本次时间戳，拒绝时不记录。
	Admit(key string) bool
}

type slidingWindowLimiter struct {
	mu        sync.Mutex
	windows   map[string][]time.Time
	perMinute int
	now       func() time.Time
}

// NewRateLimiter 创建一个每分钟允许 perMinute 次请求的限流器。
func NewRateLimiter(perMinute int) RateLimiter {
	return &slidingWindowLimiter{
		windows:   make(map[string][]time.Time),
		perMinute: perMinute,
		now:       time.Now,
	}
}

// Admit 先裁剪掉窗口外的时间戳，再检查余量。
// 失败开放：限流器内部出现意外故障时放行请求而不是拒绝。
func (l *slidingWindowLimiter) Admit(key string) (admitted bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("限流器内部故障，按失败开放策略放行: %v", r)
			admitted = true
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-rateWindow)

	kept := l.windows[key][:0]
	for _, ts := range l.windows[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.perMinute {
		l.windows[key] = kept
		return false
	}

	l.windows[key] = append(kept, now)
	return true
}
