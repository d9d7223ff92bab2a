package store

import (
	"sync"

	"chatcore-go/internal/model"
)

// Recent 单次最多返回的记录数。
const maxRecentLimit = 500

// HistoryLog 是容量受限的全局对话日志，只追加，满后按 FIFO 淘汰最旧记录。
type HistoryLog interface {
	// Append 在尾部追加一条记录，超出容量时从头部淘汰。
	Append(entry model.HistoryEntry)
	// Recent 返回最近的至多 min(limit, 500) 条记录，最新在前。
	Recent(limit int) []model.HistoryEntry
	// Clear 原子地清空日志。
	Clear()
	// Len 返回当前记录数。
	Len() int
}

type boundedHistoryLog struct {
	mu       sync.Mutex
	entries  []model.HistoryEntry
	capacity int
}

// NewHistoryLog 创建一个容量为 capacity 的对话日志。
func NewHistoryLog(capacity int) HistoryLog {
	return &boundedHistoryLog{
		entries:  make([]model.HistoryEntry, 0, capacity),
		capacity: capacity,
	}
}

// Append 追加记录。不变式：len(entries) <= capacity。
func (l *boundedHistoryLog) Append(entry model.HistoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
}

// Recent 返回最近的记录，按最新在前排列。
func (l *boundedHistoryLog) Recent(limit int) []model.HistoryEntry {
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	if limit < 0 {
		limit = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]model.HistoryEntry, 0, limit)
	for i := len(l.entries) - 1; i >= len(l.entries)-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Clear 清空所有记录。
func (l *boundedHistoryLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Len 返回当前记录数。
func (l *boundedHistoryLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
