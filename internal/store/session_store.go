package store

import (
	"hash/fnv"
	"sync"
	"time"

	"chatcore-go/internal/model"

	"github.com/google/uuid"
)

// 分片数量。会话按 ID 哈希到分片，不同分片上的操作互不争锁。
const sessionShards = 16

// SessionStore 管理客户端会话的创建、校验与活动更新。
type SessionStore interface {
	// Create 分配一个全新的会话并返回其 ID。
	Create(clientKey string) string
	// IsValid 判定会话是否存在且未超时。未知或畸形的 ID 一律报告无效，不返回错误。
	IsValid(id string) bool
	// Touch 更新会话的最后活动时间并递增消息计数。未知会话返回 false，不做隐式创建。
	Touch(id string) bool
	// Get 返回会话的快照副本，不存在时第二个返回值为 false。
	Get(id string) (model.ClientSession, bool)
}

type sessionShard struct {
	mu       sync.RWMutex
	sessions map[string]*model.ClientSession
}

type shardedSessionStore struct {
	shards  [sessionShards]sessionShard
	timeout time.Duration
	now     func() time.Time
}

// NewSessionStore 创建一个会话存储，会话自最后活动起 timeout 后失效。
func NewSessionStore(timeout time.Duration) SessionStore {
	s := &shardedSessionStore{
		timeout: timeout,
		now:     time.Now,
	}
	for i := range s.shards {
		s.shards[i].sessions = make(map[string]*model.ClientSession)
	}
	return s
}

func (s *shardedSessionStore) shard(id string) *sessionShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.shards[h.Sum32()%sessionShards]
}

// Create 分配一个 UUID 作为会话标识并登记初始状态。
func (s *shardedSessionStore) Create(clientKey string) string {
	id := uuid.NewString()
	now := s.now()

	shard := s.shard(id)
	shard.mu.Lock()
	shard.sessions[id] = &model.ClientSession{
		ID:           id,
		ClientKey:    clientKey,
		CreatedAt:    now,
		LastActivity: now,
	}
	shard.mu.Unlock()

	return id
}

// IsValid 检查会话存在且最后活动在超时窗口之内。
func (s *shardedSessionStore) IsValid(id string) bool {
	if id == "" {
		return false
	}
	shard := s.shard(id)
	shard.mu.RLock()
	sess, ok := shard.sessions[id]
	if !ok {
		shard.mu.RUnlock()
		return false
	}
	last := sess.LastActivity
	shard.mu.RUnlock()

	return s.now().Sub(last) <= s.timeout
}

// Touch 刷新最后活动时间并累加消息计数。
func (s *shardedSessionStore) Touch(id string) bool {
	shard := s.shard(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	sess, ok := shard.sessions[id]
	if !ok {
		return false
	}
	sess.LastActivity = s.now()
	sess.MessageCount++
	return true
}

// Get 返回会话的值拷贝，避免调用方绕过锁修改内部状态。
func (s *shardedSessionStore) Get(id string) (model.ClientSession, bool) {
	shard := s.shard(id)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	sess, ok := shard.sessions[id]
	if !ok {
		return model.ClientSession{}, false
	}
	return *sess, true
}
