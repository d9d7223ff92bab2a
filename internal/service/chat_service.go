package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatcore-go/internal/model"
	"chatcore-go/internal/store"

	"github.com/google/uuid"
)

// 请求校验与限流的错误分类，由 handler 映射为对应的 HTTP 状态码。
var (
	// ErrEmptyMessage 表示消息为空。
	ErrEmptyMessage = errors.New("message cannot be empty")
	// ErrMessageTooLong 表示消息超过了配置的最大长度。
	ErrMessageTooLong = errors.New("message too long")
	// ErrRateLimited 表示客户端触发了限流。
	ErrRateLimited = errors.New("too many requests")
)

// ChatRequest 是一条入站消息。
type ChatRequest struct {
	Message     string
	SessionID   string
	InputMethod string
	// ClientKey 是客户端标识（通常为 IP），用于限流和会话归属。
	ClientKey string
}

// ChatResult 是一条消息处理完成后的产出。
type ChatResult struct {
	Envelope  model.ResponseEnvelope
	SessionID string
	Elapsed   time.Duration
	Timestamp time.Time
}

// ChatService 按 限流 → 会话 → 路由 → 上下文更新 → 日志追加 的顺序
// 编排一条入站消息的完整处理流程。
type ChatService interface {
	HandleMessage(ctx context.Context, req ChatRequest) (ChatResult, error)
}

type chatService struct {
	limiter      store.RateLimiter
	sessions     store.SessionStore
	tracker      ContextTracker
	router       ResponseRouter
	history      store.HistoryLog
	maxMsgLength int
	now          func() time.Time
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(
	limiter store.RateLimiter,
	sessions store.SessionStore,
	tracker ContextTracker,
	router ResponseRouter,
	history store.HistoryLog,
	maxMsgLength int,
) ChatService {
	return &chatService{
		limiter:      limiter,
		sessions:     sessions,
		tracker:      tracker,
		router:       router,
		history:      history,
		maxMsgLength: maxMsgLength,
		now:          time.Now,
	}
}

// HandleMessage 处理一条入站消息并返回路由后的回复。
// 校验失败与限流通过错误分类上报；会话无效不算错误，静默换新会话。
func (s *chatService) HandleMessage(ctx context.Context, req ChatRequest) (ChatResult, error) {
	start := s.now()

	// 限流先于校验：无效消息同样消耗限流配额
	if !s.limiter.Admit(req.ClientKey) {
		// 限流拒绝不产生任何状态变更（限流窗口自身除外）
		return ChatResult{}, ErrRateLimited
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ChatResult{}, ErrEmptyMessage
	}
	if len(message) > s.maxMsgLength {
		return ChatResult{}, fmt.Errorf("%w: maximum %d characters", ErrMessageTooLong, s.maxMsgLength)
	}

	// 未携带会话或会话已失效时静默创建新会话，并同步建立空上下文
	sessionID := req.SessionID
	if sessionID == "" || !s.sessions.IsValid(sessionID) {
		sessionID = s.sessions.Create(req.ClientKey)
		s.tracker.EnsureContext(sessionID)
	} else {
		s.sessions.Touch(sessionID)
	}

	env := s.router.Respond(ctx, sessionID, message)

	s.tracker.Update(sessionID, message, env.Text)

	timestamp := s.now()
	elapsed := timestamp.Sub(start)
	s.history.Append(model.HistoryEntry{
		ID:           uuid.NewString(),
		Timestamp:    timestamp.Format("2006-01-02 15:04:05"),
		UserText:     message,
		BotText:      env.Text,
		SessionID:    sessionID,
		InputMethod:  req.InputMethod,
		ResponseTime: fmt.Sprintf("%.2fs", elapsed.Seconds()),
	})

	return ChatResult{
		Envelope:  env,
		SessionID: sessionID,
		Elapsed:   elapsed,
		Timestamp: timestamp,
	}, nil
}
