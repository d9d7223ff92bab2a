package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chatcore-go/internal/model"
	"chatcore-go/internal/service"
	"chatcore-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeChatService 返回预置的结果或错误。
type fakeChatService struct {
	result service.ChatResult
	err    error
	gotReq service.ChatRequest
}

func (f *fakeChatService) HandleMessage(_ context.Context, req service.ChatRequest) (service.ChatResult, error) {
	f.gotReq = req
	return f.result, f.err
}

func newChatTestContext(t *testing.T, svc service.ChatService, body string) (*httptest.ResponseRecorder, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtManager := token.NewJWTManager("test-secret", 24, 7)
	h := NewChatHandler(svc, jwtManager, 2000)

	r := gin.New()
	r.POST("/api/v1/chat", h.Chat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w, r
}

func TestChatSuccess(t *testing.T) {
	svc := &fakeChatService{
		result: service.ChatResult{
			Envelope: model.ResponseEnvelope{
				Text:   "👋 Hello! I'm your AI assistant. How can I help you today?",
				Source: model.SourceFallback,
				Emoji:  "👋",
			},
			SessionID: "sess-1",
			Elapsed:   420 * time.Millisecond,
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	w, _ := newChatTestContext(t, svc, `{"message":"hello","input_method":"text"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, true, body["success"])
	require.Equal(t, svc.result.Envelope.Text, body["response"])
	require.Equal(t, "sess-1", body["session_id"])
	require.Equal(t, "fallback", body["source"])
	require.Equal(t, "👋", body["emoji"])
	require.Equal(t, "0.42s", body["response_time"])
	require.Equal(t, "2026-03-01T12:00:00Z", body["timestamp"])

	// handler 透传消息与会话，ClientKey 取客户端 IP
	require.Equal(t, "hello", svc.gotReq.Message)
	require.Equal(t, "text", svc.gotReq.InputMethod)
	require.NotEmpty(t, svc.gotReq.ClientKey)
}

func TestChatMalformedBody(t *testing.T) {
	w, _ := newChatTestContext(t, &fakeChatService{}, `{not json`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "No data received")
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{"empty message", service.ErrEmptyMessage, http.StatusBadRequest, "Message cannot be empty"},
		{"too long", service.ErrMessageTooLong, http.StatusBadRequest, "Message too long. Maximum 2000 characters"},
		{"rate limited", service.ErrRateLimited, http.StatusTooManyRequests, "Too many requests. Please wait a minute."},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newChatTestContext(t, &fakeChatService{err: tt.err}, `{"message":"x"}`)

			require.Equal(t, tt.wantStatus, w.Code)
			require.Contains(t, w.Body.String(), tt.wantText)
			require.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestWebsocketRejectsInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jwtManager := token.NewJWTManager("test-secret", 24, 7)
	h := NewChatHandler(&fakeChatService{}, jwtManager, 2000)

	r := gin.New()
	r.GET("/ws/chat/:token", h.HandleWebsocket)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws/chat/not-a-token", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
