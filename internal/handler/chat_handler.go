// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"chatcore-go/internal/service"
	"chatcore-go/pkg/log"
	"chatcore-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 来源校验由 CORS 中间件负责
	},
}

// ChatHandler 负责处理对话请求，同时支持 HTTP 与 WebSocket 两种通道。
type ChatHandler struct {
	chatService service.ChatService
	jwtManager  *token.JWTManager
	maxMsgLen   int
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService, jwtManager *token.JWTManager, maxMsgLen int) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		jwtManager:  jwtManager,
		maxMsgLen:   maxMsgLen,
	}
}

// ChatMessageRequest 定义了对话 API 的请求体结构。
type ChatMessageRequest struct {
	Message     string `json:"message"`
	SessionID   string `json:"session_id"`
	InputMethod string `json:"input_method"`
}

// Chat 处理一条 HTTP 入站消息。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No data received"})
		return
	}

	result, err := h.chatService.HandleMessage(c.Request.Context(), service.ChatRequest{
		Message:     req.Message,
		SessionID:   req.SessionID,
		InputMethod: req.InputMethod,
		ClientKey:   c.ClientIP(),
	})
	if err != nil {
		h.writeChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatResponseBody(result))
}

// writeChatError 把服务层的错误分类映射为 HTTP 状态码与用户可读的提示。
func (h *ChatHandler) writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Message cannot be empty"})
	case errors.Is(err, service.ErrMessageTooLong):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Message too long. Maximum %d characters", h.maxMsgLen),
		})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many requests. Please wait a minute."})
	default:
		log.Error("对话处理失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Something went wrong. Please try again."})
	}
}

// chatResponseBody 构造对话 API 的响应体。
func chatResponseBody(result service.ChatResult) gin.H {
	return gin.H{
		"success":       true,
		"response":      result.Envelope.Text,
		"session_id":    result.SessionID,
		"source":        result.Envelope.Source,
		"emoji":         result.Envelope.Emoji,
		"response_time": fmt.Sprintf("%.2fs", result.Elapsed.Seconds()),
		"timestamp":     result.Timestamp.Format(time.RFC3339),
	}
}

// HandleWebsocket 处理一个传入的 WebSocket 聊天连接。
// 连接内逐条读取文本消息，走与 HTTP 通道完全相同的处理管线，并把结果 JSON 写回。
func (h *ChatHandler) HandleWebsocket(c *gin.Context) {
	tokenString := c.Param("token")
	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "无效的 token", "data": nil})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立，用户: %s", claims.Username)

	// 同一连接内的消息共享会话；会话失效时服务层会换发新会话
	sessionID := ""
	clientKey := c.ClientIP()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("从 WebSocket 读取消息失败: %v", err)
			break
		}

		result, err := h.chatService.HandleMessage(c.Request.Context(), service.ChatRequest{
			Message:     string(message),
			SessionID:   sessionID,
			InputMethod: "websocket",
			ClientKey:   clientKey,
		})
		if err != nil {
			if writeErr := conn.WriteJSON(gin.H{"success": false, "error": wsErrorMessage(err)}); writeErr != nil {
				break
			}
			continue
		}

		sessionID = result.SessionID
		if err := conn.WriteJSON(chatResponseBody(result)); err != nil {
			log.Warnf("向 WebSocket 写入响应失败: %v", err)
			break
		}
	}
}

// wsErrorMessage 为 WebSocket 通道生成用户可读的错误提示。
func wsErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		return "Message cannot be empty"
	case errors.Is(err, service.ErrMessageTooLong):
		return "Message too long"
	case errors.Is(err, service.ErrRateLimited):
		return "Too many requests. Please wait a minute."
	default:
		return "Something went wrong. Please try again."
	}
}
