package handler

import (
	"net/http"
	"strconv"

	"chatcore-go/internal/store"

	"github.com/gin-gonic/gin"
)

// HistoryHandler 负责处理对话日志的查询与清空请求。
type HistoryHandler struct {
	history store.HistoryLog
}

// NewHistoryHandler 创建一个新的 HistoryHandler 实例。
func NewHistoryHandler(history store.HistoryLog) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetHistory 返回最近的对话记录，最新在前。limit 超过 500 时由日志自身封顶。
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	entries := h.history.Recent(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": entries,
		"count":   len(entries),
	})
}

// ClearHistory 原子地清空对话日志。
func (h *HistoryHandler) ClearHistory(c *gin.Context) {
	h.history.Clear()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "History cleared successfully",
	})
}
