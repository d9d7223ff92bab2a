package handler

import (
	"net/http"
	"time"

	"chatcore-go/internal/service"

	"github.com/gin-gonic/gin"
)

// HealthHandler 提供健康检查端点。
type HealthHandler struct {
	generative service.GenerativeSource
}

// NewHealthHandler 创建一个新的 HealthHandler 实例。
func NewHealthHandler(generative service.GenerativeSource) *HealthHandler {
	return &HealthHandler{generative: generative}
}

// Health 报告服务状态与生成式能力的可用性。
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":               "healthy",
		"timestamp":            time.Now().Format(time.RFC3339),
		"generative_available": h.generative.Available(),
		"knowledge_source":     "wikipedia",
	})
}
