package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/pengawas/pengawas-go/internal/router"
	"github.com/pengawas/pengawas-go/internal/service"
	"go.uber.org/zap"
)

// ChatHandler 仪表盘问答处理器
type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

// NewChatHandler 创建问答处理器
func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Questions 预设问题
func (h *ChatHandler) Questions(c *gin.Context) {
	c.JSON(200, gin.H{"questions": router.Questions()})
}

// Ask 提问接口
func (h *ChatHandler) Ask(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request"})
		return
	}

	answer, err := h.chatService.Ask(c.Request.Context(), req.UID, req.Question)
	if errors.Is(err, service.ErrNoGasReading) {
		c.JSON(409, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("回答问题失败", zap.Int64("uid", req.UID), zap.Error(err))
		c.JSON(502, gin.H{"error": "回答问题失败"})
		return
	}

	c.JSON(200, answer)
}
