package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/pengawas/pengawas-go/internal/router"
	"github.com/pengawas/pengawas-go/internal/service"
	"go.uber.org/zap"
)

const defaultChatHistoryLimit = 20

// ChatbotHandler chatbot 服务处理器
type ChatbotHandler struct {
	chatbotService *service.ChatbotService
	logger         *zap.Logger
}

// NewChatbotHandler 创建 chatbot 处理器
func NewChatbotHandler(chatbotService *service.ChatbotService, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotService: chatbotService,
		logger:         logger,
	}
}

// Health 健康检查
func (h *ChatbotHandler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "UP",
		"service": "chatbot",
	})
}

// Respond POST /api/respond
func (h *ChatbotHandler) Respond(c *gin.Context) {
	var req model.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request"})
		return
	}
	h.respond(c, req)
}

// RespondQuery GET /api/respond?question=...&gas=...
func (h *ChatbotHandler) RespondQuery(c *gin.Context) {
	var req model.RespondRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request"})
		return
	}
	h.respond(c, req)
}

func (h *ChatbotHandler) respond(c *gin.Context, req model.RespondRequest) {
	answer, err := h.chatbotService.Respond(c.Request.Context(), req)
	if errors.Is(err, service.ErrNoGasReading) || errors.Is(err, service.ErrInvalidReading) {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("生成回复失败", zap.Error(err))
		c.JSON(500, gin.H{"error": "生成回复失败"})
		return
	}
	c.JSON(200, answer)
}

// History 对话历史
func (h *ChatbotHandler) History(c *gin.Context) {
	uid, err := strconv.ParseInt(c.Query("uid"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid uid"})
		return
	}

	limit := defaultChatHistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(400, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	history, err := h.chatbotService.History(c.Request.Context(), uid, limit)
	if err != nil {
		h.logger.Error("读取对话历史失败", zap.Int64("uid", uid), zap.Error(err))
		c.JSON(500, gin.H{"error": "读取对话历史失败"})
		return
	}

	c.JSON(200, gin.H{
		"uid":     uid,
		"history": history,
		"count":   len(history),
	})
}

// Questions 预设问题与话题
func (h *ChatbotHandler) Questions(c *gin.Context) {
	c.JSON(200, gin.H{
		"questions": h.chatbotService.Questions(),
		"topics":    router.Topics(),
	})
}
