package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/pengawas/pengawas-go/internal/service"
	"github.com/pengawas/pengawas-go/internal/status"
	"github.com/pengawas/pengawas-go/internal/store"
	"go.uber.org/zap"
)

const chatTimeout = 15 * time.Second

// WebSocketHandler 仪表盘实时推送处理器
type WebSocketHandler struct {
	upgrader       websocket.Upgrader
	sessionService *service.SessionService
	chatService    *service.ChatService
	readings       store.ReadingStore
	logger         *zap.Logger
}

// NewWebSocketHandler 创建 WebSocket 处理器，allowedOrigins 为空时不校验 Origin
func NewWebSocketHandler(sessionService *service.SessionService, chatService *service.ChatService, readings store.ReadingStore, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
		sessionService: sessionService,
		chatService:    chatService,
		readings:       readings,
		logger:         logger,
	}
}

// HandleWebSocket WebSocket 连接入口，uid 可选
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	var uid int64
	if s := c.Query("uid"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid uid"})
			return
		}
		uid = id
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	session := h.sessionService.Register(uid, conn, c.ClientIP())
	defer h.sessionService.Remove(session.SessionID)

	h.sendSnapshot(c.Request.Context(), session.SessionID)

	for {
		var msg model.StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket 读取错误", zap.Error(err))
			}
			break
		}
		h.handleMessage(session, &msg)
	}

	h.logger.Info("WebSocket 连接断开", zap.String("sessionId", session.SessionID))
}

// sendSnapshot 连接建立后立即推送当前快照
func (h *WebSocketHandler) sendSnapshot(ctx context.Context, sessionID string) {
	snap, err := h.readings.Latest(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Warn("读取最新快照失败", zap.Error(err))
		}
		return
	}

	msg := model.StreamMessage{
		MessageID: uuid.New().String(),
		Type:      model.MessageTypeSnapshot,
		Data:      status.SnapshotView(snap),
		Timestamp: time.Now(),
	}
	_ = h.sessionService.Send(sessionID, msg)
}

// handleMessage 处理客户端消息
func (h *WebSocketHandler) handleMessage(session *model.ViewerSession, msg *model.StreamMessage) {
	switch msg.Type {
	case model.MessageTypeChat:
		h.handleChat(session, msg)

	case model.MessageTypeHeartbeat:
		h.sessionService.UpdateHeartbeat(session.SessionID)
		h.logger.Debug("收到心跳", zap.String("sessionId", session.SessionID))

	default:
		h.logger.Warn("未知消息类型",
			zap.String("sessionId", session.SessionID),
			zap.String("type", msg.Type))
	}
}

func (h *WebSocketHandler) handleChat(session *model.ViewerSession, msg *model.StreamMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	reply := model.StreamMessage{
		MessageID: msg.MessageID,
		Type:      model.MessageTypeAIResponse,
		UID:       session.UID,
		SessionID: session.SessionID,
		Timestamp: time.Now(),
	}

	answer, err := h.chatService.Ask(ctx, session.UID, msg.Content)
	switch {
	case errors.Is(err, service.ErrNoGasReading):
		reply.Content = err.Error()
	case err != nil:
		reply.Content = "Maaf, chatbot sedang tidak tersedia."
	default:
		reply.Content = answer.Answer
		reply.Data = answer
	}

	_ = h.sessionService.Send(session.SessionID, reply)
}
