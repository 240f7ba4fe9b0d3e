package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pengawas/pengawas-go/internal/metrics"
	"github.com/pengawas/pengawas-go/internal/model"
	"go.uber.org/zap"
)

var (
	ErrSessionClosed = errors.New("会话不存在或已关闭")
)

const (
	heartbeatInterval = 30 * time.Second
	heartbeatTimeout  = 60 * time.Second
	maxMissedBeats    = 3
)

// SessionService 仪表盘观看者会话管理
type SessionService struct {
	sessions map[string]*model.ViewerSession // sessionId -> session
	mu       sync.RWMutex
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewSessionService 创建会话管理服务
func NewSessionService(m *metrics.Metrics, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions: make(map[string]*model.ViewerSession),
		metrics:  m,
		logger:   logger,
	}
}

// Register 注册观看者会话
func (s *SessionService) Register(uid int64, conn *websocket.Conn, clientIP string) *model.ViewerSession {
	session := &model.ViewerSession{
		SessionID:     uuid.New().String(),
		UID:           uid,
		Conn:          conn,
		ClientIP:      clientIP,
		LastHeartbeat: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.SessionID] = session
	count := len(s.sessions)
	s.mu.Unlock()

	s.updateGauge(count)
	s.logger.Info("观看者会话注册成功",
		zap.String("sessionId", session.SessionID),
		zap.Int64("uid", uid),
		zap.String("clientIp", clientIP))
	return session
}

// Remove 移除会话
func (s *SessionService) Remove(sessionID string) {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	count := len(s.sessions)
	s.mu.Unlock()

	if ok {
		s.updateGauge(count)
		s.logger.Info("观看者会话已移除", zap.String("sessionId", sessionID))
	}
}

// Send 向指定会话发送消息
func (s *SessionService) Send(sessionID string, message interface{}) error {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return ErrSessionClosed
	}

	if err := session.WriteMessage(message); err != nil {
		s.logger.Warn("消息发送失败", zap.String("sessionId", sessionID), zap.Error(err))
		s.Remove(sessionID)
		return err
	}
	return nil
}

// Broadcast 向所有会话推送消息，返回成功数量
func (s *SessionService) Broadcast(message interface{}) int {
	s.mu.RLock()
	sessions := make([]*model.ViewerSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	sent := 0
	for _, session := range sessions {
		if err := session.WriteMessage(message); err != nil {
			s.logger.Warn("推送失败，移除会话", zap.String("sessionId", session.SessionID), zap.Error(err))
			session.Conn.Close()
			s.Remove(session.SessionID)
			continue
		}
		sent++
	}
	return sent
}

// UpdateHeartbeat 更新心跳时间
func (s *SessionService) UpdateHeartbeat(sessionID string) bool {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return false
	}
	session.UpdateHeartbeat()
	return true
}

// Count 在线观看者数量
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunHeartbeatChecker 心跳检测，ctx 取消后退出
func (s *SessionService) RunHeartbeatChecker(ctx context.Context) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.checkHeartbeats(now)
		}
	}
}

func (s *SessionService) checkHeartbeats(now time.Time) {
	s.mu.Lock()
	for id, session := range s.sessions {
		if !session.CheckHeartbeat(now, heartbeatTimeout, maxMissedBeats) {
			if session.Missed() > 0 {
				s.logger.Warn("观看者心跳丢失",
					zap.String("sessionId", id),
					zap.Int("missedBeats", session.Missed()))
			}
			continue
		}

		s.logger.Info("清理无效会话",
			zap.String("sessionId", id),
			zap.Int("missedBeats", session.Missed()))
		if session.Conn != nil {
			session.Conn.Close()
		}
		delete(s.sessions, id)
	}
	count := len(s.sessions)
	s.mu.Unlock()

	s.updateGauge(count)
}

func (s *SessionService) updateGauge(count int) {
	if s.metrics != nil {
		s.metrics.Viewers.Set(float64(count))
	}
}
