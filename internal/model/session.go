package model

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ViewerSession 仪表盘观看者会话
type ViewerSession struct {
	SessionID     string
	UID           int64
	Conn          *websocket.Conn
	ClientIP      string
	LastHeartbeat time.Time
	MissedBeats   int
	mu            sync.RWMutex // 保护会话字段
}

// UpdateHeartbeat 更新心跳时间
func (s *ViewerSession) UpdateHeartbeat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastHeartbeat = time.Now()
	s.MissedBeats = 0
}

// CheckHeartbeat 心跳超时则累计丢失次数，返回是否应清理
func (s *ViewerSession) CheckHeartbeat(now time.Time, timeout time.Duration, maxMissed int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.LastHeartbeat) > timeout {
		s.MissedBeats++
	}
	return s.MissedBeats >= maxMissed
}

// Missed 当前丢失心跳次数
func (s *ViewerSession) Missed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MissedBeats
}

// WriteMessage 向 WebSocket 写入消息（线程安全）
func (s *ViewerSession) WriteMessage(message interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Conn.WriteJSON(message)
}
