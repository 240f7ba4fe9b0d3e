package model

import "time"

// WebSocket 消息类型
const (
	MessageTypeChat       = "CHAT"
	MessageTypeHeartbeat  = "HEARTBEAT"
	MessageTypeAIResponse = "AI_RESPONSE"
	MessageTypeSnapshot   = "SNAPSHOT"
)

// StreamMessage WebSocket 消息
type StreamMessage struct {
	MessageID string      `json:"messageId"`
	Type      string      `json:"type"` // CHAT, HEARTBEAT, AI_RESPONSE, SNAPSHOT
	Content   string      `json:"content,omitempty"`
	UID       int64       `json:"uid,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ChatRequest 仪表盘提问请求
type ChatRequest struct {
	UID      int64  `json:"uid"`
	Question string `json:"question" binding:"required"`
}

// RespondRequest chatbot 服务请求
type RespondRequest struct {
	UID         int64    `json:"uid" form:"uid"`
	Question    string   `json:"question" form:"question" binding:"required"`
	Gas         *float64 `json:"gas" form:"gas" binding:"required"`
	Lux         *float64 `json:"lux,omitempty" form:"lux"`
	Temperature *float64 `json:"temperature,omitempty" form:"temperature"`
}

// ChatAnswer 问答结果
type ChatAnswer struct {
	MessageID string    `json:"messageId"`
	Topic     string    `json:"topic"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryEntry 对话历史记录
type HistoryEntry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
}

// SnapshotView 返回给前端的快照
type SnapshotView struct {
	Device      string                      `json:"device"`
	Readings    map[Variable]Reading        `json:"readings"`
	Evaluations map[Variable]EvaluationView `json:"evaluations"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}
