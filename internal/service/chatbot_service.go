package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pengawas/pengawas-go/internal/metrics"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/pengawas/pengawas-go/internal/router"
	"github.com/pengawas/pengawas-go/internal/store"
	"go.uber.org/zap"
)

var (
	ErrInvalidReading = errors.New("nilai sensor tidak valid")
)

// Responder 根据问题和读数生成回复
type Responder interface {
	Respond(ctx context.Context, req model.RespondRequest) (model.ChatAnswer, error)
}

// ChatbotService 问答服务
type ChatbotService struct {
	router  *router.Router
	chats   store.ChatStore
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewChatbotService 创建问答服务，chats 为空时不记录历史
func NewChatbotService(r *router.Router, chats store.ChatStore, m *metrics.Metrics, logger *zap.Logger) *ChatbotService {
	return &ChatbotService{
		router:  r,
		chats:   chats,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Respond 分类问题并生成回复
func (s *ChatbotService) Respond(ctx context.Context, req model.RespondRequest) (model.ChatAnswer, error) {
	if err := validateReadings(req); err != nil {
		return model.ChatAnswer{}, err
	}

	topic, answer := s.router.Answer(req.Question, *req.Gas, req.Lux, req.Temperature)

	result := model.ChatAnswer{
		MessageID: uuid.New().String(),
		Topic:     string(topic),
		Question:  req.Question,
		Answer:    answer,
		Timestamp: s.now(),
	}

	s.logger.Info("问题已回复",
		zap.Int64("uid", req.UID),
		zap.String("question", req.Question),
		zap.String("topic", result.Topic))

	if s.metrics != nil {
		s.metrics.ChatQuestions.WithLabelValues(result.Topic).Inc()
	}

	// 历史记录失败不影响回复
	if s.chats != nil {
		entry := model.HistoryEntry{
			Question:  req.Question,
			Answer:    answer,
			Topic:     result.Topic,
			Timestamp: result.Timestamp,
		}
		if err := s.chats.AppendChat(ctx, req.UID, entry); err != nil {
			s.logger.Warn("保存对话历史失败", zap.Int64("uid", req.UID), zap.Error(err))
		}
	}

	return result, nil
}

// History 获取对话历史
func (s *ChatbotService) History(ctx context.Context, uid int64, limit int) ([]model.HistoryEntry, error) {
	if s.chats == nil {
		return []model.HistoryEntry{}, nil
	}
	return s.chats.ChatHistory(ctx, uid, limit)
}

// Questions 预设问题
func (s *ChatbotService) Questions() []string {
	return router.Questions()
}

// validateReadings mq2 必填，所有读数必须是有限值
func validateReadings(req model.RespondRequest) error {
	if req.Gas == nil {
		return ErrNoGasReading
	}
	for _, v := range []*float64{req.Gas, req.Lux, req.Temperature} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return ErrInvalidReading
		}
	}
	return nil
}
