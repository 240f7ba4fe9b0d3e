package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/pengawas/pengawas-go/internal/store"
	"go.uber.org/zap"
)

var (
	ErrNoGasReading = errors.New("belum ada data asap/gas")
)

// ChatService 仪表盘问答：读取最新快照后交给 Responder
type ChatService struct {
	readings  store.ReadingStore
	responder Responder
	logger    *zap.Logger
}

// NewChatService 创建仪表盘问答服务
func NewChatService(readings store.ReadingStore, responder Responder, logger *zap.Logger) *ChatService {
	return &ChatService{
		readings:  readings,
		responder: responder,
		logger:    logger,
	}
}

// Ask 用最新读数回答问题，尚无 mq2 读数时返回 ErrNoGasReading
func (s *ChatService) Ask(ctx context.Context, uid int64, question string) (model.ChatAnswer, error) {
	snap, err := s.readings.Latest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return model.ChatAnswer{}, ErrNoGasReading
	}
	if err != nil {
		return model.ChatAnswer{}, fmt.Errorf("读取最新读数失败: %w", err)
	}

	gas, ok := snap.Value(model.VariableGas)
	if !ok {
		return model.ChatAnswer{}, ErrNoGasReading
	}

	req := model.RespondRequest{
		UID:         uid,
		Question:    question,
		Gas:         &gas,
		Lux:         snap.ValuePtr(model.VariableLux),
		Temperature: snap.ValuePtr(model.VariableTemperature),
	}

	answer, err := s.responder.Respond(ctx, req)
	if err != nil {
		s.logger.Error("生成回复失败", zap.Int64("uid", uid), zap.Error(err))
		return model.ChatAnswer{}, fmt.Errorf("生成回复失败: %w", err)
	}
	return answer, nil
}
