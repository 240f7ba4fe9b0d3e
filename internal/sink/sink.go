// Package sink 把每次轮询的快照转发到外部系统。
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pengawas/pengawas-go/internal/model"
	"go.uber.org/zap"
)

// Sink 快照转发目标
type Sink interface {
	Name() string
	Publish(ctx context.Context, snap model.Snapshot) error
	Close() error
}

// Payload 转发消息体
type Payload struct {
	Device     string                            `json:"device"`
	Values     map[model.Variable]float64        `json:"values"`
	Categories map[model.Variable]model.Category `json:"categories"`
	Timestamp  time.Time                         `json:"timestamp"`
}

// NewPayload 从快照构建消息体
func NewPayload(snap model.Snapshot) Payload {
	p := Payload{
		Device:     snap.Device,
		Values:     make(map[model.Variable]float64, len(snap.Readings)),
		Categories: make(map[model.Variable]model.Category, len(snap.Evaluations)),
		Timestamp:  snap.UpdatedAt,
	}
	for v, r := range snap.Readings {
		p.Values[v] = r.Value
	}
	for v, e := range snap.Evaluations {
		p.Categories[v] = e.Category
	}
	return p
}

func encode(snap model.Snapshot) ([]byte, error) {
	data, err := json.Marshal(NewPayload(snap))
	if err != nil {
		return nil, fmt.Errorf("序列化快照失败: %w", err)
	}
	return data, nil
}

// Multi 依次转发到多个目标，单个目标失败不影响其他目标
type Multi struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewMulti 创建组合转发
func NewMulti(logger *zap.Logger, sinks ...Sink) *Multi {
	return &Multi{sinks: sinks, logger: logger}
}

// Name 名称
func (m *Multi) Name() string { return "multi" }

// Len 目标数量
func (m *Multi) Len() int { return len(m.sinks) }

// Publish 转发快照，返回所有失败的合并错误，由调用方记录日志
func (m *Multi) Publish(ctx context.Context, snap model.Snapshot) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Publish(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Close 关闭所有目标
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			m.logger.Warn("关闭转发目标失败", zap.String("sink", s.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
