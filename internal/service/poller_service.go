package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pengawas/pengawas-go/internal/client"
	"github.com/pengawas/pengawas-go/internal/metrics"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/pengawas/pengawas-go/internal/sink"
	"github.com/pengawas/pengawas-go/internal/status"
	"github.com/pengawas/pengawas-go/internal/store"
	"go.uber.org/zap"
)

// ReadingSource 读数来源
type ReadingSource interface {
	Device() string
	Latest(ctx context.Context, v model.Variable) (model.Reading, error)
}

// Broadcaster 实时推送
type Broadcaster interface {
	Broadcast(message interface{}) int
}

// PollerOptions 轮询参数
type PollerOptions struct {
	Variables []model.Variable
	Interval  time.Duration
	Retry     client.RetryPolicy
}

// PollerService 定时轮询 Ubidots 并更新状态
type PollerService struct {
	source      ReadingSource
	evaluator   *status.Evaluator
	readings    store.ReadingStore
	sink        sink.Sink
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	opts        PollerOptions
	logger      *zap.Logger
	now         func() time.Time
}

// NewPollerService 创建轮询服务，sink 与 broadcaster 可为空
func NewPollerService(
	source ReadingSource,
	evaluator *status.Evaluator,
	readings store.ReadingStore,
	snk sink.Sink,
	broadcaster Broadcaster,
	m *metrics.Metrics,
	opts PollerOptions,
	logger *zap.Logger,
) *PollerService {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	return &PollerService{
		source:      source,
		evaluator:   evaluator,
		readings:    readings,
		sink:        snk,
		broadcaster: broadcaster,
		metrics:     m,
		opts:        opts,
		logger:      logger,
		now:         time.Now,
	}
}

// Run 立即轮询一次，之后按间隔轮询，直到 ctx 取消
func (s *PollerService) Run(ctx context.Context) error {
	s.logger.Info("轮询开始",
		zap.String("device", s.source.Device()),
		zap.Duration("interval", s.opts.Interval))

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.PollOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("轮询失败", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			s.logger.Info("轮询停止")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// PollOnce 获取所有变量、判定、保存并推送
//
// 每次轮询都生成新快照，获取失败的变量视为缺失。
// 所有变量都失败时仍保存并推送空快照，随后返回错误。
func (s *PollerService) PollOnce(ctx context.Context) (model.Snapshot, error) {
	start := s.now()
	device := s.source.Device()
	snap := model.NewSnapshot(device)

	fetched := 0
	for _, v := range s.opts.Variables {
		var r model.Reading
		err := client.Retry(ctx, s.opts.Retry, func() error {
			var ferr error
			r, ferr = s.source.Latest(ctx, v)
			return ferr
		})
		if err != nil {
			s.logger.Error("获取变量数据失败", zap.String("variable", string(v)), zap.Error(err))
			if s.metrics != nil {
				s.metrics.PollFailures.WithLabelValues(device, string(v)).Inc()
			}
			continue
		}

		fetched++
		snap.Readings[v] = r
		if err := s.readings.AppendReading(ctx, r); err != nil {
			s.logger.Warn("保存读数失败", zap.String("variable", string(v)), zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.SensorValue.WithLabelValues(device, string(v)).Set(r.Value)
		}
	}
	allFailed := fetched == 0 && len(s.opts.Variables) > 0

	snap.Evaluations = Evaluate(s.evaluator, snap)
	snap.UpdatedAt = s.now()

	if s.metrics != nil {
		for v, e := range snap.Evaluations {
			s.metrics.Evaluations.WithLabelValues(string(v), string(e.Category)).Inc()
		}
		s.metrics.PollDuration.Observe(s.now().Sub(start).Seconds())
	}

	if err := s.readings.SaveSnapshot(ctx, snap); err != nil {
		return snap, fmt.Errorf("保存快照失败: %w", err)
	}

	if s.sink != nil && !allFailed {
		if err := s.sink.Publish(ctx, snap); err != nil {
			s.logger.Warn("快照转发失败", zap.Error(err))
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(model.StreamMessage{
			MessageID: uuid.New().String(),
			Type:      model.MessageTypeSnapshot,
			Data:      status.SnapshotView(snap),
			Timestamp: snap.UpdatedAt,
		})
	}

	if allFailed {
		return snap, fmt.Errorf("所有变量获取失败（%d 个）", len(s.opts.Variables))
	}

	s.logger.Debug("轮询完成", zap.Int("fetched", fetched), zap.Int("evaluations", len(snap.Evaluations)))
	return snap, nil
}

// Evaluate 按快照中已有的读数计算判定结果，湿度只展示不判定
//
// 光照判定在没有 mq2 读数时按 0 处理。
func Evaluate(e *status.Evaluator, snap model.Snapshot) map[model.Variable]model.Evaluation {
	out := make(map[model.Variable]model.Evaluation, 3)

	gas, hasGas := snap.Value(model.VariableGas)
	if hasGas {
		out[model.VariableGas] = e.Smoke(gas)
	}
	if lux, ok := snap.Value(model.VariableLux); ok {
		out[model.VariableLux] = e.Light(lux, gas)
	}
	if temp, ok := snap.Value(model.VariableTemperature); ok {
		out[model.VariableTemperature] = e.Temperature(temp)
	}
	return out
}
