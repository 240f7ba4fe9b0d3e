package sink

import (
	"context"
	"fmt"

	"github.com/pengawas/pengawas-go/internal/config"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaSink 转发到 Kafka，以设备标签作为消息 key
type KafkaSink struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaSink 创建 Kafka 转发
func NewKafkaSink(cfg config.KafkaConfig, logger *zap.Logger) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.Hash{},
		},
		logger: logger,
	}
}

// Name 名称
func (s *KafkaSink) Name() string { return "kafka" }

// Publish 写入一条消息
func (s *KafkaSink) Publish(ctx context.Context, snap model.Snapshot) error {
	msg, err := kafkaMessage(snap)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("写入 Kafka 失败: %w", err)
	}
	s.logger.Debug("快照已写入 Kafka", zap.String("device", snap.Device))
	return nil
}

// Close 关闭 writer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func kafkaMessage(snap model.Snapshot) (kafka.Message, error) {
	data, err := encode(snap)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(snap.Device),
		Value: data,
		Time:  snap.UpdatedAt,
	}, nil
}
