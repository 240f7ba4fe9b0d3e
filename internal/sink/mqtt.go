package sink

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pengawas/pengawas-go/internal/config"
	"github.com/pengawas/pengawas-go/internal/model"
	"go.uber.org/zap"
)

// MQTTSink 转发到 MQTT 主题 <topic>/<device>
type MQTTSink struct {
	client mqtt.Client
	topic  string
	logger *zap.Logger
}

// NewMQTTSink 连接 broker 并创建 MQTT 转发
func NewMQTTSink(cfg config.MQTTConfig, logger *zap.Logger) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("连接 MQTT broker 失败: %w", token.Error())
	}

	return &MQTTSink{client: c, topic: cfg.Topic, logger: logger}, nil
}

// Name 名称
func (s *MQTTSink) Name() string { return "mqtt" }

// Publish 发布快照（QoS 0，不保留）
func (s *MQTTSink) Publish(ctx context.Context, snap model.Snapshot) error {
	payload, err := encode(snap)
	if err != nil {
		return err
	}

	token := s.client.Publish(mqttTopic(s.topic, snap.Device), 0, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("发布 MQTT 消息失败: %w", err)
	}
	return nil
}

// Close 断开连接
func (s *MQTTSink) Close() error {
	s.client.Disconnect(250)
	return nil
}

func mqttTopic(base, device string) string {
	if base == "" {
		base = "pengawas"
	}
	return base + "/" + device
}
