package sink

import (
	"github.com/pengawas/pengawas-go/internal/config"
	"go.uber.org/zap"
)

// FromConfig 按配置创建转发目标，未配置的目标不启用
func FromConfig(cfg config.SinksConfig, logger *zap.Logger) (*Multi, error) {
	var sinks []Sink

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic != "" {
		sinks = append(sinks, NewKafkaSink(cfg.Kafka, logger))
		logger.Info("已启用 Kafka 转发", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	if cfg.MQTT.Broker != "" {
		s, err := NewMQTTSink(cfg.MQTT, logger)
		if err != nil {
			NewMulti(logger, sinks...).Close()
			return nil, err
		}
		sinks = append(sinks, s)
		logger.Info("已启用 MQTT 转发", zap.String("broker", cfg.MQTT.Broker))
	}

	if cfg.Influx.URL != "" {
		s, err := NewInfluxSink(cfg.Influx, logger)
		if err != nil {
			NewMulti(logger, sinks...).Close()
			return nil, err
		}
		sinks = append(sinks, s)
		logger.Info("已启用 InfluxDB 转发", zap.String("url", cfg.Influx.URL), zap.String("database", cfg.Influx.Database))
	}

	return NewMulti(logger, sinks...), nil
}
