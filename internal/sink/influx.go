package sink

import (
	"context"
	"fmt"

	client "github.com/influxdata/influxdb/client/v2"
	"github.com/pengawas/pengawas-go/internal/config"
	"github.com/pengawas/pengawas-go/internal/model"
	"go.uber.org/zap"
)

// InfluxSink 写入 InfluxDB，每次快照一个 sensor 数据点
type InfluxSink struct {
	client   client.Client
	database string
	logger   *zap.Logger
}

// NewInfluxSink 创建 InfluxDB 转发
func NewInfluxSink(cfg config.InfluxConfig, logger *zap.Logger) (*InfluxSink, error) {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     cfg.URL,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 InfluxDB 客户端失败: %w", err)
	}
	return &InfluxSink{client: c, database: cfg.Database, logger: logger}, nil
}

// Name 名称
func (s *InfluxSink) Name() string { return "influx" }

// Publish 写入数据点
func (s *InfluxSink) Publish(_ context.Context, snap model.Snapshot) error {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  s.database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("创建 batch 失败: %w", err)
	}

	pt, err := influxPoint(snap)
	if err != nil {
		return err
	}
	bp.AddPoint(pt)

	if err := s.client.Write(bp); err != nil {
		return fmt.Errorf("写入 InfluxDB 失败: %w", err)
	}
	return nil
}

// Close 关闭客户端
func (s *InfluxSink) Close() error {
	return s.client.Close()
}

func influxPoint(snap model.Snapshot) (*client.Point, error) {
	tags := map[string]string{"device": snap.Device}
	fields := make(map[string]interface{}, len(snap.Readings)+len(snap.Evaluations))
	for v, r := range snap.Readings {
		fields[string(v)] = r.Value
	}
	for v, e := range snap.Evaluations {
		fields[string(v)+"_category"] = string(e.Category)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("快照没有读数")
	}

	pt, err := client.NewPoint("sensor", tags, fields, snap.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("创建数据点失败: %w", err)
	}
	return pt, nil
}
