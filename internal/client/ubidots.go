package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pengawas/pengawas-go/internal/config"
	"github.com/pengawas/pengawas-go/internal/model"
	"go.uber.org/zap"
)

// UbidotsClient Ubidots 工业版 API 客户端
type UbidotsClient struct {
	baseURL    string
	token      string
	device     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewUbidotsClient 创建 Ubidots 客户端
func NewUbidotsClient(cfg config.UbidotsConfig, logger *zap.Logger) *UbidotsClient {
	return &UbidotsClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		device:     cfg.DeviceLabel,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Value Ubidots 返回的单个数据点
type Value struct {
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"` // 毫秒
}

// ValuesResponse /values 接口响应
type ValuesResponse struct {
	Count   int     `json:"count"`
	Results []Value `json:"results"`
}

// Device 设备标签
func (c *UbidotsClient) Device() string {
	return c.device
}

// GetValues 获取变量的数据点（最新的在前）
func (c *UbidotsClient) GetValues(ctx context.Context, variable string) ([]Value, error) {
	endpoint := fmt.Sprintf("%s/api/v1.6/devices/%s/%s/values",
		c.baseURL, url.PathEscape(c.device), url.PathEscape(variable))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Ubidots 返回错误: %d, body: %s", resp.StatusCode, string(body))
	}

	var values ValuesResponse
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	c.logger.Debug("获取变量数据成功",
		zap.String("variable", variable),
		zap.Int("count", len(values.Results)))

	return values.Results, nil
}

// Latest 获取变量的最新读数（保留两位小数）
func (c *UbidotsClient) Latest(ctx context.Context, variable model.Variable) (model.Reading, error) {
	values, err := c.GetValues(ctx, string(variable))
	if err != nil {
		return model.Reading{}, err
	}
	if len(values) == 0 {
		return model.Reading{}, fmt.Errorf("变量 %s 没有数据", variable)
	}

	v := values[0]
	return model.Reading{
		Variable:  variable,
		Value:     math.Round(v.Value*100) / 100,
		Timestamp: time.UnixMilli(v.Timestamp).UTC(),
	}, nil
}
