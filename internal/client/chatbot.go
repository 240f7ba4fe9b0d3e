package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pengawas/pengawas-go/internal/model"
	"go.uber.org/zap"
)

// ChatbotClient chatbot 服务客户端
type ChatbotClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewChatbotClient 创建 chatbot 服务客户端
func NewChatbotClient(baseURL string, logger *zap.Logger) *ChatbotClient {
	return &ChatbotClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

// Respond 调用 chatbot 服务 /api/respond
func (c *ChatbotClient) Respond(ctx context.Context, req model.RespondRequest) (model.ChatAnswer, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return model.ChatAnswer{}, fmt.Errorf("序列化请求失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/respond", bytes.NewReader(jsonData))
	if err != nil {
		return model.ChatAnswer{}, fmt.Errorf("创建请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("调用 chatbot 服务", zap.Int64("uid", req.UID), zap.String("question", req.Question))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.ChatAnswer{}, fmt.Errorf("HTTP 请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.ChatAnswer{}, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return model.ChatAnswer{}, fmt.Errorf("chatbot 服务返回错误: %d, body: %s", resp.StatusCode, string(body))
	}

	var answer model.ChatAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return model.ChatAnswer{}, fmt.Errorf("解析响应失败: %w", err)
	}
	return answer, nil
}
