package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const chatHistoryTTL = 24 * time.Hour

// RedisStore Redis 存储，仪表盘与 chatbot 服务共享
type RedisStore struct {
	client      *redis.Client
	device      string
	historySize int
	logger      *zap.Logger
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, device string, historySize int, logger *zap.Logger) *RedisStore {
	if historySize <= 0 {
		historySize = 100
	}
	return &RedisStore{
		client:      client,
		device:      device,
		historySize: historySize,
		logger:      logger,
	}
}

func (s *RedisStore) latestKey() string {
	return fmt.Sprintf("sensor:latest:%s", s.device)
}

func (s *RedisStore) historyKey(v model.Variable) string {
	return fmt.Sprintf("sensor:history:%s:%s", s.device, v)
}

func chatKey(uid int64) string {
	return fmt.Sprintf("chat_history:%d", uid)
}

// SaveSnapshot 保存最新快照
func (s *RedisStore) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}
	if err := s.client.Set(ctx, s.latestKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("保存快照失败: %w", err)
	}
	return nil
}

// Latest 获取最新快照
func (s *RedisStore) Latest(ctx context.Context) (model.Snapshot, error) {
	data, err := s.client.Get(ctx, s.latestKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("读取快照失败: %w", err)
	}

	snap := model.NewSnapshot(s.device)
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("解析快照失败: %w", err)
	}
	return snap, nil
}

// AppendReading 追加读数（LPUSH + LTRIM）
func (s *RedisStore) AppendReading(ctx context.Context, r model.Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("序列化读数失败: %w", err)
	}

	key := s.historyKey(r.Variable)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.historySize-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("保存读数失败: %w", err)
	}
	return nil
}

// History 获取读数曲线
func (s *RedisStore) History(ctx context.Context, v model.Variable, limit int) ([]model.Reading, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	items, err := s.client.LRange(ctx, s.historyKey(v), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("读取读数失败: %w", err)
	}

	out := make([]model.Reading, 0, len(items))
	for _, item := range items {
		var r model.Reading
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			s.logger.Warn("跳过无法解析的读数", zap.String("variable", string(v)), zap.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// AppendChat 追加对话记录，保留最近 20 条，24 小时过期
func (s *RedisStore) AppendChat(ctx context.Context, uid int64, entry model.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("序列化对话失败: %w", err)
	}

	key := chatKey(uid)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -chatHistoryKeep, -1)
	pipe.Expire(ctx, key, chatHistoryTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("保存对话失败: %w", err)
	}
	return nil
}

// ChatHistory 获取对话记录
func (s *RedisStore) ChatHistory(ctx context.Context, uid int64, limit int) ([]model.HistoryEntry, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	items, err := s.client.LRange(ctx, chatKey(uid), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("读取对话失败: %w", err)
	}

	out := make([]model.HistoryEntry, 0, len(items))
	for _, item := range items {
		var e model.HistoryEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			s.logger.Warn("跳过无法解析的对话", zap.Int64("uid", uid), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
