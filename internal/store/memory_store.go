package store

import (
	"context"
	"sync"

	"github.com/pengawas/pengawas-go/internal/model"
	"go.uber.org/zap"
)

// MemoryStore 内存存储（单进程使用）
type MemoryStore struct {
	latest      *model.Snapshot
	history     map[model.Variable][]model.Reading // 最新的在前
	chats       map[int64][]model.HistoryEntry
	historySize int
	mu          sync.RWMutex
	logger      *zap.Logger
}

// NewMemoryStore 创建内存存储
func NewMemoryStore(historySize int, logger *zap.Logger) *MemoryStore {
	if historySize <= 0 {
		historySize = 100
	}
	return &MemoryStore{
		history:     make(map[model.Variable][]model.Reading),
		chats:       make(map[int64][]model.HistoryEntry),
		historySize: historySize,
		logger:      logger,
	}
}

// SaveSnapshot 保存最新快照
func (s *MemoryStore) SaveSnapshot(_ context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := copySnapshot(snap)
	s.latest = &cp
	s.logger.Debug("快照已保存", zap.String("device", snap.Device), zap.Int("readings", len(snap.Readings)))
	return nil
}

// Latest 获取最新快照
func (s *MemoryStore) Latest(_ context.Context) (model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return model.Snapshot{}, ErrNotFound
	}
	return copySnapshot(*s.latest), nil
}

// AppendReading 追加读数，超过容量时丢弃最旧的
func (s *MemoryStore) AppendReading(_ context.Context, r model.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := append([]model.Reading{r}, s.history[r.Variable]...)
	if len(list) > s.historySize {
		list = list[:s.historySize]
	}
	s.history[r.Variable] = list
	return nil
}

// History 获取读数曲线
func (s *MemoryStore) History(_ context.Context, v model.Variable, limit int) ([]model.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.history[v]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]model.Reading, limit)
	copy(out, list[:limit])
	return out, nil
}

// AppendChat 追加对话记录
func (s *MemoryStore) AppendChat(_ context.Context, uid int64, entry model.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.chats[uid], entry)
	if len(list) > chatHistoryKeep {
		list = list[len(list)-chatHistoryKeep:]
	}
	s.chats[uid] = list
	return nil
}

// ChatHistory 获取对话记录
func (s *MemoryStore) ChatHistory(_ context.Context, uid int64, limit int) ([]model.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.chats[uid]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]model.HistoryEntry, limit)
	copy(out, list[len(list)-limit:])
	return out, nil
}

// Clear 清空所有数据
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = nil
	s.history = make(map[model.Variable][]model.Reading)
	s.chats = make(map[int64][]model.HistoryEntry)
	s.logger.Info("内存存储已清空")
}

func copySnapshot(s model.Snapshot) model.Snapshot {
	cp := model.NewSnapshot(s.Device)
	cp.UpdatedAt = s.UpdatedAt
	for k, v := range s.Readings {
		cp.Readings[k] = v
	}
	for k, v := range s.Evaluations {
		cp.Evaluations[k] = v
	}
	return cp
}
