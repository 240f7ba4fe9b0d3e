package store

import (
	"context"
	"errors"

	"github.com/pengawas/pengawas-go/internal/model"
)

// ErrNotFound 尚无数据
var ErrNotFound = errors.New("store: not found")

const (
	chatHistoryKeep = 20
)

// ReadingStore 传感器最新快照与历史曲线
type ReadingStore interface {
	SaveSnapshot(ctx context.Context, snap model.Snapshot) error
	Latest(ctx context.Context) (model.Snapshot, error)
	AppendReading(ctx context.Context, r model.Reading) error
	// History 返回最近 limit 条读数，最新的在前
	History(ctx context.Context, v model.Variable, limit int) ([]model.Reading, error)
}

// ChatStore 对话历史
type ChatStore interface {
	AppendChat(ctx context.Context, uid int64, entry model.HistoryEntry) error
	// ChatHistory 返回最近 limit 条对话，按时间先后排列
	ChatHistory(ctx context.Context, uid int64, limit int) ([]model.HistoryEntry, error)
}

// Store 组合接口
type Store interface {
	ReadingStore
	ChatStore
}
