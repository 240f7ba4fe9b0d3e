package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/pengawas/pengawas-go/internal/packages"
	"github.com/pengawas/pengawas-go/internal/service"
	"github.com/pengawas/pengawas-go/internal/status"
	"github.com/pengawas/pengawas-go/internal/store"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

// APIHandler 仪表盘 API 处理器
type APIHandler struct {
	readings    store.ReadingStore
	sessions    *service.SessionService
	variables   map[model.Variable]bool
	serviceName string
	logger      *zap.Logger
}

// NewAPIHandler 创建 API 处理器
func NewAPIHandler(readings store.ReadingStore, sessions *service.SessionService, variables []model.Variable, serviceName string, logger *zap.Logger) *APIHandler {
	known := make(map[model.Variable]bool, len(variables))
	for _, v := range variables {
		known[v] = true
	}
	return &APIHandler{
		readings:    readings,
		sessions:    sessions,
		variables:   known,
		serviceName: serviceName,
		logger:      logger,
	}
}

// Health 健康检查
func (h *APIHandler) Health(c *gin.Context) {
	viewers := 0
	if h.sessions != nil {
		viewers = h.sessions.Count()
	}
	c.JSON(200, gin.H{
		"status":  "UP",
		"service": h.serviceName,
		"viewers": viewers,
	})
}

// Latest 最新快照
func (h *APIHandler) Latest(c *gin.Context) {
	snap, ok := h.latest(c)
	if !ok {
		return
	}
	c.JSON(200, status.SnapshotView(snap))
}

// Status 仅返回判定结果
func (h *APIHandler) Status(c *gin.Context) {
	snap, ok := h.latest(c)
	if !ok {
		return
	}
	c.JSON(200, gin.H{
		"device":      snap.Device,
		"evaluations": status.SnapshotView(snap).Evaluations,
		"updatedAt":   snap.UpdatedAt,
	})
}

// History 变量曲线数据
func (h *APIHandler) History(c *gin.Context) {
	variable := model.Variable(c.Param("variable"))
	if !h.variables[variable] {
		c.JSON(404, gin.H{"error": "unknown variable"})
		return
	}

	limit := defaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(400, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	points, err := h.readings.History(c.Request.Context(), variable, limit)
	if err != nil {
		h.logger.Error("读取历史数据失败", zap.String("variable", string(variable)), zap.Error(err))
		c.JSON(500, gin.H{"error": "读取历史数据失败"})
		return
	}

	c.JSON(200, gin.H{
		"variable": variable,
		"label":    variable.Label(),
		"points":   points,
	})
}

// Packages 依赖列表
func (h *APIHandler) Packages(c *gin.Context) {
	pkgs, err := packages.List()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"packages": pkgs, "count": len(pkgs)})
}

func (h *APIHandler) latest(c *gin.Context) (model.Snapshot, bool) {
	snap, err := h.readings.Latest(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(404, gin.H{"error": "belum ada data sensor"})
		return model.Snapshot{}, false
	}
	if err != nil {
		h.logger.Error("读取最新快照失败", zap.Error(err))
		c.JSON(500, gin.H{"error": "读取最新快照失败"})
		return model.Snapshot{}, false
	}
	return snap, true
}
