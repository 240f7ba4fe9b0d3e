package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/pengawas/pengawas-go/internal/config"
	"github.com/pengawas/pengawas-go/internal/handler"
	"github.com/pengawas/pengawas-go/internal/metrics"
	"github.com/pengawas/pengawas-go/internal/middleware"
	"github.com/pengawas/pengawas-go/internal/router"
	"github.com/pengawas/pengawas-go/internal/service"
	"github.com/pengawas/pengawas-go/internal/status"
	"github.com/pengawas/pengawas-go/internal/store"
	"github.com/pengawas/pengawas-go/pkg/logger"
	"github.com/pengawas/pengawas-go/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig("configs/chatbot.yaml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("chatbot 服务启动中...")

	// 对话历史：配置 redis 时写入 redis，否则保存在内存
	var chats store.ChatStore
	if cfg.Store.Backend == "redis" {
		redisClient, err := redis.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			zapLogger.Fatal("连接 Redis 失败", zap.Error(err))
		}
		chats = store.NewRedisStore(redisClient, cfg.Ubidots.DeviceLabel, cfg.Store.HistorySize, zapLogger)
	} else {
		chats = store.NewMemoryStore(cfg.Store.HistorySize, zapLogger)
	}

	// 初始化服务
	m := metrics.New()
	evaluator := status.NewEvaluator(cfg.Thresholds)
	chatbotService := service.NewChatbotService(router.NewRouter(evaluator), chats, m, zapLogger)

	// 初始化处理器
	chatbotHandler := handler.NewChatbotHandler(chatbotService, zapLogger)

	// 初始化路由
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(zapLogger), middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.POST("/respond", chatbotHandler.Respond)
	api.GET("/respond", chatbotHandler.RespondQuery)
	api.GET("/history", chatbotHandler.History)
	api.GET("/questions", chatbotHandler.Questions)
	api.GET("/health", chatbotHandler.Health)

	// 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zapLogger.Info("chatbot 服务启动成功",
		zap.Int("port", cfg.Server.Port))

	if err := r.Run(addr); err != nil {
		zapLogger.Fatal("服务启动失败", zap.Error(err))
	}
}
