package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pengawas/pengawas-go/internal/client"
	"github.com/pengawas/pengawas-go/internal/config"
	"github.com/pengawas/pengawas-go/internal/handler"
	"github.com/pengawas/pengawas-go/internal/metrics"
	"github.com/pengawas/pengawas-go/internal/middleware"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/pengawas/pengawas-go/internal/router"
	"github.com/pengawas/pengawas-go/internal/service"
	"github.com/pengawas/pengawas-go/internal/sink"
	"github.com/pengawas/pengawas-go/internal/status"
	"github.com/pengawas/pengawas-go/internal/store"
	"github.com/pengawas/pengawas-go/pkg/logger"
	"github.com/pengawas/pengawas-go/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig("configs/dashboard.yaml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("dashboard 服务启动中...", zap.String("device", cfg.Ubidots.DeviceLabel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化存储
	st, err := newStore(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("初始化存储失败", zap.Error(err))
	}

	// 初始化转发
	sinks, err := sink.FromConfig(cfg.Sinks, zapLogger)
	if err != nil {
		zapLogger.Fatal("初始化转发失败", zap.Error(err))
	}
	defer sinks.Close()

	// 初始化服务
	m := metrics.New()
	evaluator := status.NewEvaluator(cfg.Thresholds)
	sessionService := service.NewSessionService(m, zapLogger)

	var responder service.Responder
	if cfg.Services.Chatbot != "" {
		responder = client.NewChatbotClient(cfg.Services.Chatbot, zapLogger)
		zapLogger.Info("使用远程 chatbot 服务", zap.String("url", cfg.Services.Chatbot))
	} else {
		responder = service.NewChatbotService(router.NewRouter(evaluator), st, m, zapLogger)
	}
	chatService := service.NewChatService(st, responder, zapLogger)

	variables := model.ParseVariables(cfg.Ubidots.Variables)
	ubidots := client.NewUbidotsClient(cfg.Ubidots, zapLogger)
	poller := service.NewPollerService(ubidots, evaluator, st, sinks, sessionService, m, service.PollerOptions{
		Variables: variables,
		Interval:  cfg.Poller.Interval,
		Retry: client.RetryPolicy{
			MaxRetries:  cfg.Poller.MaxRetries,
			BaseBackoff: cfg.Poller.BaseBackoff,
			MaxBackoff:  cfg.Poller.MaxBackoff,
		},
	}, zapLogger)

	// 初始化处理器
	apiHandler := handler.NewAPIHandler(st, sessionService, variables, cfg.Server.Name, zapLogger)
	chatHandler := handler.NewChatHandler(chatService, zapLogger)
	wsHandler := handler.NewWebSocketHandler(sessionService, chatService, st, cfg.CORS.AllowedOrigins, zapLogger)

	// 初始化路由
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(zapLogger), middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/ws", wsHandler.HandleWebSocket)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.GET("/health", apiHandler.Health)
	api.GET("/readings/latest", apiHandler.Latest)
	api.GET("/readings/:variable/history", apiHandler.History)
	api.GET("/status", apiHandler.Status)
	api.GET("/packages", apiHandler.Packages)
	api.GET("/chat/questions", chatHandler.Questions)
	api.POST("/chat", chatHandler.Ask)

	// 后台任务
	go sessionService.RunHeartbeatChecker(ctx)
	go func() {
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("轮询异常退出", zap.Error(err))
		}
	}()

	// 启动服务
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("服务启动失败", zap.Error(err))
		}
	}()
	zapLogger.Info("dashboard 服务启动成功", zap.Int("port", cfg.Server.Port))

	<-ctx.Done()
	zapLogger.Info("dashboard 服务关闭中...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("服务关闭失败", zap.Error(err))
	}
}

func newStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		redisClient, err := redis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(redisClient, cfg.Ubidots.DeviceLabel, cfg.Store.HistorySize, zapLogger), nil
	case "memory":
		return store.NewMemoryStore(cfg.Store.HistorySize, zapLogger), nil
	default:
		return nil, fmt.Errorf("未知存储类型: %s", cfg.Store.Backend)
	}
}
