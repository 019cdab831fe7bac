package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"hermandad/config"
	"hermandad/internal/api"
	"hermandad/internal/repository"
	"hermandad/internal/service"
	"hermandad/pkg/database"
	"hermandad/pkg/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 初始化日志
	logger := logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFile)
	defer logger.Close()

	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	// 初始化数据库连接
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("无法链接到数据库", "driver", cfg.Database.Driver, err)
	}
	defer db.Close()

	// Redis可选，未配置时不使用缓存
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("无法链接到Redis", err)
		}
		defer redisClient.Close()
	}

	// 确保director账号存在
	userService := service.NewUserService(repository.NewUserRepository(db), cfg.StoreTimeout, logger)
	if _, err := userService.EnsureDirector(context.Background(), cfg.Director.Username, cfg.Director.Password); err != nil {
		logger.Fatal("创建director账号失败", err)
	}

	// 初始化路由
	router, err := api.SetupRouter(cfg, logger, db, redisClient)
	if err != nil {
		logger.Fatal("初始化路由失败", err)
	}

	// 创建HTTP服务器
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.APIPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info("服务器启动", "port", cfg.APIPort, "db_driver", cfg.Database.Driver, "cache", cfg.Redis.Enabled())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("启动服务器失败", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("服务器被强制关闭", err)
	}

	logger.Info("服务器已正常退出")
}
