package api

import (
	"fmt"
	"net/http"

	"hermandad/config"
	"hermandad/internal/api/handler"
	"hermandad/internal/cache"
	"hermandad/internal/middleware"
	"hermandad/internal/model"
	"hermandad/internal/repository"
	"hermandad/internal/service"
	"hermandad/internal/session"
	"hermandad/pkg/logger"
	"hermandad/pkg/upload"
	"hermandad/web"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// 表单除文件以外允许的额外字节数
const formOverhead = 1 << 20

// SetupRouter 设置路由，redisClient 为 nil 时不启用缓存
func SetupRouter(cfg *config.Config, logger *logger.Logger, db *sqlx.DB, redisClient *redis.Client) (*gin.Engine, error) {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	var itemCache cache.Cache = cache.Nop{}
	if redisClient != nil {
		itemCache = cache.NewRedisCache(redisClient, cache.DefaultTTL, logger)
	}

	// 初始化存储库
	itemRepo := repository.NewItemRepository(db)
	userRepo := repository.NewUserRepository(db)

	// 初始化服务
	storage := upload.NewStorage(cfg.Upload.StaticDir, cfg.Upload.MaxBytes)
	itemService := service.NewItemService(itemRepo, itemCache, cfg.StoreTimeout, logger)
	publishService := service.NewPublishService(itemRepo, storage, itemCache, cfg.Timezone, cfg.StoreTimeout, logger)
	userService := service.NewUserService(userRepo, cfg.StoreTimeout, logger)

	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.MaxAge, cfg.Session.Secure)

	// 初始化处理器
	itemHandler := handler.NewItemHandler(itemService, sessions, logger)
	authHandler := handler.NewAuthHandler(userService, sessions, logger)
	panelHandler := handler.NewPanelHandler(publishService, sessions, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.Static("/static", cfg.Upload.StaticDir)

	router.GET("/", itemHandler.Index)
	router.GET("/noticia/:id", itemHandler.Detail)

	router.GET(middleware.LoginPath, authHandler.LoginForm)
	router.POST(middleware.LoginPath, authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	panel := router.Group("/panel", middleware.RequireSession(sessions))
	{
		panel.GET("", panelHandler.Panel)
		panel.POST("",
			middleware.RequireRole(sessions, model.RoleDirector, "/panel"),
			middleware.LimitBody(cfg.Upload.MaxBytes+formOverhead),
			panelHandler.Publish,
		)
	}

	return router, nil
}
