package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cacheadapter "github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/cache"
	dbadapter "github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/db"
	httpadapter "github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http/handlers"
	httpmiddleware "github.com/nemanjaninkovic-1/rust-tracker/internal/adapter/http/middleware"
	appservice "github.com/nemanjaninkovic-1/rust-tracker/internal/app/service"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/config"
	"github.com/nemanjaninkovic-1/rust-tracker/internal/core/ports"
	"github.com/nemanjaninkovic-1/rust-tracker/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()

	var taskRepository ports.TaskRepository = dbadapter.NewTaskRepository(db)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		taskRepository = cacheadapter.NewTaskCache(taskRepository, redisClient)
		logger.Info("task cache enabled", zap.String("redis_addr", cfg.RedisAddr))
	}

	taskService := appservice.NewTaskService(taskRepository)
	taskHandler := handlers.NewTaskHandler(taskService)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}
	httpadapter.RegisterRoutes(r, healthHandler, taskHandler)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
