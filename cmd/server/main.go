package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"punchdesk/config"
	"punchdesk/internal/api/handler"
	"punchdesk/internal/api/router"
	"punchdesk/internal/repository"
	"punchdesk/internal/service"
	"punchdesk/internal/upstream"
	"punchdesk/pkg/database"
	"punchdesk/pkg/inflight"
	"punchdesk/pkg/jwt"
	applogger "punchdesk/pkg/logger"
	"punchdesk/pkg/metrics"
	"punchdesk/pkg/redis"
)

// tokenLeeway Token 过期判断允许的时钟偏差
const tokenLeeway = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认 ./config/config.yaml）")
	flag.Parse()

	// 0. 加载 .env（不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("default_timezone", cfg.Report.DefaultTimezone),
	)

	// 3. 连接数据库（可选：仅用于审计日志）
	var db *gorm.DB
	if cfg.Database.Enabled {
		db, err = database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}

		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
	} else {
		logger.Info("未启用数据库，审计日志不落库")
	}

	// 4. 连接 Redis（可选：连接失败时降级为进程内操作锁，限流放行）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，操作锁降级为进程内实现", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 指标
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// 6. 依赖注入: Repository / Upstream → Service → Handler
	repo := repository.NewRepository(db)
	api := upstream.NewClient(&cfg.Upstream, logger, m)
	svc := service.NewService(service.Deps{
		Cfg:     cfg,
		Repo:    repo,
		API:     api,
		Guard:   inflight.New(rdb, cfg.Redis.LockTTL, logger),
		Metrics: m,
		Logger:  logger,
	})
	h := handler.NewHandler(svc, logger)

	// 7. 初始化路由
	engine := router.Setup(router.Deps{
		Cfg:       cfg,
		Handler:   h,
		Auth:      svc.Auth,
		Inspector: jwt.NewInspector(tokenLeeway),
		Redis:     rdb,
		Metrics:   m,
		Gatherer:  reg,
		Logger:    logger,
	})

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if db != nil {
		if closeDB, _ := db.DB(); closeDB != nil {
			closeDB.Close()
		}
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
