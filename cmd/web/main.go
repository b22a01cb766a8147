package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mess-web/internal/core/auth"
	"mess-web/internal/core/cache"
	"mess-web/internal/core/config"
	"mess-web/internal/core/logger"
	"mess-web/internal/core/server"
	"mess-web/internal/session"
	"mess-web/internal/transport/http/router"
	"mess-web/internal/upstream"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := buildLogger(cfg.Log)
	defer cleanup()

	// 上游后端：所有实体数据的归属方，这里只是门面
	up := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout(), log)
	log.Info("upstream configured", zap.String("base_url", cfg.Upstream.BaseURL))

	// 读缓存：redis 关掉时退化成进程内存
	var store cache.Store
	if cfg.Redis.Enabled {
		store = cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("cache: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		store = cache.NewMemoryStore()
		log.Info("cache: in-memory")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		Leeway: cfg.JWT.Leeway(),
	}
	sessions := session.NewManager(jwter, cfg.Session.CookieDomain, cfg.Session.Secure)

	r := router.NewWebEngine(router.Deps{
		Log:         log,
		Upstream:    up,
		Cache:       cache.New(store),
		Sessions:    sessions,
		CORSOrigins: cfg.App.CORSOrigins,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("mess web starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("mess web start FAILED", zap.Error(err))
		}
	}()
	log.Info("mess web started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("mess web stopped gracefully")
}

// 日志轮转开了就双写（stdout + 滚动文件），没开只打 stdout
func buildLogger(lc config.Log) (*zap.Logger, func()) {
	if !lc.Rotate.Enabled {
		return logger.New(lc.Level, lc.JSON)
	}
	return logger.NewWithRotate(lc.Level, lc.JSON, logger.FileRotate{
		Filename:   lc.Rotate.Filename,
		MaxSizeMB:  lc.Rotate.MaxSizeMB,
		MaxBackups: lc.Rotate.MaxBackups,
		MaxAgeDays: lc.Rotate.MaxAgeDays,
		Compress:   lc.Rotate.Compress,
	})
}
