package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mess-web/internal/core/cache"
	"mess-web/internal/session"
	mdw "mess-web/internal/transport/http/middleware"
	"mess-web/internal/upstream"
)

// Deps 引擎装配需要的全部外部依赖
type Deps struct {
	Log      *zap.Logger
	Upstream *upstream.Client
	Cache    *cache.Cache
	Sessions *session.Manager
	// CORSOrigins 为空则不开 CORS（同源部署）
	CORSOrigins []string
}

func NewWebEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(15*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.LoadSession(d.Sessions),
		mdw.AccessLog(d.Log),
	)
	if len(d.CORSOrigins) > 0 {
		// cookie 会话必须 credentials + 显式 origin
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	reset()
	Register(&AuthModule{Up: d.Upstream, Sessions: d.Sessions, Cache: d.Cache})
	Register(&DashboardModule{Up: d.Upstream, Sessions: d.Sessions})
	Register(&AdminModule{Up: d.Upstream, Sessions: d.Sessions, Cache: d.Cache})
	Register(&MessModule{Up: d.Upstream, Sessions: d.Sessions, Cache: d.Cache})
	Register(&BazarModule{Up: d.Upstream, Sessions: d.Sessions, Cache: d.Cache})
	MountAll(api)

	return r
}
