package handler

import (
	"net/http"
	"path/filepath"

	"SqliteViewer/internal/middleware"
	"SqliteViewer/pkg/common"
	"SqliteViewer/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRouter 注册路由和中间件
func SetupRouter(h *ViewerHandler, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit)
		r.Use(limiter.Middleware())
		logrus.Infof("[Router] Rate limit enabled: %d qps, burst %d", cfg.RateLimit.QPS, cfg.RateLimit.Burst)
	}
	var breakers *middleware.CircuitBreakers
	if cfg.CircuitBreaker.Enabled {
		breakers = middleware.NewCircuitBreakers(cfg.CircuitBreaker)
		r.Use(breakers.Middleware())
		logrus.Infof("[Router] Circuit breaker enabled: threshold %.2f", cfg.CircuitBreaker.FailureThreshold)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/tables", h.Tables)
		api.GET("/table/:name", h.TablePage)
		api.GET("/table/:name/info", h.TableInfo)
		api.GET("/database/info", h.DatabaseInfo)
	}

	// 监控接口
	r.GET("/monitor/status", func(c *gin.Context) {
		data := gin.H{}
		if limiter != nil {
			data["rate_limit"] = limiter.GetAllStats()
		}
		if breakers != nil {
			data["circuit_breaker"] = breakers.GetAllStats()
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(data))
	})

	if dir := cfg.Server.StaticDir; dir != "" {
		r.Static("/static", dir)
		r.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(dir, "index.html"))
		})
		logrus.Infof("[Router] Serving static files from %s", dir)
	}

	return r
}
