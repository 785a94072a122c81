package middleware

import (
	"net/http"
	"strings"
	"sync"

	"SqliteViewer/pkg/common"
	"SqliteViewer/pkg/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// 路由分组，限流和熔断按组独立统计
const (
	GroupTable    = "table"
	GroupDatabase = "database"
	GroupDefault  = "default"
)

// RouteGroup 根据路径获取分组名称
func RouteGroup(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/table/"):
		return GroupTable
	case strings.HasPrefix(path, "/api/database"):
		return GroupDatabase
	default:
		return GroupDefault
	}
}

// TokenBucketLimiter 令牌桶限流器
type TokenBucketLimiter struct {
	limiter *rate.Limiter
}

// NewTokenBucketLimiter 创建令牌桶限流器
// qps: 每秒允许的请求数
// burst: 允许的突发请求数
func NewTokenBucketLimiter(qps int, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		limiter: rate.NewLimiter(rate.Limit(qps), burst),
	}
}

// Allow 检查是否允许请求
func (l *TokenBucketLimiter) Allow() bool {
	return l.limiter.Allow()
}

// RateLimitStats 限流统计
type RateLimitStats struct {
	TotalRequests   int64 `json:"total_requests"`
	AllowedRequests int64 `json:"allowed_requests"`
	BlockedRequests int64 `json:"blocked_requests"`
	mu              sync.RWMutex
}

// RecordRequest 记录请求
func (s *RateLimitStats) RecordRequest(allowed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalRequests++
	if allowed {
		s.AllowedRequests++
	} else {
		s.BlockedRequests++
	}
}

// GetStats 获取统计信息
func (s *RateLimitStats) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blockRate := 0.0
	if s.TotalRequests > 0 {
		blockRate = float64(s.BlockedRequests) / float64(s.TotalRequests) * 100
	}
	return map[string]interface{}{
		"total_requests":   s.TotalRequests,
		"allowed_requests": s.AllowedRequests,
		"blocked_requests": s.BlockedRequests,
		"block_rate":       blockRate,
	}
}

// RateLimiter 按路由分组的限流器
type RateLimiter struct {
	limiters map[string]*TokenBucketLimiter
	stats    map[string]*RateLimitStats
	mu       sync.RWMutex
}

// NewRateLimiter 根据配置创建限流器，每个分组一个令牌桶
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	l := &RateLimiter{
		limiters: make(map[string]*TokenBucketLimiter),
		stats:    make(map[string]*RateLimitStats),
	}
	for _, name := range []string{GroupTable, GroupDatabase, GroupDefault} {
		l.AddLimiter(name, cfg.QPS, cfg.Burst)
	}
	return l
}

// AddLimiter 添加或替换分组的限流器
func (l *RateLimiter) AddLimiter(name string, qps int, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[name] = NewTokenBucketLimiter(qps, burst)
	if _, ok := l.stats[name]; !ok {
		l.stats[name] = &RateLimitStats{}
	}
}

// GetLimiter 获取限流器，未知分组使用默认限流器
func (l *RateLimiter) GetLimiter(name string) (*TokenBucketLimiter, *RateLimitStats) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limiter, ok := l.limiters[name]; ok {
		return limiter, l.stats[name]
	}
	return l.limiters[GroupDefault], l.stats[GroupDefault]
}

// Middleware 限流中间件
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter, stats := l.GetLimiter(RouteGroup(c.Request.URL.Path))

		allowed := limiter.Allow()
		stats.RecordRequest(allowed)
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				common.NewErrorResponse("too many requests, rate limit exceeded").WithType("RateLimited"))
			return
		}

		c.Next()
	}
}

// GetAllStats 获取所有分组的限流统计
func (l *RateLimiter) GetAllStats() map[string]interface{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := make(map[string]interface{}, len(l.stats))
	for name, s := range l.stats {
		stats[name] = s.GetStats()
	}
	return stats
}
