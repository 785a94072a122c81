package middleware

import (
	"net/http"
	"sync"
	"time"

	"SqliteViewer/pkg/common"
	"SqliteViewer/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CircuitState 熔断器状态
type CircuitState int

const (
	StateClosed   CircuitState = iota // 关闭状态（正常）
	StateOpen                         // 打开状态（熔断）
	StateHalfOpen                     // 半开状态（探测）
)

func (s CircuitState) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "CLOSED"
	}
}

// BreakerSettings 单个熔断器的参数
type BreakerSettings struct {
	MaxRequests      uint32        // 半开状态允许的最大请求数
	Interval         time.Duration // 统计时间窗口
	Timeout          time.Duration // 熔断持续时间
	FailureThreshold float64       // 失败率阈值
	MinRequestCount  uint32        // 最小请求数（低于此数不熔断）
	SuccessThreshold uint32        // 半开状态连续成功次数阈值
}

// SettingsFromConfig 由配置生成熔断参数
func SettingsFromConfig(cfg config.CircuitBreakerConfig) BreakerSettings {
	return BreakerSettings{
		MaxRequests:      5,
		Interval:         60 * time.Second,
		Timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
		FailureThreshold: cfg.FailureThreshold,
		MinRequestCount:  uint32(cfg.MinRequests),
		SuccessThreshold: 3,
	}
}

// Counts 统计计数
type Counts struct {
	Requests             uint32
	Successes            uint32
	Failures             uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFails     uint32
	LastResetTime        time.Time
}

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	name     string
	settings BreakerSettings
	state    CircuitState
	counts   Counts
	mu       sync.Mutex

	stateChangedAt time.Time
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, settings BreakerSettings) *CircuitBreaker {
	now := time.Now()
	return &CircuitBreaker{
		name:           name,
		settings:       settings,
		state:          StateClosed,
		counts:         Counts{LastResetTime: now},
		stateChangedAt: now,
	}
}

// Allow 检查是否允许请求
// 打开状态超过熔断时间后转为半开，半开状态限制探测请求数
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.stateChangedAt) < cb.settings.Timeout {
			return false
		}
		cb.setState(StateHalfOpen)
		logrus.Infof("[CircuitBreaker] %s changed to HALF_OPEN state", cb.name)
		cb.counts.Requests++
		return true
	case StateHalfOpen:
		if cb.counts.Requests >= cb.settings.MaxRequests {
			return false
		}
		cb.counts.Requests++
		return true
	}
	return true
}

// Record 记录请求结果
func (cb *CircuitBreaker) Record(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateClosed {
		if time.Since(cb.counts.LastResetTime) > cb.settings.Interval {
			cb.resetCounts()
		}
		cb.counts.Requests++
	}

	if success {
		cb.counts.Successes++
		cb.counts.ConsecutiveSuccesses++
		cb.counts.ConsecutiveFails = 0

		if cb.state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.settings.SuccessThreshold {
			cb.setState(StateClosed)
			logrus.Infof("[CircuitBreaker] %s recovered to CLOSED state", cb.name)
		}
		return
	}

	cb.counts.Failures++
	cb.counts.ConsecutiveFails++
	cb.counts.ConsecutiveSuccesses = 0

	switch {
	case cb.state == StateHalfOpen:
		cb.setState(StateOpen)
		logrus.Warnf("[CircuitBreaker] %s probe failed, back to OPEN state", cb.name)
	case cb.shouldTrip():
		cb.setState(StateOpen)
		logrus.Warnf("[CircuitBreaker] %s tripped to OPEN state", cb.name)
	}
}

// shouldTrip 请求数足够且失败率达到阈值
func (cb *CircuitBreaker) shouldTrip() bool {
	if cb.counts.Requests < cb.settings.MinRequestCount {
		return false
	}
	failureRate := float64(cb.counts.Failures) / float64(cb.counts.Requests)
	return failureRate >= cb.settings.FailureThreshold
}

func (cb *CircuitBreaker) setState(state CircuitState) {
	cb.state = state
	cb.stateChangedAt = time.Now()
	cb.resetCounts()
}

func (cb *CircuitBreaker) resetCounts() {
	cb.counts = Counts{LastResetTime: time.Now()}
}

// State 获取当前状态
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// GetStats 获取统计信息
func (cb *CircuitBreaker) GetStats() map[string]interface{} {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failureRate := 0.0
	if cb.counts.Requests > 0 {
		failureRate = float64(cb.counts.Failures) / float64(cb.counts.Requests) * 100
	}

	return map[string]interface{}{
		"name":                  cb.name,
		"state":                 cb.state.String(),
		"requests":              cb.counts.Requests,
		"successes":             cb.counts.Successes,
		"failures":              cb.counts.Failures,
		"failure_rate":          failureRate,
		"consecutive_successes": cb.counts.ConsecutiveSuccesses,
		"consecutive_fails":     cb.counts.ConsecutiveFails,
		"state_changed_at":      cb.stateChangedAt.Format("2006-01-02 15:04:05"),
	}
}

// CircuitBreakers 按路由分组的熔断器
type CircuitBreakers struct {
	breakers map[string]*CircuitBreaker
	mu       sync.RWMutex
}

// NewCircuitBreakers 根据配置为每个分组创建熔断器
func NewCircuitBreakers(cfg config.CircuitBreakerConfig) *CircuitBreakers {
	m := &CircuitBreakers{breakers: make(map[string]*CircuitBreaker)}
	settings := SettingsFromConfig(cfg)
	for _, name := range []string{GroupTable, GroupDatabase, GroupDefault} {
		m.AddBreaker(name, settings)
	}
	return m
}

// AddBreaker 添加或替换熔断器
func (m *CircuitBreakers) AddBreaker(name string, settings BreakerSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breakers[name] = NewCircuitBreaker(name, settings)
}

// GetBreaker 获取熔断器，未知分组使用默认熔断器
func (m *CircuitBreakers) GetBreaker(name string) *CircuitBreaker {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if breaker, ok := m.breakers[name]; ok {
		return breaker
	}
	return m.breakers[GroupDefault]
}

// Middleware 熔断器中间件，5xx 响应计为失败
func (m *CircuitBreakers) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := RouteGroup(c.Request.URL.Path)
		breaker := m.GetBreaker(name)

		if !breaker.Allow() {
			logrus.Warnf("[CircuitBreaker] Request blocked by circuit breaker: %s", name)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				common.NewErrorResponse("service unavailable, circuit breaker is open").WithType("CircuitOpen"))
			return
		}

		c.Next()

		breaker.Record(c.Writer.Status() < http.StatusInternalServerError)
	}
}

// GetAllStats 获取所有熔断器统计
func (m *CircuitBreakers) GetAllStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[string]interface{}, len(m.breakers))
	for name, breaker := range m.breakers {
		stats[name] = breaker.GetStats()
	}
	return stats
}
