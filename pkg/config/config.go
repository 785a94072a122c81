package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvDatabasePath = "DATABASE_PATH"
	EnvHost         = "VIEWER_HOST"
	EnvPort         = "VIEWER_PORT"
	EnvDebug        = "VIEWER_DEBUG"
)

// Config 应用配置
type Config struct {
	Server         ServerConfig         `ini:"server" yaml:"server"`
	Database       DatabaseConfig       `ini:"database" yaml:"database"`
	RateLimit      RateLimitConfig      `ini:"ratelimit" yaml:"ratelimit"`
	CircuitBreaker CircuitBreakerConfig `ini:"circuitbreaker" yaml:"circuitbreaker"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host      string `ini:"host" yaml:"host"`             // 绑定地址
	Port      int    `ini:"port" yaml:"port"`             // 服务端口
	Debug     bool   `ini:"debug" yaml:"debug"`           // debug日志与gin调试模式
	StaticDir string `ini:"static_dir" yaml:"static_dir"` // 前端静态文件目录，可为空
	LogFile   string `ini:"log_file" yaml:"log_file"`     // 日志文件，可为空
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path         string `ini:"path" yaml:"path"`                   // SQLite 文件路径
	BusyTimeout  int    `ini:"busy_timeout" yaml:"busy_timeout"`   // 等待锁的超时时间（秒）
	DefaultLimit int    `ini:"default_limit" yaml:"default_limit"` // 默认返回行数
	MaxLimit     int    `ini:"max_limit" yaml:"max_limit"`         // 单次请求最大行数
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool `ini:"enabled" yaml:"enabled"`
	QPS     int  `ini:"qps" yaml:"qps"`     // 每秒允许的请求数
	Burst   int  `ini:"burst" yaml:"burst"` // 允许的突发请求数
}

// CircuitBreakerConfig 熔断配置
type CircuitBreakerConfig struct {
	Enabled          bool    `ini:"enabled" yaml:"enabled"`
	FailureThreshold float64 `ini:"failure_threshold" yaml:"failure_threshold"` // 失败率阈值
	MinRequests      int     `ini:"min_requests" yaml:"min_requests"`           // 最小请求数
	TimeoutSeconds   int     `ini:"timeout_seconds" yaml:"timeout_seconds"`     // 熔断持续时间
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Database: DatabaseConfig{
			Path:         "./data/database.sqlite",
			BusyTimeout:  10,
			DefaultLimit: 100,
			MaxLimit:     10000,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			QPS:     200,
			Burst:   400,
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 0.5,
			MinRequests:      20,
			TimeoutSeconds:   30,
		},
	}
}

// LoadConfig 加载配置文件
// 按扩展名选择格式：.yaml/.yml 使用yaml，其余按ini解析
// filePath 为空时只使用默认值和环境变量
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		if err := loadFile(cfg, filePath); err != nil {
			logrus.Errorf("Failed to load config file: %v", err)
			return nil, err
		}
		logrus.Infof("Config loaded successfully from: %s", filePath)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, filePath string) error {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
		return nil
	default:
		if err := ini.MapTo(cfg, filePath); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
		return nil
	}
}

// ApplyEnv 使用环境变量覆盖配置
// lookup 一般为 os.LookupEnv，测试时可替换
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDatabasePath); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvDebug); ok && v != "" {
		c.Server.Debug = strings.EqualFold(v, "true") || v == "1"
	}
	return nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.BusyTimeout <= 0 {
		return fmt.Errorf("busy_timeout must be positive, got %d", c.Database.BusyTimeout)
	}
	if c.Database.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", c.Database.DefaultLimit)
	}
	if c.Database.MaxLimit < c.Database.DefaultLimit {
		return fmt.Errorf("max_limit (%d) must not be less than default_limit (%d)", c.Database.MaxLimit, c.Database.DefaultLimit)
	}
	return nil
}

// Addr 返回监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LockTimeout 返回锁等待超时
func (d DatabaseConfig) LockTimeout() time.Duration {
	return time.Duration(d.BusyTimeout) * time.Second
}
