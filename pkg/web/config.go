package web

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Config Web 服务配置
type Config struct {
	// Enabled 为 false 时 Start 不监听
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Mode         string        `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout 优雅关闭等待时间
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	EnableCORS bool `mapstructure:"enable_cors"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig 按客户端 IP 限流，RequestsPerSecond 为 0 时不限流
type RateLimitConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int           `mapstructure:"burst" validate:"gte=0"`
	MaxClients        int           `mapstructure:"max_clients"`
	ClientTTL         time.Duration `mapstructure:"client_ttl"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8081",
		Mode:            gin.ReleaseMode,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		RateLimit: RateLimitConfig{
			Burst:      10,
			MaxClients: 1024,
			ClientTTL:  10 * time.Minute,
		},
	}
}
