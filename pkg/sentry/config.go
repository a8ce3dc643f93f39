package sentry

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// Config Sentry 配置，DSN 为空时不上报
type Config struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	Release     string `mapstructure:"release"`
	ServerName  string `mapstructure:"server_name"`

	// SampleRate 错误采样率 (0.0-1.0)
	SampleRate float64 `mapstructure:"sample_rate"`

	AttachStacktrace bool `mapstructure:"attach_stacktrace"`
	MaxBreadcrumbs   int  `mapstructure:"max_breadcrumbs"`

	// ShutdownTimeout Close 时等待事件发送完成的时间
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	Debug bool `mapstructure:"debug"`

	// Tags 附加到每个事件的标签
	Tags map[string]string `mapstructure:"tags"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Environment:      "production",
		SampleRate:       1.0,
		AttachStacktrace: true,
		MaxBreadcrumbs:   100,
		ShutdownTimeout:  2 * time.Second,
	}
}

// Enabled 是否配置了 DSN
func (c *Config) Enabled() bool {
	return c != nil && c.DSN != ""
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.DSN == "" {
		return ErrInvalidDSN
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return ErrInvalidConfig
	}
	if c.MaxBreadcrumbs < 0 {
		return ErrInvalidConfig
	}
	return nil
}

func (c *Config) toClientOptions() sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:              c.DSN,
		Environment:      c.Environment,
		Release:          c.Release,
		ServerName:       c.ServerName,
		SampleRate:       c.SampleRate,
		AttachStacktrace: c.AttachStacktrace,
		MaxBreadcrumbs:   c.MaxBreadcrumbs,
		Debug:            c.Debug,
	}
}
