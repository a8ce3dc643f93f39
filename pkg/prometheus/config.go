package prometheus

import "time"

// Config Prometheus 配置
type Config struct {
	// Namespace 指标前缀，例如 lootpity_job_passes_total
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`

	HTTPServer HTTPServerConfig `mapstructure:"http_server"`

	EnableGoCollector      bool `mapstructure:"enable_go_collector"`
	EnableProcessCollector bool `mapstructure:"enable_process_collector"`
}

// HTTPServerConfig 独立的指标 HTTP 服务
type HTTPServerConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Namespace: "lootpity",
		HTTPServer: HTTPServerConfig{
			Enabled: false,
			Addr:    ":9090",
			Path:    "/metrics",
			Timeout: 10 * time.Second,
		},
		EnableGoCollector:      true,
		EnableProcessCollector: true,
	}
}

func (c *Config) Validate() error {
	if c.Namespace == "" {
		return ErrInvalidConfig
	}
	if c.HTTPServer.Enabled && c.HTTPServer.Addr == "" {
		return ErrInvalidConfig
	}
	return nil
}
