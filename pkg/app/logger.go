package app

import (
	"fmt"
	"sync"

	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
)

// LoggerRegistry 具名日志对象
// loggers 配置段中有同名配置时按配置单独创建（例如 job 日志单独写文件），否则从主日志派生
type LoggerRegistry struct {
	mu       sync.Mutex
	configs  map[string]*logger.Config
	fallback logger.Logger
	loggers  map[string]logger.Logger
}

func NewLoggerRegistry(configs map[string]*logger.Config, fallback logger.Logger) *LoggerRegistry {
	if fallback == nil {
		fallback = logger.Default()
	}
	return &LoggerRegistry{
		configs:  configs,
		fallback: fallback,
		loggers:  make(map[string]logger.Logger),
	}
}

// Get 同名只创建一次
func (r *LoggerRegistry) Get(name string) (logger.Logger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l, nil
	}

	var l logger.Logger = r.fallback.Named(name)
	if cfg, ok := r.configs[name]; ok && cfg != nil {
		created, err := logger.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("create logger %s: %w", name, err)
		}
		l = created.Named(name)
	}
	r.loggers[name] = l
	return l, nil
}

// SyncAll 刷新所有已创建的日志对象
func (r *LoggerRegistry) SyncAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.loggers {
		_ = l.Sync()
	}
}
