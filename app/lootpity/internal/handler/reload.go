package handler

import (
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/service"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
)

// PitySection 配置文件中保底参数所在的段
const PitySection = "pity"

// WatchPityConfig 监听配置文件，pity 段变化后更新 job
// 修改后无效的参数会被忽略，job 继续使用旧配置
func WatchPityConfig(path string, envPrefix string, job *Job, l logger.Logger) (*config.Watcher[service.PityConfig], error) {
	if l == nil {
		l = logger.NewNoop()
	}
	l = l.Named("handler.reload")

	mgrOpts := []config.Option{
		config.WithDefaults(service.PityConfigDefaults(PitySection)),
		config.WithEnvPrefix(envPrefix),
	}
	w, err := config.NewWatcher[service.PityConfig](path, PitySection, mgrOpts,
		config.WithReloadHook(func(cfg *service.PityConfig) error {
			return cfg.Validate()
		}),
		config.WithErrorHandler[service.PityConfig](func(err error) {
			l.Warn("ignoring invalid pity config", "path", path, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}

	w.OnChange(func(cfg *service.PityConfig) {
		if err := job.UpdatePityConfig(*cfg); err != nil {
			l.Warn("failed to apply pity config", "error", err)
		}
	})
	return w, nil
}
