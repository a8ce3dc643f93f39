package main

import (
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/dao"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/gamedata"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/handler"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/metrics"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/service"
	"github.com/lk2023060901/xdooria-lootpity/pkg/app"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
	"github.com/lk2023060901/xdooria-lootpity/pkg/database/redis"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
	"github.com/lk2023060901/xdooria-lootpity/pkg/prometheus"
	"github.com/lk2023060901/xdooria-lootpity/pkg/sentry"
	"github.com/lk2023060901/xdooria-lootpity/pkg/web"
)

// PityWatcher pity 段热更新
type PityWatcher = config.Watcher[service.PityConfig]

func provideGameDataConfig(cfg *Config) *gamedata.Config {
	return &cfg.GameData
}

func providePrometheusConfig(cfg *Config) *prometheus.Config {
	return &cfg.Prometheus
}

func provideJobConfig(cfg *Config) *handler.JobConfig {
	return &cfg.Job
}

func providePityConfig(cfg *Config) service.PityConfig {
	return cfg.Pity
}

// provideRedisClient 未启用存储时返回 nil
func provideRedisClient(cfg *Config) (*redis.Client, func(), error) {
	if !cfg.Store.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideLootTableDAO 未启用存储时返回 nil
func provideLootTableDAO(cfg *Config, rdb *redis.Client, l logger.Logger, m *metrics.JobMetrics) (*dao.LootTableDAO, error) {
	if rdb == nil {
		return nil, nil
	}
	return dao.NewLootTableDAO(rdb, &cfg.Store, l, m)
}

func provideSnapshotStore(d *dao.LootTableDAO) handler.SnapshotStore {
	if d == nil {
		return nil
	}
	return d
}

func provideSnapshotReader(d *dao.LootTableDAO) handler.SnapshotReader {
	if d == nil {
		return nil
	}
	return d
}

// provideReporter 未配置 dsn 时返回 nil 接口
func provideReporter(cfg *Config) (handler.ErrorReporter, func(), error) {
	if !cfg.Sentry.Enabled() {
		return nil, func() {}, nil
	}
	client, err := sentry.New(&cfg.Sentry)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideLoggerRegistry loggers 段中配置的组件日志单独输出
func provideLoggerRegistry(cfg *Config, l logger.Logger) (*app.LoggerRegistry, func()) {
	registry := app.NewLoggerRegistry(cfg.Loggers, l)
	return registry, registry.SyncAll
}

func provideJob(
	jobCfg *handler.JobConfig,
	pityCfg service.PityConfig,
	data handler.GameData,
	store handler.SnapshotStore,
	pity *service.PityService,
	m *metrics.JobMetrics,
	reporter handler.ErrorReporter,
	loggers *app.LoggerRegistry,
) (*handler.Job, func(), error) {
	l, err := loggers.Get("job")
	if err != nil {
		return nil, nil, err
	}
	job, err := handler.NewJob(jobCfg, pityCfg, data, store, pity, m, l)
	if err != nil {
		return nil, nil, err
	}
	if reporter != nil {
		job.SetReporter(reporter)
	}
	return job, func() { _ = job.Close() }, nil
}

func providePityWatcher(job *handler.Job, l logger.Logger) (*PityWatcher, error) {
	return handler.WatchPityConfig(app.GetConfigPath(), app.EnvPrefix, job, l)
}

func provideAdminConfig(cfg *Config) *web.Config {
	return &cfg.Admin
}

// provideAdminServer 创建管理接口并注册路由
func provideAdminServer(cfg *web.Config, admin *handler.AdminHandler, l logger.Logger) (*web.Server, error) {
	srv, err := web.NewServer(cfg, l)
	if err != nil {
		return nil, err
	}
	admin.Register(srv.Router())
	return srv, nil
}

func provideAppOptions(l logger.Logger) []app.Option {
	return []app.Option{
		app.WithName(app.AppName),
		app.WithLogger(l),
	}
}

// provideAppComponents watcher 只需要被创建，随进程退出
func provideAppComponents(
	scheduler *handler.Scheduler,
	promClient *prometheus.Client,
	adminServer *web.Server,
	_ *PityWatcher,
) app.AppComponents {
	return app.AppComponents{
		Servers: []app.Server{
			promClient,
			adminServer,
			scheduler,
		},
	}
}
