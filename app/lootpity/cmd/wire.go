//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/gamedata"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/handler"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/metrics"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/service"
	"github.com/lk2023060901/xdooria-lootpity/pkg/app"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
	"github.com/lk2023060901/xdooria-lootpity/pkg/prometheus"
)

var jobSet = wire.NewSet(
	// 1. 数据来源
	provideGameDataConfig,
	gamedata.NewLoader,
	wire.Bind(new(handler.GameData), new(*gamedata.Loader)),

	// 2. 指标
	providePrometheusConfig,
	prometheus.New,
	metrics.New,

	// 3. 存储（store.enabled 为 false 时为 nil）
	provideRedisClient,
	provideLootTableDAO,
	provideSnapshotStore,

	// 4. 服务与任务
	provideLoggerRegistry,
	provideReporter,
	service.NewPityService,
	provideJobConfig,
	providePityConfig,
	provideJob,
)

func InitApp(cfg *Config, l logger.Logger) (*app.BaseApp, func(), error) {
	panic(wire.Build(
		app.ProviderSet,
		jobSet,

		// 5. 定时调度、管理接口与热更新
		handler.NewScheduler,
		provideSnapshotReader,
		handler.NewAdminHandler,
		provideAdminConfig,
		provideAdminServer,
		providePityWatcher,

		// 6. 组装
		provideAppOptions,
		provideAppComponents,
		app.InitApp,
	))
}

func InitJob(cfg *Config, l logger.Logger) (*handler.Job, func(), error) {
	panic(wire.Build(jobSet))
}
