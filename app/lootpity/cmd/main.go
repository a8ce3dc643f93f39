package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/dao"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/gamedata"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/handler"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/service"
	"github.com/lk2023060901/xdooria-lootpity/pkg/app"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
	"github.com/lk2023060901/xdooria-lootpity/pkg/database/redis"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
	"github.com/lk2023060901/xdooria-lootpity/pkg/prometheus"
	"github.com/lk2023060901/xdooria-lootpity/pkg/sentry"
	"github.com/lk2023060901/xdooria-lootpity/pkg/web"
	"github.com/spf13/pflag"
)

// Config lootpity 服务的完整配置
type Config struct {
	Log     logger.Config             `mapstructure:"log"`
	Loggers map[string]*logger.Config `mapstructure:"loggers"`

	// 掉落表与玩家数据目录
	GameData gamedata.Config `mapstructure:"gamedata"`

	// 保底参数，支持热更新
	Pity service.PityConfig `mapstructure:"pity"`

	// 重算任务
	Job handler.JobConfig `mapstructure:"job"`

	// 重算结果存储
	Store dao.StoreConfig `mapstructure:"store"`
	Redis redis.Config    `mapstructure:"redis"`

	Prometheus prometheus.Config `mapstructure:"prometheus"`

	// 管理接口
	Admin web.Config `mapstructure:"admin"`

	// 失败上报，dsn 为空时关闭
	Sentry sentry.Config `mapstructure:"sentry"`
}

func main() {
	once := pflag.Bool("once", false, "run a single recompute pass and exit")

	var cfg Config

	// 1. 加载配置，pity 段未配置的字段使用默认值
	if _, err := app.LoadConfig(&cfg, config.WithDefaults(service.PityConfigDefaults(handler.PitySection))); err != nil {
		panic(err)
	}

	// 2. 初始化主日志
	l, err := logger.New(&cfg.Log)
	if err != nil {
		panic(err)
	}
	logger.SetDefault(l)
	defer func() { _ = l.Sync() }()
	l.Info("starting", "version", app.GetInfo().String())

	// 3. 单次执行
	if *once {
		os.Exit(runOnce(&cfg, l))
	}

	// 4. 通过 Wire 初始化应用并常驻运行
	application, cleanup, err := InitApp(&cfg, l)
	if err != nil {
		l.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := application.Run(); err != nil {
		l.Error("application exited with error", "error", err)
	}
}

func runOnce(cfg *Config, l logger.Logger) int {
	job, cleanup, err := InitJob(cfg, l)
	if err != nil {
		l.Error("failed to initialize job", "error", err)
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := job.RunPass(ctx)
	if err != nil {
		return 1
	}
	if summary.Failed > 0 {
		return 2
	}
	return 0
}
