package app

import (
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
)

// Options 应用选项
type Options struct {
	// ID 每次启动随机生成，用于区分同一服务的多个实例
	ID   string
	Name string
	// StopTimeout 所有 Server 停止的总时间
	StopTimeout time.Duration
	Logger      logger.Logger
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		ID:          uuid.NewString(),
		Name:        AppName,
		StopTimeout: 30 * time.Second,
		Logger:      logger.Default(),
	}
}

// WithLogger nil 时保留默认日志对象
func WithLogger(l logger.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func WithID(id string) Option {
	return func(o *Options) { o.ID = id }
}

func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}

func WithStopTimeout(t time.Duration) Option {
	return func(o *Options) {
		if t > 0 {
			o.StopTimeout = t
		}
	}
}
