package handler

import "time"

// JobConfig 重算任务配置
type JobConfig struct {
	// Schedule cron 表达式，支持 "@every 5m" 形式，为空时只在启动时执行
	Schedule   string `mapstructure:"schedule"`
	RunOnStart bool   `mapstructure:"run_on_start"`
	// PoolSize 并发处理的玩家数
	PoolSize int `mapstructure:"pool_size" validate:"gte=0"`
	// Timeout 单轮超时，为 0 时不限制
	Timeout time.Duration `mapstructure:"timeout"`
	// MachineID 生成 pass id 用，多个实例写同一个存储时需要不同
	MachineID uint16 `mapstructure:"machine_id"`
}

func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		Schedule:   "@every 5m",
		RunOnStart: true,
		PoolSize:   4,
		Timeout:    2 * time.Minute,
	}
}
