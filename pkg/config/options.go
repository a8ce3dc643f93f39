package config

import "time"

// Option 配置管理器选项
type Option func(*Manager)

// WithDefaults key 使用 "." 分隔的路径，如 "pity.increases_stack"
func WithDefaults(defaults map[string]any) Option {
	return func(m *Manager) {
		for key, value := range defaults {
			m.v.SetDefault(key, value)
		}
	}
}

// WithConfigType 文件没有扩展名时指定格式
func WithConfigType(configType string) Option {
	return func(m *Manager) { m.v.SetConfigType(configType) }
}

// WithEnvPrefix 启用环境变量覆盖
func WithEnvPrefix(prefix string) Option {
	return func(m *Manager) { m.bindEnvLocked(prefix) }
}

// WithWatchDebounce 合并窗口内的文件事件，0 表示每个事件都回调
func WithWatchDebounce(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.debounce = d
		}
	}
}
