package config

import (
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// 编辑器保存文件时通常会产生多个事件，合并后只回调一次
const defaultWatchDebounce = 200 * time.Millisecond

// Manager 基于 viper 的配置读取，可以并发使用
//
// 优先级从高到低: Set > 环境变量 > 配置文件 > WithDefaults
type Manager struct {
	mu sync.RWMutex
	v  *viper.Viper

	debounce time.Duration
	timer    *time.Timer
	onChange []func()
	watching bool
}

// NewManager 创建配置管理器
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		v:        viper.New(),
		debounce: defaultWatchDebounce,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// 支持 "30s" 形式的时长和逗号分隔的切片
var decodeHooks = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
	mapstructure.TextUnmarshallerHookFunc(),
))

// LoadFile 读取配置文件，格式由扩展名决定
func (m *Manager) LoadFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.v.SetConfigFile(path)
	if err := m.v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return nil
}

// BindEnv prefix 为 "APP" 时 APP_LOG_LEVEL 覆盖 log.level
func (m *Manager) BindEnv(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindEnvLocked(prefix)
}

func (m *Manager) bindEnvLocked(prefix string) {
	if prefix != "" {
		m.v.SetEnvPrefix(prefix)
	}
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	m.v.AutomaticEnv()
}

// Unmarshal 解析全部配置
func (m *Manager) Unmarshal(target any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.v.Unmarshal(target, decodeHooks); err != nil {
		return errors.Wrap(err, "decode config")
	}
	return nil
}

// UnmarshalKey 解析 key 下的配置段
func (m *Manager) UnmarshalKey(key string, target any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.v.UnmarshalKey(key, target, decodeHooks); err != nil {
		return errors.Wrapf(err, "decode config section %q", key)
	}
	return nil
}

func (m *Manager) Set(key string, value any) {
	m.mu.Lock()
	m.v.Set(key, value)
	m.mu.Unlock()
}

func (m *Manager) GetString(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.GetString(key)
}

func (m *Manager) GetBool(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.GetBool(key)
}

func (m *Manager) IsSet(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.IsSet(key)
}

// Watch 文件变化时回调，回调时 viper 已经重新读取了文件
func (m *Manager) Watch(callback func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.v.ConfigFileUsed() == "" {
		return ErrNoConfigFile
	}
	m.onChange = append(m.onChange, callback)
	if m.watching {
		return nil
	}
	m.watching = true

	m.v.OnConfigChange(func(fsnotify.Event) { m.scheduleNotify() })
	m.v.WatchConfig()
	return nil
}

func (m *Manager) scheduleNotify() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.debounce <= 0 {
		go m.notify()
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, m.notify)
}

func (m *Manager) notify() {
	m.mu.RLock()
	callbacks := make([]func(), len(m.onChange))
	copy(callbacks, m.onChange)
	m.mu.RUnlock()

	for _, cb := range callbacks {
		cb()
	}
}
