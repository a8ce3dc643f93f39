package config

import (
	"fmt"
	"sync"
)

// Watcher 配置监听器（用于热更新）
// key 非空时只解析该路径下的配置段
type Watcher[T any] struct {
	manager   *Manager
	key       string
	mu        sync.RWMutex
	config    *T
	callbacks []func(*T)
	onError   func(error)
	decorate  func(*T) error
}

// WatcherOption 监听器选项
type WatcherOption[T any] func(*Watcher[T])

// WithReloadHook 每次解析后调用，可用于合并默认值与验证，返回错误时保留旧配置
func WithReloadHook[T any](fn func(*T) error) WatcherOption[T] {
	return func(w *Watcher[T]) {
		w.decorate = fn
	}
}

// WithErrorHandler 重新加载失败时回调
func WithErrorHandler[T any](fn func(error)) WatcherOption[T] {
	return func(w *Watcher[T]) {
		w.onError = fn
	}
}

// NewWatcher 创建配置监听器并立即加载一次
func NewWatcher[T any](path, key string, mgrOpts []Option, opts ...WatcherOption[T]) (*Watcher[T], error) {
	m := NewManager(mgrOpts...)
	if err := m.LoadFile(path); err != nil {
		return nil, err
	}

	w := &Watcher[T]{manager: m, key: key}
	for _, opt := range opts {
		opt(w)
	}

	cfg, err := w.load()
	if err != nil {
		return nil, err
	}
	w.config = cfg

	if err := m.Watch(w.reload); err != nil {
		return nil, err
	}
	return w, nil
}

// GetConfig 获取当前配置
func (w *Watcher[T]) GetConfig() *T {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// OnChange 注册配置变化回调
func (w *Watcher[T]) OnChange(callback func(*T)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

func (w *Watcher[T]) load() (*T, error) {
	var cfg T
	var err error
	if w.key == "" {
		err = w.manager.Unmarshal(&cfg)
	} else {
		err = w.manager.UnmarshalKey(w.key, &cfg)
	}
	if err != nil {
		return nil, err
	}

	if w.decorate != nil {
		if err := w.decorate(&cfg); err != nil {
			return nil, fmt.Errorf("reload hook: %w", err)
		}
	}
	return &cfg, nil
}

func (w *Watcher[T]) reload() {
	cfg, err := w.load()
	if err != nil {
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	w.config = cfg
	callbacks := append([]func(*T){}, w.callbacks...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}
