package lru

import (
	"errors"
	"sync"
	"time"

	hashilru "github.com/hashicorp/golang-lru"
)

var ErrInvalidSize = errors.New("lru: max size must be positive")

// Cache 通用缓存接口
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	SetWithTTL(key K, value V, ttl time.Duration)
	Delete(key K)
	Len() int
	Clear()
}

// Config LRU 配置
type Config struct {
	// MaxSize 最大容量
	MaxSize int
	// DefaultTTL 默认过期时间，为 0 时不过期
	DefaultTTL time.Duration
}

// LRU 在 golang-lru 之上加了类型参数和过期时间
// 过期条目在 Get 时惰性删除
type LRU[K comparable, V any] struct {
	config *Config
	cache  *hashilru.Cache
	// GetOrCreate 需要 Get 与 Add 之间不被打断
	mu  sync.Mutex
	now func() time.Time

	onEvict func(key K, value V)
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Option LRU 配置选项
type Option[K comparable, V any] func(*LRU[K, V])

// WithOnEvict 设置淘汰回调，容量淘汰、过期与 Delete 都会触发
func WithOnEvict[K comparable, V any](fn func(key K, value V)) Option[K, V] {
	return func(c *LRU[K, V]) {
		c.onEvict = fn
	}
}

// withClock 测试用
func withClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *LRU[K, V]) {
		c.now = now
	}
}

// New 创建 LRU 缓存
func New[K comparable, V any](cfg *Config, opts ...Option[K, V]) (*LRU[K, V], error) {
	if cfg == nil || cfg.MaxSize <= 0 {
		return nil, ErrInvalidSize
	}

	c := &LRU[K, V]{
		config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	cache, err := hashilru.NewWithEvict(cfg.MaxSize, func(key, value interface{}) {
		if c.onEvict != nil {
			c.onEvict(key.(K), value.(*entry[V]).value)
		}
	})
	if err != nil {
		return nil, err
	}
	c.cache = cache
	return c, nil
}

// Get 获取值
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

func (c *LRU[K, V]) get(key K) (V, bool) {
	var zero V
	raw, ok := c.cache.Get(key)
	if !ok {
		return zero, false
	}
	ent := raw.(*entry[V])
	if ent.expired(c.now()) {
		c.cache.Remove(key)
		return zero, false
	}
	return ent.value, true
}

// Set 设置值（使用默认 TTL）
func (c *LRU[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.config.DefaultTTL)
}

// SetWithTTL 设置值（自定义 TTL，为 0 时不过期）
func (c *LRU[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(key, value, ttl)
}

func (c *LRU[K, V]) add(key K, value V, ttl time.Duration) {
	ent := &entry[V]{value: value}
	if ttl > 0 {
		ent.expiresAt = c.now().Add(ttl)
	}
	c.cache.Add(key, ent)
}

// GetOrCreate 原子获取或创建，create 返回错误时不缓存
func (c *LRU[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.get(key); ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.add(key, v, c.config.DefaultTTL)
	return v, nil
}

// Delete 删除
func (c *LRU[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Remove(key)
}

// Len 返回当前缓存大小，包含尚未被清理的过期条目
func (c *LRU[K, V]) Len() int {
	return c.cache.Len()
}

// Clear 清空缓存
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}
