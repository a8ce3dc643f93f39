package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient 用到的 go-redis 命令，单机与集群客户端都满足
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	PoolStats() *redis.PoolStats
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Client Redis 客户端，对外不暴露 go-redis 类型
type Client struct {
	rdb redisClient
	cfg *Config
}

// NewClient 创建客户端，连接在首次使用时建立
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool := cfg.Pool
	if cfg.IsCluster() {
		return &Client{cfg: cfg, rdb: redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           cfg.Cluster.Addrs,
			Password:        cfg.Cluster.Password,
			MaxIdleConns:    pool.MaxIdleConns,
			ConnMaxLifetime: pool.ConnMaxLifetime,
			ConnMaxIdleTime: pool.ConnMaxIdleTime,
			DialTimeout:     pool.DialTimeout,
			ReadTimeout:     pool.ReadTimeout,
			WriteTimeout:    pool.WriteTimeout,
			PoolTimeout:     pool.PoolTimeout,
		})}, nil
	}

	node := cfg.Standalone
	return &Client{cfg: cfg, rdb: redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%d", node.Host, node.Port),
		Password:        node.Password,
		DB:              node.DB,
		MaxIdleConns:    pool.MaxIdleConns,
		MaxActiveConns:  pool.MaxOpenConns,
		ConnMaxLifetime: pool.ConnMaxLifetime,
		ConnMaxIdleTime: pool.ConnMaxIdleTime,
		DialTimeout:     pool.DialTimeout,
		ReadTimeout:     pool.ReadTimeout,
		WriteTimeout:    pool.WriteTimeout,
		PoolTimeout:     pool.PoolTimeout,
	})}, nil
}

// PoolStats 连接池统计
type PoolStats struct {
	Hits       uint32
	Misses     uint32
	Timeouts   uint32
	TotalConns uint32
	IdleConns  uint32
	StaleConns uint32
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) PoolStats() PoolStats {
	s := c.rdb.PoolStats()
	return PoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
		StaleConns: s.StaleConns,
	}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Get 键不存在时返回 ErrNil
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNil
	}
	return data, err
}

// Set ttl 为 0 时不过期
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	return c.rdb.Del(ctx, keys...).Result()
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	return n > 0, err
}

func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.rdb.TTL(ctx, key).Result()
}

// Expire 键不存在时返回 false
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.rdb.Expire(ctx, key, ttl).Result()
}

// HGetAll 键不存在时返回 ErrNil
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNil
	}
	return fields, nil
}

// HGet 键或字段不存在时返回 ErrNil
func (c *Client) HGet(ctx context.Context, key, field string) (string, error) {
	v, err := c.rdb.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNil
	}
	return v, err
}

// HSetWithTTL 在同一事务中写入整个 hash 并设置过期时间，ttl 为 0 时不过期
// fields 中已有但未出现的字段会被清除
func (c *Client) HSetWithTTL(ctx context.Context, key string, fields map[string]any, ttl time.Duration) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}
