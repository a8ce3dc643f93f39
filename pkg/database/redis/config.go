package redis

import "time"

// Config Redis 配置（Standalone / Cluster 必须且只能配置一种）
type Config struct {
	Standalone *NodeConfig    `mapstructure:"standalone"`
	Cluster    *ClusterConfig `mapstructure:"cluster"`
	Pool       PoolConfig     `mapstructure:"pool"`
}

// NodeConfig 单机节点
type NodeConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ClusterConfig 集群节点列表，格式 host:port
type ClusterConfig struct {
	Addrs    []string `mapstructure:"addrs"`
	Password string   `mapstructure:"password"`
}

// PoolConfig 连接池，所有模式共享
type PoolConfig struct {
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolTimeout     time.Duration `mapstructure:"pool_timeout"`
}

// DefaultPoolConfig 默认连接池参数
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    50,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		PoolTimeout:     5 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if (c.Standalone == nil) == (c.Cluster == nil) {
		return ErrInvalidConfig
	}
	if c.Cluster != nil && len(c.Cluster.Addrs) == 0 {
		return ErrInvalidConfig
	}
	return nil
}

func (c *Config) IsCluster() bool {
	return c.Cluster != nil
}
