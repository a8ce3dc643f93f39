package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-lootpity/pkg/cache/lru"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
	"golang.org/x/time/rate"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// RequestsPerSecond 每个客户端每秒请求数
	RequestsPerSecond float64
	// Burst 突发容量
	Burst int
	// MaxClients 最多保留的客户端限流器数量
	MaxClients int
	// ClientTTL 客户端限流器过期时间
	ClientTTL time.Duration
	// KeyFunc 限流键，默认为客户端 IP
	KeyFunc func(*gin.Context) string
}

// RateLimiter 按键限流
type RateLimiter struct {
	cfg      *RateLimitConfig
	limiters *lru.LRU[string, *rate.Limiter]
	logger   logger.Logger
}

// NewRateLimiter 创建限流器
func NewRateLimiter(l logger.Logger, cfg *RateLimitConfig) (*RateLimiter, error) {
	limiters, err := lru.New[string, *rate.Limiter](
		&lru.Config{
			MaxSize:    cfg.MaxClients,
			DefaultTTL: cfg.ClientTTL,
		},
		lru.WithOnEvict(func(key string, _ *rate.Limiter) {
			l.Debug("rate limiter evicted", "key", key)
		}),
	)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{cfg: cfg, limiters: limiters, logger: l}, nil
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow(key string) bool {
	limiter, _ := rl.limiters.GetOrCreate(key, func() (*rate.Limiter, error) {
		return rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst), nil
	})
	return limiter.Allow()
}

// RateLimit 限流中间件，超限时返回 429 与 code
func RateLimit(limiter *RateLimiter, code int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if limiter.cfg.KeyFunc != nil {
			key = limiter.cfg.KeyFunc(c)
		}

		if !limiter.Allow(key) {
			limiter.logger.Warn("rate limit exceeded", "key", key, "path", c.Request.URL.Path)
			c.Header("Retry-After", strconv.Itoa(1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    code,
				"message": "too many requests",
				"data":    nil,
			})
			return
		}
		c.Next()
	}
}
