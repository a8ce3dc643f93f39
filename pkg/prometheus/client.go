package prometheus

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type (
	CounterVec   = prometheus.CounterVec
	GaugeVec     = prometheus.GaugeVec
	HistogramVec = prometheus.HistogramVec
	Collector    = prometheus.Collector
)

// Client 持有独立的 Registry，可选地通过 HTTP 暴露
// 同时实现 app.Server，HTTP 服务在 Start 中启动
type Client struct {
	config   *Config
	registry *prometheus.Registry
	logger   logger.Logger

	mu      sync.Mutex
	metrics map[string]Collector

	httpServer *http.Server
	closed     atomic.Bool
}

// New 创建客户端，cfg 与默认配置合并
func New(cfg *Config, l logger.Logger) (*Client, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, err
	}
	if err := newCfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.NewNoop()
	}

	c := &Client{
		config:   newCfg,
		registry: prometheus.NewRegistry(),
		logger:   l.Named("prometheus"),
		metrics:  make(map[string]Collector),
	}

	if newCfg.EnableGoCollector {
		c.registry.MustRegister(collectors.NewGoCollector())
	}
	if newCfg.EnableProcessCollector {
		c.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return c, nil
}

func (c *Client) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Client) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (c *Client) Config() *Config {
	return c.config
}

// register 同名指标只能注册一次
func register[T Collector](c *Client, name string, build func(prometheus.Opts) T) (T, error) {
	var zero T
	if c.closed.Load() {
		return zero, ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.metrics[name]; ok {
		return zero, ErrMetricExists
	}

	m := build(prometheus.Opts{Namespace: c.config.Namespace, Subsystem: c.config.Subsystem, Name: name})
	if err := c.registry.Register(m); err != nil {
		return zero, err
	}
	c.metrics[name] = m
	return m, nil
}

func (c *Client) NewCounter(name, help string, labels []string) (*CounterVec, error) {
	return register(c, name, func(o prometheus.Opts) *CounterVec {
		o.Help = help
		return prometheus.NewCounterVec(prometheus.CounterOpts(o), labels)
	})
}

func (c *Client) NewGauge(name, help string, labels []string) (*GaugeVec, error) {
	return register(c, name, func(o prometheus.Opts) *GaugeVec {
		o.Help = help
		return prometheus.NewGaugeVec(prometheus.GaugeOpts(o), labels)
	})
}

// NewHistogram buckets 为 nil 时使用 prometheus.DefBuckets
func (c *Client) NewHistogram(name, help string, labels []string, buckets []float64) (*HistogramVec, error) {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	return register(c, name, func(o prometheus.Opts) *HistogramVec {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.Namespace,
			Subsystem: o.Subsystem,
			Name:      o.Name,
			Help:      help,
			Buckets:   buckets,
		}, labels)
	})
}

// Start 启用 HTTP 时开始监听，监听失败直接返回错误
func (c *Client) Start() error {
	if !c.config.HTTPServer.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(c.config.HTTPServer.Path, c.Handler())

	ln, err := net.Listen("tcp", c.config.HTTPServer.Addr)
	if err != nil {
		return err
	}

	c.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  c.config.HTTPServer.Timeout,
		WriteTimeout: c.config.HTTPServer.Timeout,
	}
	go func() {
		if err := c.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("metrics http server stopped", "error", err)
		}
	}()

	c.logger.Info("metrics http server listening", "addr", ln.Addr().String(), "path", c.config.HTTPServer.Path)
	return nil
}

// Stop 关闭 HTTP 服务，重复调用返回 ErrClientClosed
func (c *Client) Stop() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}
	if c.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.httpServer.Shutdown(ctx)
}
