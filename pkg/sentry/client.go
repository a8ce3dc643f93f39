package sentry

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
)

// Option 调整 SDK 选项
type Option func(*sentry.ClientOptions)

// WithBeforeSend 事件发送前回调，返回 nil 时丢弃
func WithBeforeSend(fn func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event) Option {
	return func(o *sentry.ClientOptions) {
		o.BeforeSend = fn
	}
}

// Client Sentry 客户端，使用独立的 Hub，不影响全局
type Client struct {
	hub    *sentry.Hub
	config *Config
	closed atomic.Bool

	stats struct {
		eventsTotal    atomic.Uint64
		eventsCaptured atomic.Uint64
		eventsDropped  atomic.Uint64
	}
}

// New 创建 Sentry 客户端
func New(cfg *Config, opts ...Option) (*Client, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, fmt.Errorf("merge sentry config: %w", err)
	}
	if err := newCfg.Validate(); err != nil {
		return nil, err
	}

	clientOpts := newCfg.toClientOptions()
	for _, opt := range opts {
		opt(&clientOpts)
	}

	client, err := sentry.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create sentry client: %w", err)
	}

	hub := sentry.NewHub(client, sentry.NewScope())
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(newCfg.Tags)
	})

	return &Client{hub: hub, config: newCfg}, nil
}

// CaptureError 上报错误，tags 只作用于本次事件
func (c *Client) CaptureError(err error, tags map[string]string) *sentry.EventID {
	if c.closed.Load() || err == nil {
		return nil
	}

	var eventID *sentry.EventID
	c.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		eventID = c.hub.CaptureException(err)
	})
	c.record(eventID)
	return eventID
}

// CaptureMessage 上报消息
func (c *Client) CaptureMessage(message string, level Level, tags map[string]string) *sentry.EventID {
	if c.closed.Load() {
		return nil
	}

	var eventID *sentry.EventID
	c.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		scope.SetTags(tags)
		eventID = c.hub.CaptureMessage(message)
	})
	c.record(eventID)
	return eventID
}

func (c *Client) record(eventID *sentry.EventID) {
	c.stats.eventsTotal.Add(1)
	if eventID != nil && *eventID != "" {
		c.stats.eventsCaptured.Add(1)
	} else {
		c.stats.eventsDropped.Add(1)
	}
}

// Flush 等待所有事件上报完成
func (c *Client) Flush(timeout time.Duration) bool {
	return c.hub.Flush(timeout)
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return ErrClientClosed
	}
	c.hub.Flush(c.config.ShutdownTimeout)
	return nil
}

// Stats 获取统计信息
func (c *Client) Stats() Stats {
	return Stats{
		EventsTotal:    c.stats.eventsTotal.Load(),
		EventsCaptured: c.stats.eventsCaptured.Load(),
		EventsDropped:  c.stats.eventsDropped.Load(),
	}
}
