package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
)

var (
	ErrAppAlreadyRunning = errors.New("application is already running")
)

// Server 长期运行的组件（定时任务、HTTP 服务等）
type Server interface {
	Start() error
	Stop() error
}

// Closer 资源清理接口（Redis 等）
type Closer interface {
	Close() error
}

// BaseApp 按注册顺序启动 Server，按相反顺序停止
// 所有 Server 停止之后再逆序关闭 Closer
type BaseApp struct {
	opts    Options
	logger  logger.Logger
	servers []Server
	closers []Closer
	// running 已启动的 Server，按启动顺序
	running []Server

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex

	started atomic.Bool
	closed  atomic.Bool
}

// NewBaseApp 创建 BaseApp
func NewBaseApp(opts ...Option) *BaseApp {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &BaseApp{
		opts:   o,
		logger: o.Logger.Named(o.Name),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context 应用生命周期 context，Shutdown 后取消
func (a *BaseApp) Context() context.Context {
	return a.ctx
}

// ID 应用实例 ID
func (a *BaseApp) ID() string {
	return a.opts.ID
}

// AppLogger 应用主日志对象
func (a *BaseApp) AppLogger() logger.Logger {
	return a.logger
}

// Run 启动所有 Server 并阻塞，直到收到退出信号或 Shutdown 被调用
func (a *BaseApp) Run() error {
	if !a.started.CompareAndSwap(false, true) {
		return ErrAppAlreadyRunning
	}

	info := GetInfo()
	fmt.Println(info.String())
	a.logger.Info("application starting",
		"version", info.Version,
		"commit", info.GitCommit,
		"build_date", info.BuildDate,
		"go_version", info.GoVersion,
		"id", a.opts.ID,
	)

	if err := a.startServers(); err != nil {
		_ = a.Shutdown()
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		a.logger.Info("received signal, shutting down", "signal", sig.String())
	case <-a.ctx.Done():
		a.logger.Info("context cancelled, shutting down")
	}

	return a.Shutdown()
}

func (a *BaseApp) startServers() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, srv := range a.servers {
		if err := srv.Start(); err != nil {
			a.logger.Error("failed to start server", "index", i, "server", fmt.Sprintf("%T", srv), "error", err)
			return err
		}
		a.running = append(a.running, srv)
	}
	return nil
}

// Shutdown 逆序停止已启动的 Server，共用 StopTimeout，然后逆序关闭 Closer
func (a *BaseApp) Shutdown() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.cancel()
	a.logger.Info("application shutting down", "servers", len(a.running))

	deadline := time.Now().Add(a.opts.StopTimeout)
	for i := len(a.running) - 1; i >= 0; i-- {
		a.stopServer(a.running[i], time.Until(deadline))
	}
	a.running = nil

	// LIFO
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("failed to close component", "error", err)
		}
	}

	_ = a.logger.Sync()
	return nil
}

// stopServer 超时后不再等待，继续停止下一个
func (a *BaseApp) stopServer(srv Server, timeout time.Duration) {
	name := fmt.Sprintf("%T", srv)
	if timeout <= 0 {
		a.logger.Warn("shutdown timeout, server not stopped", "server", name)
		return
	}

	done := make(chan error, 1)
	go func() { done <- srv.Stop() }()

	select {
	case err := <-done:
		if err != nil {
			a.logger.Error("failed to stop server", "server", name, "error", err)
		}
	case <-time.After(timeout):
		a.logger.Warn("shutdown timeout, server still stopping", "server", name, "timeout", timeout)
	}
}

// AppendServer 添加 Server，需要在 Run 之前调用
func (a *BaseApp) AppendServer(srv ...Server) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.servers = append(a.servers, srv...)
}

// AppendCloser 添加 Closer
func (a *BaseApp) AppendCloser(closer ...Closer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, closer...)
}
