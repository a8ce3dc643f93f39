package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
	"github.com/lk2023060901/xdooria-lootpity/pkg/web/middleware"
)

// Server Web 服务，实现 app.Server
type Server struct {
	engine  *gin.Engine
	config  *Config
	logger  logger.Logger
	limiter *middleware.RateLimiter

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	closed   bool
}

// NewServer 创建 Web 服务，cfg 与默认配置合并
func NewServer(cfg *Config, l logger.Logger) (*Server, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, fmt.Errorf("merge web config: %w", err)
	}
	if err := config.NewValidator().Validate(newCfg); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.Default()
	}
	l = l.Named("web.server")

	gin.SetMode(newCfg.Mode)
	engine := gin.New()
	engine.Use(middleware.Logger(l))
	engine.Use(middleware.Recovery(l))
	if newCfg.EnableCORS {
		engine.Use(middleware.CORS())
	}

	s := &Server{
		engine: engine,
		config: newCfg,
		logger: l,
	}

	if rl := newCfg.RateLimit; rl.RequestsPerSecond > 0 {
		s.limiter, err = middleware.NewRateLimiter(l, &middleware.RateLimitConfig{
			RequestsPerSecond: rl.RequestsPerSecond,
			Burst:             rl.Burst,
			MaxClients:        rl.MaxClients,
			ClientTTL:         rl.ClientTTL,
		})
		if err != nil {
			return nil, err
		}
		engine.Use(middleware.RateLimit(s.limiter, CodeRateLimited))
	}

	return s, nil
}

// Router 返回 Gin 引擎，用于注册路由
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Handler 返回 http.Handler 接口
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr 实际监听地址，未启动时为空
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start 非阻塞启动
func (s *Server) Start() error {
	if !s.config.Enabled {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServerClosed
	}
	if s.server != nil {
		return ErrServerAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr, err)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:        s.engine,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server exited", "error", err)
		}
	}()

	s.logger.Info("http server started", "addr", ln.Addr().String())
	return nil
}

// Stop 优雅关闭
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServerClosed
	}
	s.closed = true

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
