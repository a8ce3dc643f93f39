package handler

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
	"github.com/robfig/cron/v3"
)

// cronLogger 将 cron 内部日志转到 logger.Logger
type cronLogger struct {
	l logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}

// Scheduler 按 cron 表达式周期执行 Job，实现 app.Server
// 上一轮未结束时跳过本次触发
type Scheduler struct {
	job    *Job
	cfg    *JobConfig
	cron   *cron.Cron
	logger logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler 校验 cron 表达式，Start 之前不会执行任何任务
func NewScheduler(job *Job, l logger.Logger) (*Scheduler, error) {
	if l == nil {
		l = logger.NewNoop()
	}
	l = l.Named("handler.scheduler")

	cl := cronLogger{l: l}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		job:    job,
		cfg:    job.cfg,
		cron:   c,
		logger: l,
		ctx:    ctx,
		cancel: cancel,
	}

	if job.cfg.Schedule != "" {
		if _, err := c.AddFunc(job.cfg.Schedule, s.runPass); err != nil {
			cancel()
			return nil, errors.Wrapf(err, "invalid job schedule %q", job.cfg.Schedule)
		}
	}
	return s, nil
}

func (s *Scheduler) runPass() {
	_, _ = s.job.RunPass(s.ctx)
}

// Start 启动定时器，配置了 run_on_start 时立即在后台执行一轮
func (s *Scheduler) Start() error {
	if s.cfg.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runPass()
		}()
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		"schedule", s.cfg.Schedule,
		"run_on_start", s.cfg.RunOnStart,
		"pool_size", s.cfg.PoolSize,
	)
	return nil
}

// Stop 停止触发并取消执行中的一轮，等待其退出
func (s *Scheduler) Stop() error {
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
	return nil
}
