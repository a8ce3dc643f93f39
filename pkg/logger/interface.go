package logger

import "context"

// Logger 日志接口
// 业务代码只依赖此接口，测试中可替换为 NoopLogger
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})

	DebugContext(ctx context.Context, msg string, keysAndValues ...interface{})
	InfoContext(ctx context.Context, msg string, keysAndValues ...interface{})
	WarnContext(ctx context.Context, msg string, keysAndValues ...interface{})
	ErrorContext(ctx context.Context, msg string, keysAndValues ...interface{})

	// Named 派生具名 logger，名称以 "." 连接
	Named(name string) Logger
	// WithFields 派生带固定字段的 logger
	WithFields(keysAndValues ...interface{}) Logger

	Sync() error
}
