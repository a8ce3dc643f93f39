package logger

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextFieldExtractor 从 context 提取日志字段，默认读取 ContextWithFields 挂上的字段
type ContextFieldExtractor func(ctx context.Context) []zap.Field

// Option 创建选项
type Option func(*BaseLogger)

// WithHooks 添加钩子
func WithHooks(hooks ...Hook) Option {
	return func(l *BaseLogger) {
		l.hooks = append(l.hooks, hooks...)
	}
}

// WithContextExtractor 设置 context 字段提取器
func WithContextExtractor(fn ContextFieldExtractor) Option {
	return func(l *BaseLogger) {
		if fn != nil {
			l.extractor = fn
		}
	}
}

// WithWriter 额外输出到 w（不受 EnableConsole/EnableFile 影响）
func WithWriter(w io.Writer) Option {
	return func(l *BaseLogger) {
		l.extraWriters = append(l.extraWriters, zapcore.AddSync(w))
	}
}
