package logger

import "go.uber.org/zap/zapcore"

// Hook 日志写入前回调，返回 false 则丢弃该条日志
type Hook interface {
	OnWrite(entry zapcore.Entry, fields []zapcore.Field) bool
}

// HookFunc 函数式 Hook
type HookFunc func(entry zapcore.Entry, fields []zapcore.Field) bool

func (f HookFunc) OnWrite(entry zapcore.Entry, fields []zapcore.Field) bool {
	return f(entry, fields)
}

// hookedCore 带钩子的 Core
type hookedCore struct {
	zapcore.Core
	hooks []Hook
}

func (h *hookedCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if h.Enabled(entry.Level) {
		return ce.AddCore(entry, h)
	}
	return ce
}

func (h *hookedCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	for _, hook := range h.hooks {
		if !hook.OnWrite(entry, fields) {
			return nil
		}
	}
	return h.Core.Write(entry, fields)
}

func (h *hookedCore) With(fields []zapcore.Field) zapcore.Core {
	return &hookedCore{Core: h.Core.With(fields), hooks: h.hooks}
}

// SensitiveDataHook 将指定 key 的字符串字段替换为 ***REDACTED***
func SensitiveDataHook(sensitiveKeys ...string) Hook {
	keys := make(map[string]struct{}, len(sensitiveKeys))
	for _, k := range sensitiveKeys {
		keys[k] = struct{}{}
	}
	return HookFunc(func(entry zapcore.Entry, fields []zapcore.Field) bool {
		for i := range fields {
			if _, ok := keys[fields[i].Key]; ok {
				fields[i].String = "***REDACTED***"
			}
		}
		return true
	})
}
