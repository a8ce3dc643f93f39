package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newBufferLogger 创建输出到缓冲区的 JSON logger
func newBufferLogger(t *testing.T, level Level, opts ...Option) (*BaseLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(&Config{Level: level, Format: JSONFormat}, append(opts, WithWriter(&buf))...)
	require.NoError(t, err)
	return l, &buf
}

// lastEntry 解析最后一行日志
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

// TestNew 测试创建 Logger
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{"nil config uses default", nil, nil},
		{"minimal config", &Config{Level: InfoLevel, Format: JSONFormat}, nil},
		{"file enabled without path", &Config{EnableFile: true}, ErrInvalidOutputPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

// TestLoggerLevels 测试日志等级过滤
func TestLoggerLevels(t *testing.T) {
	l, buf := newBufferLogger(t, WarnLevel)

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown", "item_id", "abc")
	entry := lastEntry(t, buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "abc", entry["item_id"])
}

// TestLoggerNamedAndFields 测试具名与字段派生
func TestLoggerNamedAndFields(t *testing.T) {
	l, buf := newBufferLogger(t, DebugLevel)

	l.Named("service").Named("pity").WithFields("profile_id", "p1").Debug("hello", zap.Int("count", 3))
	entry := lastEntry(t, buf)
	assert.Equal(t, "service.pity", entry["logger"])
	assert.Equal(t, "p1", entry["profile_id"])
	assert.Equal(t, float64(3), entry["count"])

	// 派生不影响原 logger
	l.Info("plain")
	entry = lastEntry(t, buf)
	assert.NotContains(t, entry, "profile_id")
	assert.NotContains(t, entry, "logger")
}

// TestLoggerContextExtractor 测试 context 字段提取
func TestLoggerContextExtractor(t *testing.T) {
	type ctxKey struct{}
	extractor := func(ctx context.Context) []zap.Field {
		if v, ok := ctx.Value(ctxKey{}).(string); ok {
			return []zap.Field{zap.String("pass_id", v)}
		}
		return nil
	}
	l, buf := newBufferLogger(t, InfoLevel, WithContextExtractor(extractor))

	l.InfoContext(context.WithValue(context.Background(), ctxKey{}, "42"), "pass started")
	assert.Equal(t, "42", lastEntry(t, buf)["pass_id"])
}

// TestSensitiveDataHook 测试脱敏钩子
func TestSensitiveDataHook(t *testing.T) {
	l, buf := newBufferLogger(t, InfoLevel, WithHooks(SensitiveDataHook("password")))

	l.Info("connect", "password", "secret", "host", "localhost")
	entry := lastEntry(t, buf)
	assert.Equal(t, "***REDACTED***", entry["password"])
	assert.Equal(t, "localhost", entry["host"])
}

// TestHookDropsEntry 钩子返回 false 时丢弃日志
func TestHookDropsEntry(t *testing.T) {
	drop := HookFunc(func(entry zapcore.Entry, _ []zapcore.Field) bool {
		return entry.Message != "noisy"
	})
	l, buf := newBufferLogger(t, InfoLevel, WithHooks(drop))

	l.Info("noisy")
	assert.Empty(t, buf.String())
	l.Info("kept")
	assert.Equal(t, "kept", lastEntry(t, buf)["msg"])
}

func TestToZapFieldsOddArgs(t *testing.T) {
	fields := toZapFields([]interface{}{"a", 1, "dangling"})
	require.Len(t, fields, 1)
	assert.Equal(t, "a", fields[0].Key)
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoop()
	assert.Same(t, l, l.Named("x"))
	assert.Same(t, l, l.WithFields("k", "v"))
	assert.NoError(t, l.Sync())
}

func TestContextWithFields(t *testing.T) {
	l, buf := newBufferLogger(t, InfoLevel)

	ctx := ContextWithFields(context.Background(), "pass_id", int64(7))
	ctx = ContextWithFields(ctx, "profile_id", "p1")
	l.WarnContext(ctx, "profile failed", "stage", "load")

	entry := lastEntry(t, buf)
	assert.Equal(t, float64(7), entry["pass_id"])
	assert.Equal(t, "p1", entry["profile_id"])
	assert.Equal(t, "load", entry["stage"])

	// 外层 ctx 不受内层追加的影响
	assert.Len(t, FieldsFromContext(ContextWithFields(context.Background(), "a", 1)), 1)
	assert.Same(t, ctx, ContextWithFields(ctx))
}

func TestSetLevelSharedByDerived(t *testing.T) {
	l, buf := newBufferLogger(t, InfoLevel)
	named := l.Named("job")

	named.Debug("hidden")
	assert.Empty(t, buf.String())

	l.SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, l.GetLevel())
	named.Debug("shown")
	assert.Equal(t, "shown", lastEntry(t, buf)["msg"])
}

func TestCallerPointsAtCallSite(t *testing.T) {
	l, buf := newBufferLogger(t, InfoLevel)
	l.Info("where")
	assert.Contains(t, lastEntry(t, buf)["caller"], "logger_test.go")
}
