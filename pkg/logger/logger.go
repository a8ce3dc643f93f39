package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = (*BaseLogger)(nil)

// BaseLogger 基于 zap 的 Logger 实现
//
// Named/WithFields 派生出的 logger 共享同一个等级，SetLevel 对它们同时生效。
type BaseLogger struct {
	zl    *zap.Logger
	level zap.AtomicLevel
	cfg   *Config

	hooks        []Hook
	extraWriters []zapcore.WriteSyncer
	extractor    ContextFieldExtractor
}

// New cfg 只需填写需要覆盖默认值的字段
func New(cfg *Config, opts ...Option) (*BaseLogger, error) {
	merged, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "merge logger config")
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	l := &BaseLogger{
		cfg:       merged,
		level:     zap.NewAtomicLevelAt(merged.Level.zapLevel()),
		extractor: FieldsFromContext,
	}
	for _, opt := range opts {
		opt(l)
	}

	core, err := l.newCore()
	if err != nil {
		return nil, err
	}
	l.zl = zap.New(core, l.zapOptions()...).With(globalFields(merged.GlobalFields)...)
	return l, nil
}

func (l *BaseLogger) newCore() (zapcore.Core, error) {
	sink, err := l.newSink()
	if err != nil {
		return nil, err
	}

	var core zapcore.Core = zapcore.NewCore(l.newEncoder(), sink, l.level)
	if len(l.hooks) > 0 {
		core = &hookedCore{Core: core, hooks: l.hooks}
	}
	if c := l.cfg; c.EnableSampling {
		core = zapcore.NewSamplerWithOptions(core, time.Second, c.SamplingInitial, c.SamplingThereafter)
	}
	return core, nil
}

// newSink 额外 writer、控制台、文件三者可以同时输出
func (l *BaseLogger) newSink() (zapcore.WriteSyncer, error) {
	sinks := append([]zapcore.WriteSyncer{}, l.extraWriters...)
	if l.cfg.EnableConsole {
		sinks = append(sinks, zapcore.Lock(os.Stdout))
	}
	if l.cfg.EnableFile {
		w, err := NewRotationWriter(&l.cfg.Rotation, l.cfg.OutputPath)
		if err != nil {
			return nil, errors.Wrapf(err, "open log file %s", l.cfg.OutputPath)
		}
		sinks = append(sinks, zapcore.AddSync(w))
	}
	return zapcore.NewMultiWriteSyncer(sinks...), nil
}

func (l *BaseLogger) newEncoder() zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.NameKey = "logger"
	ec.EncodeDuration = zapcore.SecondsDurationEncoder
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	if l.cfg.TimeFormat != "" {
		ec.EncodeTime = zapcore.TimeEncoderOfLayout(l.cfg.TimeFormat)
	}
	if l.cfg.Development {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if l.cfg.Format == ConsoleFormat {
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func (l *BaseLogger) zapOptions() []zap.Option {
	// 跳过 log 和 Info 等包装方法
	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(2)}
	if l.cfg.EnableStacktrace {
		opts = append(opts, zap.AddStacktrace(l.cfg.StacktraceLevel.zapLevel()))
	}
	if l.cfg.Development {
		opts = append(opts, zap.Development())
	}
	return opts
}

func globalFields(m map[string]interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(m))
	for k, v := range m {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}

// SetLevel 运行时调整等级
func (l *BaseLogger) SetLevel(level Level) {
	l.level.SetLevel(level.zapLevel())
}

// GetLevel 当前等级
func (l *BaseLogger) GetLevel() Level {
	return Level(l.level.Level().String())
}

func (l *BaseLogger) log(ctx context.Context, lvl zapcore.Level, msg string, kvs []interface{}) {
	ce := l.zl.Check(lvl, msg)
	if ce == nil {
		return
	}
	fields := toZapFields(kvs)
	if extra := l.extractor(ctx); len(extra) > 0 {
		fields = append(extra[:len(extra):len(extra)], fields...)
	}
	ce.Write(fields...)
}

func (l *BaseLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(context.Background(), zapcore.DebugLevel, msg, keysAndValues)
}

func (l *BaseLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(context.Background(), zapcore.InfoLevel, msg, keysAndValues)
}

func (l *BaseLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(context.Background(), zapcore.WarnLevel, msg, keysAndValues)
}

func (l *BaseLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(context.Background(), zapcore.ErrorLevel, msg, keysAndValues)
}

func (l *BaseLogger) DebugContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.log(ctx, zapcore.DebugLevel, msg, keysAndValues)
}

func (l *BaseLogger) InfoContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.log(ctx, zapcore.InfoLevel, msg, keysAndValues)
}

func (l *BaseLogger) WarnContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.log(ctx, zapcore.WarnLevel, msg, keysAndValues)
}

func (l *BaseLogger) ErrorContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.log(ctx, zapcore.ErrorLevel, msg, keysAndValues)
}

// Named 名称以 "." 连接
func (l *BaseLogger) Named(name string) Logger {
	return l.derive(l.zl.Named(name))
}

func (l *BaseLogger) WithFields(keysAndValues ...interface{}) Logger {
	fields := toZapFields(keysAndValues)
	if len(fields) == 0 {
		return l
	}
	return l.derive(l.zl.With(fields...))
}

func (l *BaseLogger) derive(zl *zap.Logger) *BaseLogger {
	cp := *l
	cp.zl = zl
	return &cp
}

func (l *BaseLogger) Sync() error {
	return l.zl.Sync()
}

// toZapFields 参数可以是 key-value 对，也可以直接是 zap.Field
// 末尾落单的 key 被丢弃
func toZapFields(kvs []interface{}) []zap.Field {
	if len(kvs) == 0 {
		return nil
	}
	fields := make([]zap.Field, 0, (len(kvs)+1)/2)
	for i := 0; i < len(kvs); {
		if f, ok := kvs[i].(zap.Field); ok {
			fields = append(fields, f)
			i++
			continue
		}
		if i+1 == len(kvs) {
			break
		}
		key, ok := kvs[i].(string)
		if !ok {
			key = fmt.Sprint(kvs[i])
		}
		fields = append(fields, zap.Any(key, kvs[i+1]))
		i += 2
	}
	return fields
}
