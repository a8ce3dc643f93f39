package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxFieldsKey struct{}

// ContextWithFields 把字段挂到 ctx 上，*Context 系列方法会自动带上
// 多次调用时字段累加，外层的同名字段不会被覆盖
func ContextWithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	added := toZapFields(keysAndValues)
	if len(added) == 0 {
		return ctx
	}
	prev := FieldsFromContext(ctx)
	fields := make([]zap.Field, 0, len(prev)+len(added))
	fields = append(fields, prev...)
	fields = append(fields, added...)
	return context.WithValue(ctx, ctxFieldsKey{}, fields)
}

// FieldsFromContext 读取 ContextWithFields 挂上的字段
func FieldsFromContext(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	return fields
}
