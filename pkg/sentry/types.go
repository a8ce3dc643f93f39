package sentry

import "github.com/getsentry/sentry-go"

// Level 与 sentry-go 的级别相同，调用方无需再引入 sentry-go
type Level = sentry.Level

const (
	LevelDebug   = sentry.LevelDebug
	LevelInfo    = sentry.LevelInfo
	LevelWarning = sentry.LevelWarning
	LevelError   = sentry.LevelError
	LevelFatal   = sentry.LevelFatal
)

// Stats 本进程内的上报计数，Dropped 包括 BeforeSend 丢弃和采样丢弃
type Stats struct {
	EventsTotal    uint64
	EventsCaptured uint64
	EventsDropped  uint64
}
