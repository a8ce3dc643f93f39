package logger

import "sync"

var (
	defaultLogger Logger
	defaultMu     sync.RWMutex
)

// SetDefault 设置默认 logger
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Default 获取默认 logger，未设置时懒加载一个仅输出到控制台的 logger
func Default() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		bl, err := New(DefaultConfig())
		if err != nil {
			defaultLogger = NewNoop()
		} else {
			defaultLogger = bl
		}
	}
	return defaultLogger
}
