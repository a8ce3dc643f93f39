package config

import "github.com/cockroachdb/errors"

var (
	ErrValidationFailed = errors.New("config validation failed")
	ErrNilConfig        = errors.New("config cannot be nil")
	ErrMergeFailed      = errors.New("failed to merge configs")

	// ErrNoConfigFile 未加载配置文件时无法监听
	ErrNoConfigFile = errors.New("watch requires a loaded config file")
)
