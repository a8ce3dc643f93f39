package service

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidPityConfig 保底参数无效
	ErrInvalidPityConfig = errors.New("invalid pity config")
)
