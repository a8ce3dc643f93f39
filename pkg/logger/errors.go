package logger

import "github.com/cockroachdb/errors"

var (
	ErrInvalidOutputPath = errors.New("log output_path is required when enable_file is set")
	ErrNoOutputEnabled   = errors.New("log needs enable_console or enable_file")
)
