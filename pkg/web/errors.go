package web

import "errors"

var (
	ErrServerAlreadyStarted = errors.New("web: server already started")
	ErrServerClosed         = errors.New("web: server closed")
)
