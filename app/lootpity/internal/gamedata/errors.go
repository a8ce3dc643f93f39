package gamedata

import "github.com/cockroachdb/errors"

var (
	ErrDataDirNotFound = errors.New("gamedata: data dir not found")
	ErrProfileNotFound = errors.New("gamedata: profile not found")
	ErrMalformedFile   = errors.New("gamedata: malformed json file")
)
