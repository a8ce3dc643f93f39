// Package compress 快照压缩，算法由配置 store.compression 选择
package compress

import "fmt"

// Compressor 压缩器
type Compressor interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
	Name() string
}

// Type 压缩算法
type Type string

const (
	TypeNone   Type = "none"
	TypeSnappy Type = "snappy"
	TypeZstd   Type = "zstd"
	TypeLZ4    Type = "lz4"
)

// Types 支持的全部算法
var Types = []Type{TypeNone, TypeSnappy, TypeZstd, TypeLZ4}

// New 空字符串视为不压缩
func New(t Type) (Compressor, error) {
	switch t {
	case TypeNone, "":
		return noneCompressor{}, nil
	case TypeSnappy:
		return snappyCompressor{}, nil
	case TypeZstd:
		return newZstdCompressor()
	case TypeLZ4:
		return lz4Compressor{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", t)
	}
}

type noneCompressor struct{}

func (noneCompressor) Compress(src []byte) ([]byte, error)   { return src, nil }
func (noneCompressor) Decompress(src []byte) ([]byte, error) { return src, nil }
func (noneCompressor) Name() string                          { return string(TypeNone) }
