package compress

import (
	"encoding/binary"
	"errors"

	"github.com/pierrec/lz4/v4"
)

// 格式：4 字节大端原始长度 + 1 字节标记 + 数据
// 标记为 lz4RawBlock 时数据未压缩（不可压缩的输入）
const (
	lz4HeaderSize    = 5
	lz4Compressed    = 0x01
	lz4RawBlock      = 0x00
	lz4MaxDecodeSize = 256 << 20
)

var errLZ4Corrupt = errors.New("lz4: corrupt payload")

type lz4Compressor struct{}

func (lz4Compressor) Compress(src []byte) ([]byte, error) {
	dst := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(src)))
	binary.BigEndian.PutUint32(dst, uint32(len(src)))

	n, err := lz4.CompressBlock(src, dst[lz4HeaderSize:], nil)
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(src) {
		dst[4] = lz4RawBlock
		n = copy(dst[lz4HeaderSize:], src)
	} else {
		dst[4] = lz4Compressed
	}
	return dst[:lz4HeaderSize+n], nil
}

func (lz4Compressor) Decompress(src []byte) ([]byte, error) {
	if len(src) < lz4HeaderSize {
		return nil, errLZ4Corrupt
	}
	size := binary.BigEndian.Uint32(src)
	if size > lz4MaxDecodeSize {
		return nil, errLZ4Corrupt
	}

	body := src[lz4HeaderSize:]
	switch src[4] {
	case lz4RawBlock:
		if len(body) != int(size) {
			return nil, errLZ4Corrupt
		}
		return append([]byte(nil), body...), nil
	case lz4Compressed:
		dst := make([]byte, size)
		n, err := lz4.UncompressBlock(body, dst)
		if err != nil {
			return nil, err
		}
		if n != int(size) {
			return nil, errLZ4Corrupt
		}
		return dst, nil
	default:
		return nil, errLZ4Corrupt
	}
}

func (lz4Compressor) Name() string {
	return string(TypeLZ4)
}
