package compress

import "github.com/golang/snappy"

type snappyCompressor struct{}

func (snappyCompressor) Compress(src []byte) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

func (snappyCompressor) Decompress(src []byte) ([]byte, error) {
	return snappy.Decode(nil, src)
}

func (snappyCompressor) Name() string {
	return string(TypeSnappy)
}
