package compress

import "github.com/klauspost/compress/zstd"

// zstdCompressor EncodeAll / DecodeAll 可并发调用
type zstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newZstdCompressor() (*zstdCompressor, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, err
	}
	return &zstdCompressor{encoder: encoder, decoder: decoder}, nil
}

func (c *zstdCompressor) Compress(src []byte) ([]byte, error) {
	return c.encoder.EncodeAll(src, nil), nil
}

func (c *zstdCompressor) Decompress(src []byte) ([]byte, error) {
	return c.decoder.DecodeAll(src, nil)
}

func (c *zstdCompressor) Name() string {
	return string(TypeZstd)
}
