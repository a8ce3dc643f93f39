// Package checksum 基于 xxhash 的内容摘要，用于判断写入内容是否变化
package checksum

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Sum 64 位 xxhash
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// SumString 16 位十六进制字符串，便于存入 redis
func SumString(data []byte) string {
	return fmt.Sprintf("%016x", Sum(data))
}

// Verify expected 为 SumString 的结果
func Verify(data []byte, expected string) bool {
	return SumString(data) == expected
}

// Digest 分段计算，多段拼接结果与一次性计算相同
type Digest struct {
	d *xxhash.Digest
}

func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

func (d *Digest) Write(p []byte) {
	_, _ = d.d.Write(p)
}

func (d *Digest) WriteString(s string) {
	_, _ = d.d.WriteString(s)
}

func (d *Digest) Sum() uint64 {
	return d.d.Sum64()
}
