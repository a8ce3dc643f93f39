// Package bytebuff 编码时复用的字节缓冲，底层使用 valyala/bytebufferpool
package bytebuff

import (
	"sync/atomic"

	"github.com/valyala/bytebufferpool"
)

type ByteBuffer = bytebufferpool.ByteBuffer

// Pool bytebufferpool 会根据使用情况自动校准默认容量
type Pool struct {
	pool bytebufferpool.Pool
	gets atomic.Uint64
	puts atomic.Uint64
}

var defaultPool = &Pool{}

func (p *Pool) Get() *ByteBuffer {
	p.gets.Add(1)
	return p.pool.Get()
}

// Put 归还后不能再使用 buf 及其 Bytes()
func (p *Pool) Put(buf *ByteBuffer) {
	if buf == nil {
		return
	}
	p.puts.Add(1)
	p.pool.Put(buf)
}

// Stats 累计 Get / Put 次数
func (p *Pool) Stats() (gets, puts uint64) {
	return p.gets.Load(), p.puts.Load()
}

func Get() *ByteBuffer { return defaultPool.Get() }

func Put(buf *ByteBuffer) { defaultPool.Put(buf) }

func Stats() (gets, puts uint64) { return defaultPool.Stats() }
