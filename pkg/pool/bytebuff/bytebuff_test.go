package bytebuff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolGetPut(t *testing.T) {
	p := &Pool{}

	buf := p.Get()
	_, _ = buf.WriteString("static_loot")
	assert.Equal(t, "static_loot", buf.String())
	p.Put(buf)

	again := p.Get()
	assert.Equal(t, 0, again.Len())
	p.Put(again)
	p.Put(nil)

	gets, puts := p.Stats()
	assert.Equal(t, uint64(2), gets)
	assert.Equal(t, uint64(2), puts)
}

func TestDefaultPool(t *testing.T) {
	gets, _ := Stats()
	buf := Get()
	Put(buf)
	after, _ := Stats()
	assert.Equal(t, gets+1, after)
}
