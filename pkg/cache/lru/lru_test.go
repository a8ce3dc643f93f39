package lru

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU_Basic(t *testing.T) {
	cache, err := New[string, int](&Config{MaxSize: 100, DefaultTTL: time.Minute})
	require.NoError(t, err)

	cache.Set("key1", 100)
	val, ok := cache.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, 100, val)

	_, ok = cache.Get("nonexistent")
	assert.False(t, ok)

	cache.Delete("key1")
	_, ok = cache.Get("key1")
	assert.False(t, ok)

	cache.Set("a", 1)
	cache.Set("b", 2)
	assert.Equal(t, 2, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestLRU_MaxSize(t *testing.T) {
	var evicted []string
	cache, err := New[string, int](&Config{MaxSize: 3},
		WithOnEvict(func(key string, _ int) { evicted = append(evicted, key) }),
	)
	require.NoError(t, err)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)

	// a 变为最近使用
	_, _ = cache.Get("a")
	cache.Set("d", 4)

	assert.Equal(t, 3, cache.Len())
	_, ok := cache.Get("b")
	assert.False(t, ok)
	_, ok = cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
}

func TestLRU_TTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache, err := New[string, int](&Config{MaxSize: 10, DefaultTTL: time.Minute}, withClock[string, int](clock.Now))
	require.NoError(t, err)

	cache.Set("default", 1)
	cache.SetWithTTL("short", 2, time.Second)
	cache.SetWithTTL("forever", 3, 0)

	clock.Advance(2 * time.Second)
	_, ok := cache.Get("short")
	assert.False(t, ok)
	v, ok := cache.Get("default")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(time.Hour)
	_, ok = cache.Get("default")
	assert.False(t, ok)
	v, ok = cache.Get("forever")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestLRU_GetOrCreate(t *testing.T) {
	cache, err := New[string, int](&Config{MaxSize: 10})
	require.NoError(t, err)

	calls := 0
	create := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := cache.GetOrCreate("k", create)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = cache.GetOrCreate("k", create)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, err = cache.GetOrCreate("bad", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := cache.Get("bad")
	assert.False(t, ok)
}

func TestNewInvalidSize(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"zero size", &Config{}},
		{"negative size", &Config{MaxSize: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[string, int](tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidSize)
		})
	}
}
