package idgen

import (
	"testing"
	"time"

	"github.com/sony/sonyflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSonyflakeMonotonic(t *testing.T) {
	g, err := NewSonyflake(7)
	require.NoError(t, err)

	var last int64
	for i := 0; i < 100; i++ {
		id, err := g.NextID()
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}
}

func TestSonyflakeMachineID(t *testing.T) {
	g, err := NewSonyflake(7)
	require.NoError(t, err)

	id, err := g.NextID()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), sonyflake.Decompose(uint64(id))["machine-id"])
}

func TestTime(t *testing.T) {
	g, err := NewSonyflake(1)
	require.NoError(t, err)

	before := time.Now()
	id, err := g.NextID()
	require.NoError(t, err)

	assert.WithinDuration(t, before, Time(id), time.Second)
}
