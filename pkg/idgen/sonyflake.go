package idgen

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sony/sonyflake"
)

// sonyflake 的时间精度为 10ms
const tick = 10 * time.Millisecond

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

var _ Generator = (*Sonyflake)(nil)

// Sonyflake 39 位时间 + 8 位序号 + 16 位机器号
type Sonyflake struct {
	sf *sonyflake.Sonyflake
}

// NewSonyflake 多个实例写同一个存储时 machineID 需要不同
func NewSonyflake(machineID uint16) (*Sonyflake, error) {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: epoch,
		MachineID: func() (uint16, error) { return machineID, nil },
	})
	if sf == nil {
		return nil, errors.Newf("sonyflake: invalid settings for machine %d", machineID)
	}
	return &Sonyflake{sf: sf}, nil
}

func (g *Sonyflake) NextID() (int64, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return 0, errors.Wrap(err, "sonyflake: next id")
	}
	return int64(id), nil
}

// Time 生成 id 时的时间，精度 10ms
func Time(id int64) time.Time {
	elapsed := sonyflake.Decompose(uint64(id))["time"]
	return epoch.Add(time.Duration(elapsed) * tick)
}
