package model

// IncreaseType 概率提升的计算依据
type IncreaseType string

const (
	IncreaseByTime IncreaseType = "time"
	IncreaseByRaid IncreaseType = "raid"
)

// DropRateStats 单个物品的概率倍率
type DropRateStats struct {
	TimeMultiplier float64 `json:"timeMultiplier" codec:"time"`
	RaidMultiplier float64 `json:"raidMultiplier" codec:"raid"`
	IsKey          bool    `json:"isKey" codec:"key"`
}

// NewDropRateStats 新物品的倍率均从 1 开始
func NewDropRateStats() *DropRateStats {
	return &DropRateStats{TimeMultiplier: 1, RaidMultiplier: 1}
}

// Multiplier 返回指定依据下的倍率
func (s *DropRateStats) Multiplier(basis IncreaseType) float64 {
	if basis == IncreaseByRaid {
		return s.RaidMultiplier
	}
	return s.TimeMultiplier
}

// DropRateTable key 为物品模板 ID
type DropRateTable map[string]*DropRateStats
