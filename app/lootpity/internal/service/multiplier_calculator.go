package service

import (
	"math"

	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
)

const secondsPerHour = 3600

// CalculateDropRates 根据未完成需求计算每个物品的倍率
//
// 每个需求给出一个候选值，物品倍率取已有值与候选值中的较大者。
// 开启 IncreasesStack 时候选值以当前倍率为基数，否则以 1 为基数，
// 因此同一物品的多个需求只有在叠加模式下才会累加。
func CalculateDropRates(incomplete []model.Requirement, cfg PityConfig, l logger.Logger) model.DropRateTable {
	if l == nil {
		l = logger.NewNoop()
	}

	rates := make(model.DropRateTable)
	for _, req := range incomplete {
		base := req.Base()
		stats, ok := rates[base.ItemID]
		if !ok {
			stats = model.NewDropRateStats()
			rates[base.ItemID] = stats
		}

		switch req.(type) {
		case model.QuestKeyRequirement:
			stats.IsKey = true
		case model.QuestItemRequirement, model.HideoutItemRequirement:
			// 非钥匙需求不改变 IsKey，已由钥匙需求置为 true 的保持 true
		}

		timeBase, raidBase := 1.0, 1.0
		if cfg.IncreasesStack {
			timeBase, raidBase = stats.TimeMultiplier, stats.RaidMultiplier
		}

		hours := math.Round(float64(base.SecondsSinceStarted) / secondsPerHour)
		stats.TimeMultiplier = math.Max(stats.TimeMultiplier, hours*cfg.DropRateIncreasePerHour+timeBase)
		stats.RaidMultiplier = math.Max(stats.RaidMultiplier, float64(base.RaidsSinceStarted)*cfg.DropRateIncreasePerRaid+raidBase)
	}

	if cfg.Debug {
		for itemID, stats := range rates {
			l.Info("drop rate multiplier",
				"item_id", itemID,
				"basis", cfg.DropRateIncreaseType,
				"multiplier", stats.Multiplier(cfg.DropRateIncreaseType),
				"is_key", stats.IsKey,
			)
		}
	}
	return rates
}
