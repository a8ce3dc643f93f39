package service

import "github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// stack 构造一个背包物品
func stack(tpl string, count int, fir bool) model.InventoryItem {
	return model.InventoryItem{
		ID:  tpl + "-stack",
		Tpl: tpl,
		Upd: &model.ItemUpd{
			StackObjectsCount: intPtr(count),
			SpawnedInSession:  boolPtr(fir),
		},
	}
}

// raidConfig 按战局数计算、不叠加、上限 5
func raidConfig() PityConfig {
	cfg := DefaultPityConfig()
	cfg.DropRateIncreaseType = model.IncreaseByRaid
	cfg.DropRateIncreasePerRaid = 0.1
	cfg.MaxDropRateMultiplier = 5
	cfg.KeysAdditionalMultiplier = 1.5
	return cfg
}

// timeConfig 按时间计算
func timeConfig() PityConfig {
	cfg := raidConfig()
	cfg.DropRateIncreaseType = model.IncreaseByTime
	cfg.DropRateIncreasePerHour = 0.05
	return cfg
}

func hideout(itemID string, amount, raids int) model.HideoutItemRequirement {
	return model.HideoutItemRequirement{RequirementBase: model.RequirementBase{
		ItemID: itemID, AmountRequired: amount, RaidsSinceStarted: raids,
	}}
}

func questKey(itemID string, raids int) model.QuestKeyRequirement {
	return model.QuestKeyRequirement{RequirementBase: model.RequirementBase{
		ItemID: itemID, AmountRequired: 1, RaidsSinceStarted: raids,
	}}
}

func questItem(itemID string, amount int, fir bool, conditionID string) model.QuestItemRequirement {
	return model.QuestItemRequirement{
		RequirementBase: model.RequirementBase{ItemID: itemID, AmountRequired: amount},
		ConditionID:     conditionID,
		FoundInRaid:     fir,
	}
}

func staticTable(tpl string, p float64) model.StaticLootTable {
	return model.StaticLootTable{
		"container": {
			ItemCountDistribution: []model.ItemCountWeight{{Count: 1, RelativeProbability: 10}},
			ItemDistribution: []model.ItemWeight{
				{Tpl: tpl, RelativeProbability: p},
				{Tpl: "other", RelativeProbability: 7},
			},
		},
	}
}
