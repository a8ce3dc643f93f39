package service

import (
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
)

// RecomputeResult 一次重算的结果
type RecomputeResult struct {
	StaticLoot model.StaticLootTable
	Locations  model.LocationTables
	// Incomplete 库存无法满足的需求（排序后的顺序）
	Incomplete []model.Requirement
	DropRates  model.DropRateTable
	// Changed 被改写的权重条目数
	Changed int
}

// PityService 保底掉落服务，根据玩家尚未完成的需求提高对应物品的掉落权重
type PityService struct {
	logger logger.Logger
}

// NewPityService 创建保底掉落服务
func NewPityService(l logger.Logger) *PityService {
	if l == nil {
		l = logger.NewNoop()
	}
	return &PityService{
		logger: l.Named("service.pity"),
	}
}

// RecomputeLootTables 重算掉落表
// 流程：汇总背包 -> 抵扣需求 -> 计算倍率 -> 改写掉落表，全程同步执行且不保留任何状态。
// 只有参数无效时返回错误，数据缺失一律按“未满足”或“原样保留”处理。
func (s *PityService) RecomputeLootTables(
	profile *model.ProfileSnapshot,
	requirements *model.RequirementSet,
	staticLoot model.StaticLootTable,
	locations model.LocationTables,
	cfg PityConfig,
) (*RecomputeResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "recompute loot tables"), ErrInvalidPityConfig)
	}

	l := s.logger
	if profile != nil && profile.ID != "" {
		l = l.WithFields("profile_id", profile.ID)
	}

	// 1. 汇总背包
	var items []model.InventoryItem
	if profile != nil {
		items = profile.Items
	}
	inventory := AggregateInventory(items)

	// 2. 抵扣需求
	incomplete := ResolveIncomplete(inventory, profile, requirements.All(), cfg, l)

	// 3. 计算倍率
	rates := CalculateDropRates(incomplete, cfg, l)

	// 4. 改写掉落表
	rewriter := NewLootRewriter(rates, cfg, l)
	result := &RecomputeResult{
		StaticLoot: rewriter.RewriteStaticLoot(staticLoot),
		Locations:  rewriter.RewriteLocations(locations),
		Incomplete: incomplete,
		DropRates:  rates,
	}
	result.Changed = rewriter.Changed()

	if cfg.Debug {
		l.Info("loot tables recomputed",
			"requirements", requirements.Len(),
			"incomplete", len(incomplete),
			"boosted_items", len(rates),
			"changed", result.Changed,
		)
	}
	return result, nil
}
