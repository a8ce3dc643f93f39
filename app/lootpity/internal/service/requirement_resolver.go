package service

import (
	"sort"

	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
)

// ResolveIncomplete 用库存逐个抵扣需求，返回无法满足的需求
//
// 需求先稳定排序一次：要求 FIR 的任务物品排在最前，它们只能消耗数量有限的 FIR 库存；
// 同一档内按已开始的战局数（raid 模式）或秒数（time 模式）升序。这只是启发式顺序，
// 多个需求争夺同一堆库存时并不存在唯一正确的分配。
//
// inventory 不会被修改，抵扣在副本上进行，已满足需求消耗的数量对后续需求持续生效。
func ResolveIncomplete(
	inventory map[string]*model.InventoryCount,
	profile *model.ProfileSnapshot,
	requirements []model.Requirement,
	cfg PityConfig,
	l logger.Logger,
) []model.Requirement {
	if l == nil {
		l = logger.NewNoop()
	}

	working := make(map[string]*model.InventoryCount, len(inventory))
	for tpl, c := range inventory {
		cp := *c
		working[tpl] = &cp
	}

	var incomplete []model.Requirement
	for _, req := range sortRequirements(requirements, cfg.byRaid()) {
		if consumeRequirement(working, profile, req) {
			continue
		}
		incomplete = append(incomplete, req)

		if cfg.Debug {
			base := req.Base()
			l.Info("requirement incomplete",
				"kind", req.Kind(),
				"item_id", base.ItemID,
				"amount_required", base.AmountRequired,
			)
		}
	}
	return incomplete
}

// sortRequirements 返回排好序的副本
func sortRequirements(requirements []model.Requirement, byRaid bool) []model.Requirement {
	sorted := append([]model.Requirement(nil), requirements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		fi, fj := sorted[i].RequiresFoundInRaid(), sorted[j].RequiresFoundInRaid()
		if fi != fj {
			return fi
		}
		bi, bj := sorted[i].Base(), sorted[j].Base()
		if byRaid {
			return bi.RaidsSinceStarted < bj.RaidsSinceStarted
		}
		return bi.SecondsSinceStarted < bj.SecondsSinceStarted
	})
	return sorted
}

// consumeRequirement 尝试用库存满足需求，成功时扣减库存
// 库存中没有该物品时直接视为未满足，即使任务进度已经足够
func consumeRequirement(working map[string]*model.InventoryCount, profile *model.ProfileSnapshot, req model.Requirement) bool {
	stock, ok := working[req.Base().ItemID]
	if !ok {
		return false
	}

	var need int
	firOnly := false

	switch r := req.(type) {
	case model.QuestItemRequirement:
		need = r.AmountRequired - profile.ConditionProgress(r.ConditionID)
		firOnly = r.FoundInRaid
	case model.QuestKeyRequirement:
		need = 1
	case model.HideoutItemRequirement:
		need = r.AmountRequired
	default:
		return false
	}

	// 进度已足够，不再需要物品
	if need <= 0 {
		return true
	}

	if firOnly {
		return consumeFoundInRaid(stock, need)
	}
	return consumePreferNotFoundInRaid(stock, need)
}

// consumeFoundInRaid 只消耗 FIR 库存
func consumeFoundInRaid(stock *model.InventoryCount, need int) bool {
	if stock.FoundInRaid < need {
		return false
	}
	stock.FoundInRaid -= need
	return true
}

// consumePreferNotFoundInRaid 先消耗非 FIR 库存，不足时用完非 FIR 再从 FIR 补齐
func consumePreferNotFoundInRaid(stock *model.InventoryCount, need int) bool {
	if stock.NotFoundInRaid >= need {
		stock.NotFoundInRaid -= need
		return true
	}
	if stock.Total() < need {
		return false
	}
	stock.FoundInRaid -= need - stock.NotFoundInRaid
	stock.NotFoundInRaid = 0
	return true
}
