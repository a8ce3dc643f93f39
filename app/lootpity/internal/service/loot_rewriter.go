package service

import (
	"math"

	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
)

// LootRewriter 按物品倍率改写掉落表
// 输入表不会被修改，返回值是结构完全相同的新表。
// 一次重算使用一个 LootRewriter：Changed 累计本实例所有 Rewrite* 调用改写的条目数，不会重置。
type LootRewriter struct {
	cfg     PityConfig
	rates   model.DropRateTable
	logger  logger.Logger
	changed int
}

// NewLootRewriter 创建改写器
func NewLootRewriter(rates model.DropRateTable, cfg PityConfig, l logger.Logger) *LootRewriter {
	if l == nil {
		l = logger.NewNoop()
	}
	return &LootRewriter{
		cfg:    cfg,
		rates:  rates,
		logger: l,
	}
}

// RewriteProbability 计算物品的新权重
// 结果用 math.Round 取整（.5 远离零），没有倍率的物品原样返回
func (w *LootRewriter) RewriteProbability(tpl string, probability float64) float64 {
	stats, ok := w.rates[tpl]
	if !ok {
		return probability
	}

	v := probability * math.Min(w.cfg.MaxDropRateMultiplier, stats.Multiplier(w.cfg.DropRateIncreaseType))
	if stats.IsKey {
		v *= w.cfg.KeysAdditionalMultiplier
	}
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	return v
}

// Changed 本实例创建以来 RewriteStaticLoot 与 RewriteLocations 改写的条目总数
func (w *LootRewriter) Changed() int {
	return w.changed
}

// RewriteStaticLoot 改写所有容器的物品权重
func (w *LootRewriter) RewriteStaticLoot(table model.StaticLootTable) model.StaticLootTable {
	if table == nil {
		return nil
	}

	out := make(model.StaticLootTable, len(table))
	for containerID, container := range table {
		cp := container.Clone()
		if cp != nil {
			for i := range cp.ItemDistribution {
				entry := &cp.ItemDistribution[i]
				newP := w.RewriteProbability(entry.Tpl, entry.RelativeProbability)
				if newP == entry.RelativeProbability {
					continue
				}
				if w.cfg.Trace {
					w.logger.Info("static loot probability changed",
						"container", containerID,
						"tpl", entry.Tpl,
						"from", entry.RelativeProbability,
						"to", newP,
					)
				}
				entry.RelativeProbability = newP
				w.changed++
			}
		}
		out[containerID] = cp
	}
	return out
}

// RewriteLocations 改写所有地图散落物品刷新点的权重
// 权重条目通过 ComposedKey 在刷新点模板中查找物品模板，找不到的条目保持不变
func (w *LootRewriter) RewriteLocations(locations model.LocationTables) model.LocationTables {
	if locations == nil {
		return nil
	}

	out := make(model.LocationTables, len(locations))
	for name, loc := range locations {
		if loc == nil {
			out[name] = nil
			continue
		}
		cp := loc.Clone()
		if cp.LooseLoot != nil {
			for i := range cp.LooseLoot.Spawnpoints {
				w.rewriteSpawnpoint(name, &cp.LooseLoot.Spawnpoints[i])
			}
		}
		out[name] = cp
	}
	return out
}

// rewriteSpawnpoint 改写单个刷新点
func (w *LootRewriter) rewriteSpawnpoint(location string, sp *model.Spawnpoint) {
	for i := range sp.ItemDistribution {
		entry := &sp.ItemDistribution[i]
		tpl, ok := sp.Template.ResolveTpl(entry.ComposedKey.Key)
		if !ok {
			continue
		}
		newP := w.RewriteProbability(tpl, entry.RelativeProbability)
		if newP == entry.RelativeProbability {
			continue
		}
		if w.cfg.Trace {
			w.logger.Info("loose loot probability changed",
				"location", location,
				"spawnpoint", sp.LocationID,
				"tpl", tpl,
				"from", entry.RelativeProbability,
				"to", newP,
			)
		}
		entry.RelativeProbability = newP
		w.changed++
	}
}
