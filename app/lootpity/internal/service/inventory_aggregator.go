package service

import "github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"

// AggregateInventory 按物品模板汇总背包，区分 FIR 与非 FIR 数量
func AggregateInventory(items []model.InventoryItem) map[string]*model.InventoryCount {
	counts := make(map[string]*model.InventoryCount)
	for i := range items {
		item := &items[i]
		c, ok := counts[item.Tpl]
		if !ok {
			c = &model.InventoryCount{}
			counts[item.Tpl] = c
		}
		if item.FoundInRaid() {
			c.FoundInRaid += item.StackCount()
		} else {
			c.NotFoundInRaid += item.StackCount()
		}
	}
	return counts
}
