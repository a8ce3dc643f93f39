package service

import (
	"testing"

	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAggregateInventory 测试背包汇总
func TestAggregateInventory(t *testing.T) {
	items := []model.InventoryItem{
		stack("a", 3, false),
		stack("a", 2, true),
		{ID: "1", Tpl: "a"},
		{ID: "2", Tpl: "b", Upd: &model.ItemUpd{SpawnedInSession: boolPtr(true)}},
		{ID: "3", Tpl: "c", Upd: &model.ItemUpd{StackObjectsCount: intPtr(60)}},
	}

	counts := AggregateInventory(items)
	require.Len(t, counts, 3)

	assert.Equal(t, model.InventoryCount{FoundInRaid: 2, NotFoundInRaid: 4}, *counts["a"])
	assert.Equal(t, model.InventoryCount{FoundInRaid: 1}, *counts["b"])
	assert.Equal(t, model.InventoryCount{NotFoundInRaid: 60}, *counts["c"])
}

func TestAggregateInventoryEmpty(t *testing.T) {
	assert.Empty(t, AggregateInventory(nil))
}
