package service

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRewriteProbability 测试单条权重改写
func TestRewriteProbability(t *testing.T) {
	rates := model.DropRateTable{
		"x":   {TimeMultiplier: 1, RaidMultiplier: 2},
		"key": {TimeMultiplier: 1, RaidMultiplier: 2, IsKey: true},
		"big": {TimeMultiplier: 1, RaidMultiplier: 40},
		"odd": {TimeMultiplier: 1, RaidMultiplier: 1.5},
	}
	w := NewLootRewriter(rates, raidConfig(), nil)

	tests := []struct {
		name string
		tpl  string
		p    float64
		want float64
	}{
		{"absent item is identity", "none", 33.3, 33.3},
		{"multiplied", "x", 50, 100},
		{"key bonus after clamp", "key", 50, 150},
		{"ceiling respected", "big", 10, 50},
		{"half rounds away from zero", "odd", 3, 5},
		{"zero stays zero", "x", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.RewriteProbability(tt.tpl, tt.p))
		})
	}
}

// TestRewriteProbabilityCeiling 倍率上限对任意输入生效
func TestRewriteProbabilityCeiling(t *testing.T) {
	cfg := raidConfig()
	for _, mult := range []float64{1, 2.5, 5, 6, 1e6} {
		w := NewLootRewriter(model.DropRateTable{"x": {TimeMultiplier: 1, RaidMultiplier: mult}}, cfg, nil)
		got := w.RewriteProbability("x", 100)
		assert.LessOrEqual(t, got, 100*cfg.MaxDropRateMultiplier)
		assert.Equal(t, math.Round(100*math.Min(cfg.MaxDropRateMultiplier, mult)), got)
	}
}

// TestRewriteStaticLoot 测试容器掉落表改写
func TestRewriteStaticLoot(t *testing.T) {
	in := staticTable("x", 50)
	w := NewLootRewriter(model.DropRateTable{"x": {TimeMultiplier: 1, RaidMultiplier: 2}}, raidConfig(), nil)

	out := w.RewriteStaticLoot(in)
	require.Len(t, out, 1)
	require.Len(t, out["container"].ItemDistribution, 2)

	assert.Equal(t, 100.0, out["container"].ItemDistribution[0].RelativeProbability)
	assert.Equal(t, 7.0, out["container"].ItemDistribution[1].RelativeProbability)
	assert.Equal(t, in["container"].ItemCountDistribution, out["container"].ItemCountDistribution)
	assert.Equal(t, 1, w.Changed())

	// 输入不被修改
	assert.Equal(t, 50.0, in["container"].ItemDistribution[0].RelativeProbability)
}

// TestRewriteLocations 测试散落物品表改写
func TestRewriteLocations(t *testing.T) {
	in := model.LocationTables{
		"bigmap": {LooseLoot: &model.LooseLoot{
			SpawnpointCount: model.SpawnpointCount{Mean: 10, Std: 2},
			SpawnpointsForced: []model.Spawnpoint{{
				LocationID: "forced",
				Template:   model.SpawnpointTemplate{ID: "f", Items: []model.TemplateItem{{ID: "i0", Tpl: "x"}}},
			}},
			Spawnpoints: []model.Spawnpoint{{
				LocationID:  "sp1",
				Probability: 0.3,
				Template: model.SpawnpointTemplate{ID: "t1", Items: []model.TemplateItem{
					{ID: "i1", Tpl: "x"},
					{ID: "i2", Tpl: "other"},
				}},
				ItemDistribution: []model.SpawnpointWeight{
					{ComposedKey: model.ComposedKey{Key: "i1"}, RelativeProbability: 20},
					{ComposedKey: model.ComposedKey{Key: "i2"}, RelativeProbability: 20},
					{ComposedKey: model.ComposedKey{Key: "missing"}, RelativeProbability: 20},
				},
			}},
		}},
		"hideout": {},
		"nil":     nil,
	}

	w := NewLootRewriter(model.DropRateTable{"x": {TimeMultiplier: 1, RaidMultiplier: 3}}, raidConfig(), nil)
	out := w.RewriteLocations(in)

	require.Len(t, out, 3)
	assert.Nil(t, out["hideout"].LooseLoot)
	assert.Nil(t, out["nil"])

	sp := out["bigmap"].LooseLoot.Spawnpoints[0]
	require.Len(t, sp.ItemDistribution, 3)
	assert.Equal(t, 60.0, sp.ItemDistribution[0].RelativeProbability)
	assert.Equal(t, 20.0, sp.ItemDistribution[1].RelativeProbability)
	assert.Equal(t, 20.0, sp.ItemDistribution[2].RelativeProbability)
	assert.Equal(t, "missing", sp.ItemDistribution[2].ComposedKey.Key)
	assert.Equal(t, in["bigmap"].LooseLoot.SpawnpointsForced, out["bigmap"].LooseLoot.SpawnpointsForced)
	assert.Equal(t, in["bigmap"].LooseLoot.SpawnpointCount, out["bigmap"].LooseLoot.SpawnpointCount)
	assert.Equal(t, 1, w.Changed())

	// 输入不被修改
	assert.Equal(t, 20.0, in["bigmap"].LooseLoot.Spawnpoints[0].ItemDistribution[0].RelativeProbability)
}

// TestRewriteKeepsExtra 改写不丢失未建模字段
func TestRewriteKeepsExtra(t *testing.T) {
	base := json.RawMessage(`{"Id":"bigmap"}`)
	in := model.LocationTables{
		"bigmap": {
			Extra: model.Extra{"base": base},
			LooseLoot: &model.LooseLoot{Spawnpoints: []model.Spawnpoint{{
				Extra: model.Extra{"isAlwaysSpawn": json.RawMessage(`true`)},
				Template: model.SpawnpointTemplate{
					Extra: model.Extra{"Position": json.RawMessage(`{"x":1}`)},
					Items: []model.TemplateItem{{ID: "i1", Tpl: "x", Extra: model.Extra{"upd": json.RawMessage(`{}`)}}},
				},
				ItemDistribution: []model.SpawnpointWeight{{ComposedKey: model.ComposedKey{Key: "i1"}, RelativeProbability: 10}},
			}}},
		},
		"hideout": {Extra: model.Extra{"base": json.RawMessage(`{"Id":"hideout"}`)}},
	}
	static := staticTable("x", 50)
	static["container"].Extra = model.Extra{"comment": json.RawMessage(`"c"`)}

	w := NewLootRewriter(model.DropRateTable{"x": {TimeMultiplier: 1, RaidMultiplier: 2}}, raidConfig(), nil)
	out := w.RewriteLocations(in)
	outStatic := w.RewriteStaticLoot(static)

	assert.Equal(t, in["hideout"], out["hideout"])
	assert.NotSame(t, in["hideout"], out["hideout"])
	assert.Equal(t, in["bigmap"].Extra, out["bigmap"].Extra)
	sp := out["bigmap"].LooseLoot.Spawnpoints[0]
	assert.Equal(t, 20.0, sp.ItemDistribution[0].RelativeProbability)
	assert.Equal(t, in["bigmap"].LooseLoot.Spawnpoints[0].Extra, sp.Extra)
	assert.Equal(t, in["bigmap"].LooseLoot.Spawnpoints[0].Template, sp.Template)
	assert.Equal(t, static["container"].Extra, outStatic["container"].Extra)
}

func TestRewriteNilTables(t *testing.T) {
	w := NewLootRewriter(nil, raidConfig(), nil)
	assert.Nil(t, w.RewriteStaticLoot(nil))
	assert.Nil(t, w.RewriteLocations(nil))
}

// TestRewriterChangedAccumulates 同一个改写器的计数覆盖所有改写调用
func TestRewriterChangedAccumulates(t *testing.T) {
	locations := model.LocationTables{"woods": {LooseLoot: &model.LooseLoot{
		Spawnpoints: []model.Spawnpoint{{
			Template:         model.SpawnpointTemplate{Items: []model.TemplateItem{{ID: "i", Tpl: "x"}}},
			ItemDistribution: []model.SpawnpointWeight{{ComposedKey: model.ComposedKey{Key: "i"}, RelativeProbability: 10}},
		}},
	}}}
	w := NewLootRewriter(model.DropRateTable{"x": {TimeMultiplier: 1, RaidMultiplier: 2}}, raidConfig(), nil)

	w.RewriteStaticLoot(staticTable("x", 50))
	assert.Equal(t, 1, w.Changed())
	w.RewriteLocations(locations)
	assert.Equal(t, 2, w.Changed())

	// 新的一次重算需要新的改写器
	assert.Equal(t, 0, NewLootRewriter(nil, raidConfig(), nil).Changed())
}
