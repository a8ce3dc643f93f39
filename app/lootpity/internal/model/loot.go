package model

// StaticLootTable 固定容器掉落表，key 为容器模板 ID
type StaticLootTable map[string]*StaticContainer

// StaticContainer 单个容器的掉落配置
type StaticContainer struct {
	// ItemCountDistribution 掉落件数分布，重算时原样保留
	ItemCountDistribution []ItemCountWeight `json:"itemcountDistribution" codec:"count_dist"`
	ItemDistribution      []ItemWeight      `json:"itemDistribution" codec:"item_dist"`
	Extra                 Extra             `json:"-" codec:"extra,omitempty"`
}

// ItemCountWeight 件数权重
type ItemCountWeight struct {
	Count               int     `json:"count" codec:"count"`
	RelativeProbability float64 `json:"relativeProbability" codec:"p"`
}

// ItemWeight 物品权重，权重之间的比值决定容器内的出现概率
type ItemWeight struct {
	Tpl                 string  `json:"tpl" codec:"tpl"`
	RelativeProbability float64 `json:"relativeProbability" codec:"p"`
}

// LocationTables 所有地图的散落物品表，key 为地图名
type LocationTables map[string]*Location

// Location 单张地图
type Location struct {
	// LooseLoot 为空表示该地图没有散落物品配置
	LooseLoot *LooseLoot `json:"looseLoot,omitempty" codec:"loose_loot,omitempty"`
	// Extra 地图的其余配置，例如 base
	Extra Extra `json:"-" codec:"extra,omitempty"`
}

// LooseLoot 散落物品配置
type LooseLoot struct {
	SpawnpointCount   SpawnpointCount `json:"spawnpointCount" codec:"count"`
	SpawnpointsForced []Spawnpoint    `json:"spawnpointsForced" codec:"forced"`
	Spawnpoints       []Spawnpoint    `json:"spawnpoints" codec:"spawnpoints"`
	Extra             Extra           `json:"-" codec:"extra,omitempty"`
}

// SpawnpointCount 刷新点数量分布
type SpawnpointCount struct {
	Mean float64 `json:"mean" codec:"mean"`
	Std  float64 `json:"std" codec:"std"`
}

// Spawnpoint 刷新点
type Spawnpoint struct {
	LocationID       string             `json:"locationId" codec:"location_id"`
	Probability      float64            `json:"probability" codec:"probability"`
	Template         SpawnpointTemplate `json:"template" codec:"template"`
	ItemDistribution []SpawnpointWeight `json:"itemDistribution,omitempty" codec:"item_dist,omitempty"`
	Extra            Extra              `json:"-" codec:"extra,omitempty"`
}

// SpawnpointTemplate 刷新点可放置的物品实例
type SpawnpointTemplate struct {
	ID    string         `json:"Id" codec:"id"`
	Root  string         `json:"Root,omitempty" codec:"root,omitempty"`
	Items []TemplateItem `json:"Items" codec:"items"`
	Extra Extra          `json:"-" codec:"extra,omitempty"`
}

// TemplateItem 模板内的物品实例
type TemplateItem struct {
	ID  string `json:"_id" codec:"id"`
	Tpl string `json:"_tpl" codec:"tpl"`
	// Extra 例如 parentId、slotId、upd
	Extra Extra `json:"-" codec:"extra,omitempty"`
}

// SpawnpointWeight 刷新点物品权重，通过 ComposedKey 关联模板内的实例 ID
type SpawnpointWeight struct {
	ComposedKey         ComposedKey `json:"composedKey" codec:"key"`
	RelativeProbability float64     `json:"relativeProbability" codec:"p"`
}

// ComposedKey 实例 ID
type ComposedKey struct {
	Key string `json:"key" codec:"key"`
}

// ResolveTpl 根据实例 ID 查找模板 ID
func (t *SpawnpointTemplate) ResolveTpl(instanceID string) (string, bool) {
	for i := range t.Items {
		if t.Items[i].ID == instanceID {
			return t.Items[i].Tpl, true
		}
	}
	return "", false
}

// Clone 深拷贝
func (c *StaticContainer) Clone() *StaticContainer {
	if c == nil {
		return nil
	}
	return &StaticContainer{
		ItemCountDistribution: append([]ItemCountWeight(nil), c.ItemCountDistribution...),
		ItemDistribution:      append([]ItemWeight(nil), c.ItemDistribution...),
		Extra:                 c.Extra.Clone(),
	}
}

// Clone 深拷贝
func (s *Spawnpoint) Clone() Spawnpoint {
	out := *s
	out.Extra = s.Extra.Clone()
	out.Template.Extra = s.Template.Extra.Clone()
	if s.Template.Items != nil {
		out.Template.Items = make([]TemplateItem, len(s.Template.Items))
		for i, it := range s.Template.Items {
			it.Extra = it.Extra.Clone()
			out.Template.Items[i] = it
		}
	}
	out.ItemDistribution = append([]SpawnpointWeight(nil), s.ItemDistribution...)
	return out
}

// Clone 深拷贝
func (l *LooseLoot) Clone() *LooseLoot {
	if l == nil {
		return nil
	}
	out := &LooseLoot{SpawnpointCount: l.SpawnpointCount, Extra: l.Extra.Clone()}
	if l.SpawnpointsForced != nil {
		out.SpawnpointsForced = make([]Spawnpoint, len(l.SpawnpointsForced))
		for i := range l.SpawnpointsForced {
			out.SpawnpointsForced[i] = l.SpawnpointsForced[i].Clone()
		}
	}
	if l.Spawnpoints != nil {
		out.Spawnpoints = make([]Spawnpoint, len(l.Spawnpoints))
		for i := range l.Spawnpoints {
			out.Spawnpoints[i] = l.Spawnpoints[i].Clone()
		}
	}
	return out
}

// Clone 深拷贝
func (l *Location) Clone() *Location {
	if l == nil {
		return nil
	}
	return &Location{LooseLoot: l.LooseLoot.Clone(), Extra: l.Extra.Clone()}
}
