package model

// InventoryItem 玩家背包中的一个物品实例（与存档中的结构保持一致）
type InventoryItem struct {
	ID  string   `json:"_id" codec:"id"`
	Tpl string   `json:"_tpl" codec:"tpl"`
	Upd *ItemUpd `json:"upd,omitempty" codec:"upd,omitempty"`
}

// ItemUpd 物品的可变属性
type ItemUpd struct {
	// StackObjectsCount 堆叠数量，缺省为 1
	StackObjectsCount *int `json:"StackObjectsCount,omitempty" codec:"stack,omitempty"`
	// SpawnedInSession 是否为战局内获得（FIR），缺省为 false
	SpawnedInSession *bool `json:"SpawnedInSession,omitempty" codec:"fir,omitempty"`
}

// StackCount 返回堆叠数量，未设置时为 1
func (i *InventoryItem) StackCount() int {
	if i.Upd == nil || i.Upd.StackObjectsCount == nil {
		return 1
	}
	return *i.Upd.StackObjectsCount
}

// FoundInRaid 是否为战局内获得
func (i *InventoryItem) FoundInRaid() bool {
	if i.Upd == nil || i.Upd.SpawnedInSession == nil {
		return false
	}
	return *i.Upd.SpawnedInSession
}

// InventoryCount 单个物品模板的库存统计
// 两个计数始终非负，NFIR 耗尽即为 0
type InventoryCount struct {
	FoundInRaid    int
	NotFoundInRaid int
}

// Total 全部可用数量
func (c *InventoryCount) Total() int {
	return c.FoundInRaid + c.NotFoundInRaid
}

// ProfileSnapshot 玩家存档快照（只包含重算所需的部分）
type ProfileSnapshot struct {
	ID    string
	Items []InventoryItem
	// ConditionCounters 任务条件进度，key 为条件 ID
	ConditionCounters map[string]int
}

// ConditionProgress 返回条件进度，不存在时为 0
func (p *ProfileSnapshot) ConditionProgress(conditionID string) int {
	if p == nil || p.ConditionCounters == nil {
		return 0
	}
	return p.ConditionCounters[conditionID]
}
