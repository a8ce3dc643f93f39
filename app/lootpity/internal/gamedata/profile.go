package gamedata

import "github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"

// profileFile 存档文件中用到的部分
type profileFile struct {
	ID        string `json:"_id"`
	Inventory struct {
		Items []model.InventoryItem `json:"items"`
	} `json:"Inventory"`
	TaskConditionCounters map[string]conditionCounter `json:"TaskConditionCounters"`
}

type conditionCounter struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func (p *profileFile) snapshot(fallbackID string) *model.ProfileSnapshot {
	id := p.ID
	if id == "" {
		id = fallbackID
	}

	counters := make(map[string]int, len(p.TaskConditionCounters))
	for key, c := range p.TaskConditionCounters {
		// 以计数器内的 id 为准，缺省时使用 map key
		if c.ID != "" {
			key = c.ID
		}
		counters[key] = c.Value
	}

	return &model.ProfileSnapshot{
		ID:                id,
		Items:             p.Inventory.Items,
		ConditionCounters: counters,
	}
}
