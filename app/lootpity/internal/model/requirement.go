package model

import "fmt"

// RequirementKind 需求类型
type RequirementKind string

const (
	KindQuestItem   RequirementKind = "quest_item"
	KindQuestKey    RequirementKind = "quest_key"
	KindHideoutItem RequirementKind = "hideout_item"
)

// Requirement 未完成的物品需求
// 仅有 QuestItemRequirement、QuestKeyRequirement、HideoutItemRequirement 三种实现，
// 使用处应通过 type switch 穷举处理
type Requirement interface {
	Kind() RequirementKind
	Base() RequirementBase
	// RequiresFoundInRaid 是否只接受战局内获得的物品
	RequiresFoundInRaid() bool

	sealed()
}

// RequirementBase 所有需求共有的字段
type RequirementBase struct {
	ItemID              string `json:"itemId"`
	AmountRequired      int    `json:"amountRequired"`
	SecondsSinceStarted int64  `json:"secondsSinceStarted"`
	RaidsSinceStarted   int    `json:"raidsSinceStarted"`
}

// QuestItemRequirement 任务上交物品
type QuestItemRequirement struct {
	RequirementBase
	// ConditionID 对应的任务条件进度计数器
	ConditionID string `json:"conditionId"`
	FoundInRaid bool   `json:"foundInRaid"`
}

// QuestKeyRequirement 任务所需钥匙，固定需要 1 个，不要求 FIR
type QuestKeyRequirement struct {
	RequirementBase
}

// HideoutItemRequirement 藏身处升级所需物品，不要求 FIR
type HideoutItemRequirement struct {
	RequirementBase
}

func (r QuestItemRequirement) Kind() RequirementKind     { return KindQuestItem }
func (r QuestItemRequirement) Base() RequirementBase     { return r.RequirementBase }
func (r QuestItemRequirement) RequiresFoundInRaid() bool { return r.FoundInRaid }
func (QuestItemRequirement) sealed()                     {}

func (r QuestKeyRequirement) Kind() RequirementKind     { return KindQuestKey }
func (r QuestKeyRequirement) Base() RequirementBase     { return r.RequirementBase }
func (r QuestKeyRequirement) RequiresFoundInRaid() bool { return false }
func (QuestKeyRequirement) sealed()                     {}

func (r HideoutItemRequirement) Kind() RequirementKind     { return KindHideoutItem }
func (r HideoutItemRequirement) Base() RequirementBase     { return r.RequirementBase }
func (r HideoutItemRequirement) RequiresFoundInRaid() bool { return false }
func (HideoutItemRequirement) sealed()                     {}

// RequirementSet 调用方提供的三类未完成需求
type RequirementSet struct {
	QuestItems   []QuestItemRequirement   `json:"questItems"`
	QuestKeys    []QuestKeyRequirement    `json:"questKeys"`
	HideoutItems []HideoutItemRequirement `json:"hideoutItems"`
}

// All 按 任务物品、任务钥匙、藏身处物品 的顺序拼接
func (s *RequirementSet) All() []Requirement {
	if s == nil {
		return nil
	}
	all := make([]Requirement, 0, len(s.QuestItems)+len(s.QuestKeys)+len(s.HideoutItems))
	for _, r := range s.QuestItems {
		all = append(all, r)
	}
	for _, r := range s.QuestKeys {
		all = append(all, r)
	}
	for _, r := range s.HideoutItems {
		all = append(all, r)
	}
	return all
}

// Len 需求总数
func (s *RequirementSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.QuestItems) + len(s.QuestKeys) + len(s.HideoutItems)
}

// DescribeRequirement 用于日志输出
func DescribeRequirement(r Requirement) string {
	b := r.Base()
	return fmt.Sprintf("%s(%s x%d)", r.Kind(), b.ItemID, b.AmountRequired)
}
