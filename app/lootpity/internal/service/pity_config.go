package service

import (
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
)

// PityConfig 保底概率提升参数
// 一次重算过程中只读
type PityConfig struct {
	// MaxDropRateMultiplier 倍率上限
	MaxDropRateMultiplier float64 `mapstructure:"max_drop_rate_multiplier" json:"max_drop_rate_multiplier" validate:"gt=0"`
	// DropRateIncreaseType 按时间（time）或按战局数（raid）提升
	DropRateIncreaseType model.IncreaseType `mapstructure:"drop_rate_increase_type" json:"drop_rate_increase_type" validate:"oneof=time raid"`
	// DropRateIncreasePerRaid 每个战局增加的倍率
	DropRateIncreasePerRaid float64 `mapstructure:"drop_rate_increase_per_raid" json:"drop_rate_increase_per_raid" validate:"gte=0"`
	// DropRateIncreasePerHour 每小时增加的倍率
	DropRateIncreasePerHour float64 `mapstructure:"drop_rate_increase_per_hour" json:"drop_rate_increase_per_hour" validate:"gte=0"`
	// KeysAdditionalMultiplier 钥匙在倍率上限之后额外乘的系数
	KeysAdditionalMultiplier float64 `mapstructure:"keys_additional_multiplier" json:"keys_additional_multiplier" validate:"gt=0"`
	// IncreasesStack 同一物品的多个需求是否叠加
	IncreasesStack bool `mapstructure:"increases_stack" json:"increases_stack"`

	// Debug 输出每个未完成需求和物品倍率
	Debug bool `mapstructure:"debug" json:"debug"`
	// Trace 输出每一条被修改的概率
	Trace bool `mapstructure:"trace" json:"trace"`
}

// DefaultPityConfig 默认参数
func DefaultPityConfig() PityConfig {
	return PityConfig{
		MaxDropRateMultiplier:    5,
		DropRateIncreaseType:     model.IncreaseByRaid,
		DropRateIncreasePerRaid:  0.1,
		DropRateIncreasePerHour:  0.05,
		KeysAdditionalMultiplier: 1.5,
	}
}

// PityConfigDefaults 以 viper 默认值的形式返回，key 带上配置段前缀
func PityConfigDefaults(section string) map[string]any {
	d := DefaultPityConfig()
	return map[string]any{
		section + ".max_drop_rate_multiplier":    d.MaxDropRateMultiplier,
		section + ".drop_rate_increase_type":     string(d.DropRateIncreaseType),
		section + ".drop_rate_increase_per_raid": d.DropRateIncreasePerRaid,
		section + ".drop_rate_increase_per_hour": d.DropRateIncreasePerHour,
		section + ".keys_additional_multiplier":  d.KeysAdditionalMultiplier,
		section + ".increases_stack":             d.IncreasesStack,
		section + ".debug":                       d.Debug,
		section + ".trace":                       d.Trace,
	}
}

var pityValidator = config.NewValidator()

// Validate 校验参数
func (c PityConfig) Validate() error {
	return pityValidator.Validate(c)
}

// byRaid 是否按战局数计算
func (c PityConfig) byRaid() bool {
	return c.DropRateIncreaseType == model.IncreaseByRaid
}
