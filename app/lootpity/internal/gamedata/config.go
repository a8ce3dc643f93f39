package gamedata

// Config 数据目录
//
//	<data_dir>/static_loot.json              固定容器掉落表
//	<data_dir>/locations/<name>.json         每张地图一个文件
//	<profiles_dir>/<id>/profile.json         玩家存档
//	<profiles_dir>/<id>/requirements.json    未完成需求
//	<output_dir>/<id>/static_loot.json       重算结果（output_dir 为空时不输出）
//	<output_dir>/<id>/locations.json
type Config struct {
	DataDir     string `mapstructure:"data_dir" validate:"required"`
	ProfilesDir string `mapstructure:"profiles_dir" validate:"required"`
	OutputDir   string `mapstructure:"output_dir"`
	// Indent 输出文件是否格式化
	Indent bool `mapstructure:"indent"`
	// CacheSize 缓存已解析的掉落表文件数，文件大小与修改时间不变时不重新解析；为 -1 时不缓存
	CacheSize int `mapstructure:"cache_size" validate:"gte=-1"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:     "data/database",
		ProfilesDir: "data/profiles",
		CacheSize:   64,
	}
}
