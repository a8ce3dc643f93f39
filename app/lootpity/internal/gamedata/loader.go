package gamedata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/lk2023060901/xdooria-lootpity/pkg/cache/lru"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
)

const (
	staticLootFile   = "static_loot.json"
	locationsDir     = "locations"
	profileFileName  = "profile.json"
	requirementsFile = "requirements.json"
)

// Loader 从本地 JSON 文件读取掉落表与玩家数据
type Loader struct {
	cfg    *Config
	logger logger.Logger
	// 掉落表文件缓存，key 为文件路径；为 nil 时不缓存
	tables *lru.LRU[string, *cachedFile]
}

type cachedFile struct {
	modTime time.Time
	size    int64
	value   any
}

// NewLoader cfg 与默认配置合并
func NewLoader(cfg *Config, l logger.Logger) (*Loader, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, err
	}
	if err := config.NewValidator().Validate(newCfg); err != nil {
		return nil, errors.Wrap(err, "gamedata config")
	}
	if l == nil {
		l = logger.NewNoop()
	}

	ld := &Loader{cfg: newCfg, logger: l.Named("gamedata")}
	if newCfg.CacheSize > 0 {
		ld.tables, err = lru.New[string, *cachedFile](&lru.Config{MaxSize: newCfg.CacheSize})
		if err != nil {
			return nil, errors.Wrap(err, "new table cache")
		}
	}
	return ld, nil
}

func (ld *Loader) Config() *Config {
	return ld.cfg
}

// LoadStaticLoot 文件不存在时返回空表
func (ld *Loader) LoadStaticLoot() (model.StaticLootTable, error) {
	if err := ld.checkDataDir(); err != nil {
		return nil, err
	}

	path := filepath.Join(ld.cfg.DataDir, staticLootFile)
	table, found, err := readCachedJSON[model.StaticLootTable](ld, path)
	if err != nil {
		return nil, err
	}
	if !found {
		ld.logger.Warn("static loot file not found, using empty table", "path", path)
		return model.StaticLootTable{}, nil
	}
	if table == nil {
		table = model.StaticLootTable{}
	}
	return table, nil
}

// LoadLocations 读取 locations 目录下的所有 json，文件名（去掉扩展名）作为地图名
func (ld *Loader) LoadLocations() (model.LocationTables, error) {
	if err := ld.checkDataDir(); err != nil {
		return nil, err
	}

	dir := filepath.Join(ld.cfg.DataDir, locationsDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		ld.logger.Warn("locations dir not found, using empty tables", "path", dir)
		return model.LocationTables{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read locations dir %s", dir)
	}

	tables := make(model.LocationTables, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")

		loc, found, err := readCachedJSON[*model.Location](ld, filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if !found || loc == nil {
			loc = &model.Location{}
		}
		tables[name] = loc
	}
	return tables, nil
}

// ListProfiles 返回包含 profile.json 的子目录名，按字典序
func (ld *Loader) ListProfiles() ([]string, error) {
	entries, err := os.ReadDir(ld.cfg.ProfilesDir)
	if os.IsNotExist(err) {
		ld.logger.Warn("profiles dir not found", "path", ld.cfg.ProfilesDir)
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read profiles dir %s", ld.cfg.ProfilesDir)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(ld.cfg.ProfilesDir, entry.Name(), profileFileName)); err == nil {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// LoadProfile 读取存档与需求，需求文件不存在时视为没有需求
func (ld *Loader) LoadProfile(id string) (*model.ProfileSnapshot, *model.RequirementSet, error) {
	dir := filepath.Join(ld.cfg.ProfilesDir, id)

	var pf profileFile
	found, err := readJSON(filepath.Join(dir, profileFileName), &pf)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, errors.Wrapf(ErrProfileNotFound, "profile %s", id)
	}

	reqs := &model.RequirementSet{}
	found, err = readJSON(filepath.Join(dir, requirementsFile), reqs)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		ld.logger.Debug("requirements file not found, treating as none", "profile_id", id)
	}

	return pf.snapshot(id), reqs, nil
}

func (ld *Loader) checkDataDir() error {
	if _, err := os.Stat(ld.cfg.DataDir); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrDataDirNotFound, "%s", ld.cfg.DataDir)
		}
		return errors.Wrapf(err, "stat data dir %s", ld.cfg.DataDir)
	}
	return nil
}

// readCachedJSON 文件大小与修改时间和上次一致时返回缓存的解析结果
// 返回值在多个玩家之间共享，调用方只读
func readCachedJSON[T any](ld *Loader, path string) (T, bool, error) {
	var zero T
	if ld.tables == nil {
		var v T
		found, err := readJSON(path, &v)
		return v, found, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		ld.tables.Delete(path)
		return zero, false, nil
	}
	if err != nil {
		return zero, false, errors.Wrapf(err, "stat %s", path)
	}

	if cf, ok := ld.tables.Get(path); ok && cf.size == info.Size() && cf.modTime.Equal(info.ModTime()) {
		if v, ok := cf.value.(T); ok {
			return v, true, nil
		}
	}

	var v T
	found, err := readJSON(path, &v)
	if err != nil || !found {
		ld.tables.Delete(path)
		return zero, found, err
	}
	ld.tables.Set(path, &cachedFile{modTime: info.ModTime(), size: info.Size(), value: v})
	ld.logger.Debug("table file parsed", "path", path, "size", info.Size())
	return v, true, nil
}

// readJSON 文件不存在时返回 false 且不报错
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Mark(errors.Wrapf(err, "decode %s", path), ErrMalformedFile)
	}
	return true, nil
}
