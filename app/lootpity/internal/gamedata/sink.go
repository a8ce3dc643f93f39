package gamedata

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
)

// OutputEnabled 是否配置了输出目录
func (ld *Loader) OutputEnabled() bool {
	return ld.cfg.OutputDir != ""
}

// WriteResult 将重算结果写入 <output_dir>/<id>/，未配置输出目录时什么都不做
func (ld *Loader) WriteResult(profileID string, staticLoot model.StaticLootTable, locations model.LocationTables) error {
	if !ld.OutputEnabled() {
		return nil
	}

	dir := filepath.Join(ld.cfg.OutputDir, profileID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output dir %s", dir)
	}

	if err := ld.writeJSON(filepath.Join(dir, staticLootFile), staticLoot); err != nil {
		return err
	}
	return ld.writeJSON(filepath.Join(dir, "locations.json"), locations)
}

// writeJSON 先写临时文件再 rename，读取方不会看到半个文件
func (ld *Loader) writeJSON(path string, v any) error {
	var (
		data []byte
		err  error
	)
	if ld.cfg.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "rename %s", tmp)
	}
	return nil
}
