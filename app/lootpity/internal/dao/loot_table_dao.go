package dao

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/metrics"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/lk2023060901/xdooria-lootpity/pkg/checksum"
	"github.com/lk2023060901/xdooria-lootpity/pkg/compress"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
	"github.com/lk2023060901/xdooria-lootpity/pkg/database/redis"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
	"github.com/lk2023060901/xdooria-lootpity/pkg/serializer"
)

// hash 字段
const (
	fieldPayload     = "payload"
	fieldChecksum    = "checksum"
	fieldCodec       = "codec"
	fieldCompression = "compression"
	fieldUpdatedAt   = "updated_at"
	fieldPassID      = "pass_id"
)

var (
	ErrSnapshotNotFound = errors.New("loot snapshot not found")
	ErrChecksumMismatch = errors.New("loot snapshot checksum mismatch")
)

// StoreConfig 重算结果的存储配置
type StoreConfig struct {
	// Enabled 为 false 时不连接 redis
	Enabled     bool            `mapstructure:"enabled"`
	KeyPrefix   string          `mapstructure:"key_prefix"`
	Codec       serializer.Type `mapstructure:"codec" validate:"omitempty,oneof=msgpack json"`
	Compression compress.Type   `mapstructure:"compression" validate:"omitempty,oneof=none snappy zstd lz4"`
	// TTL 为 0 时不过期
	TTL time.Duration `mapstructure:"ttl"`
}

func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		KeyPrefix:   "lootpity:tables:",
		Codec:       serializer.TypeMsgpack,
		Compression: compress.TypeZstd,
		TTL:         24 * time.Hour,
	}
}

// KVStore LootTableDAO 用到的 redis 操作
type KVStore interface {
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSetWithTTL(ctx context.Context, key string, fields map[string]any, ttl time.Duration) error
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) (int64, error)
}

// LootSnapshot 单个玩家的重算结果
type LootSnapshot struct {
	ProfileID  string                `codec:"profile_id" json:"profile_id"`
	StaticLoot model.StaticLootTable `codec:"static_loot" json:"static_loot"`
	Locations  model.LocationTables  `codec:"locations" json:"locations"`
	DropRates  model.DropRateTable   `codec:"drop_rates" json:"drop_rates"`
	// GeneratedAt 与 PassID 单独存为 hash 字段，不参与 checksum
	GeneratedAt int64 `codec:"generated_at" json:"generated_at"`
	PassID      int64 `codec:"pass_id" json:"pass_id"`
}

// LootTableDAO 重算结果存储
// 每个玩家一个 hash，payload 为编码并压缩后的快照，checksum 为未压缩编码的 xxhash
type LootTableDAO struct {
	store      KVStore
	cfg        *StoreConfig
	codec      serializer.Serializer
	compressor compress.Compressor
	logger     logger.Logger
	metrics    *metrics.JobMetrics
}

// NewLootTableDAO store 可以是 *redis.Client
func NewLootTableDAO(store KVStore, cfg *StoreConfig, l logger.Logger, m *metrics.JobMetrics) (*LootTableDAO, error) {
	newCfg, err := config.MergeConfig(DefaultStoreConfig(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "merge store config")
	}
	if err := config.NewValidator().Validate(newCfg); err != nil {
		return nil, errors.Wrap(err, "store config")
	}

	codec, err := serializer.New(newCfg.Codec)
	if err != nil {
		return nil, err
	}
	compressor, err := compress.New(newCfg.Compression)
	if err != nil {
		return nil, err
	}

	if l == nil {
		l = logger.NewNoop()
	}

	return &LootTableDAO{
		store:      store,
		cfg:        newCfg,
		codec:      codec,
		compressor: compressor,
		logger:     l.Named("dao.loot_table"),
		metrics:    m,
	}, nil
}

func (d *LootTableDAO) key(profileID string) string {
	return d.cfg.KeyPrefix + profileID
}

// Save 写入快照，内容未变化时只刷新过期时间并返回 false
func (d *LootTableDAO) Save(ctx context.Context, snap *LootSnapshot) (bool, error) {
	key := d.key(snap.ProfileID)

	generatedAt, passID := snap.GeneratedAt, snap.PassID
	snap.GeneratedAt, snap.PassID = 0, 0
	encoded, err := d.codec.Serialize(snap)
	snap.GeneratedAt, snap.PassID = generatedAt, passID
	if err != nil {
		d.record(metrics.StoreFailed)
		return false, errors.Wrapf(err, "encode snapshot %s", snap.ProfileID)
	}
	sum := checksum.SumString(encoded)

	existing, err := d.store.HGet(ctx, key, fieldChecksum)
	if err != nil && !errors.Is(err, redis.ErrNil) {
		d.record(metrics.StoreFailed)
		d.logger.Error("failed to read snapshot checksum", "profile_id", snap.ProfileID, "error", err)
		return false, errors.Wrapf(err, "read checksum %s", key)
	}
	if err == nil && existing == sum {
		if d.cfg.TTL > 0 {
			if _, err := d.store.Expire(ctx, key, d.cfg.TTL); err != nil {
				d.logger.Warn("failed to refresh snapshot ttl", "profile_id", snap.ProfileID, "error", err)
			}
		}
		d.record(metrics.StoreUnchanged)
		return false, nil
	}

	payload, err := d.compressor.Compress(encoded)
	if err != nil {
		d.record(metrics.StoreFailed)
		return false, errors.Wrapf(err, "compress snapshot %s", snap.ProfileID)
	}

	fields := map[string]any{
		fieldPayload:     payload,
		fieldChecksum:    sum,
		fieldCodec:       d.codec.Name(),
		fieldCompression: d.compressor.Name(),
		fieldUpdatedAt:   strconv.FormatInt(generatedAt, 10),
		fieldPassID:      strconv.FormatInt(passID, 10),
	}
	if err := d.store.HSetWithTTL(ctx, key, fields, d.cfg.TTL); err != nil {
		d.record(metrics.StoreFailed)
		d.logger.Error("failed to save snapshot", "profile_id", snap.ProfileID, "error", err)
		return false, errors.Wrapf(err, "save snapshot %s", key)
	}

	d.record(metrics.StoreWritten)
	d.logger.Debug("snapshot saved",
		"profile_id", snap.ProfileID,
		"pass_id", passID,
		"encoded_bytes", len(encoded),
		"stored_bytes", len(payload),
		"compression", d.compressor.Name(),
	)
	return true, nil
}

// Load 读取快照，按写入时记录的编码与压缩方式解码，不受当前配置影响
func (d *LootTableDAO) Load(ctx context.Context, profileID string) (*LootSnapshot, error) {
	key := d.key(profileID)

	fields, err := d.store.HGetAll(ctx, key)
	if errors.Is(err, redis.ErrNil) {
		return nil, errors.Wrapf(ErrSnapshotNotFound, "profile %s", profileID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load snapshot %s", key)
	}

	compressor, err := compress.New(compress.Type(fields[fieldCompression]))
	if err != nil {
		return nil, err
	}
	codec, err := serializer.New(serializer.Type(fields[fieldCodec]))
	if err != nil {
		return nil, err
	}

	encoded, err := compressor.Decompress([]byte(fields[fieldPayload]))
	if err != nil {
		return nil, errors.Wrapf(err, "decompress snapshot %s", key)
	}
	if !checksum.Verify(encoded, fields[fieldChecksum]) {
		return nil, errors.Wrapf(ErrChecksumMismatch, "profile %s", profileID)
	}

	snap := &LootSnapshot{}
	if err := codec.Deserialize(encoded, snap); err != nil {
		return nil, errors.Wrapf(err, "decode snapshot %s", key)
	}
	if ts, err := strconv.ParseInt(fields[fieldUpdatedAt], 10, 64); err == nil {
		snap.GeneratedAt = ts
	}
	if id, err := strconv.ParseInt(fields[fieldPassID], 10, 64); err == nil {
		snap.PassID = id
	}
	return snap, nil
}

// Delete 删除快照
func (d *LootTableDAO) Delete(ctx context.Context, profileID string) error {
	deleted, err := d.store.Del(ctx, d.key(profileID))
	if err != nil {
		return errors.Wrapf(err, "delete snapshot %s", profileID)
	}
	d.logger.Debug("snapshot deleted", "profile_id", profileID, "deleted_count", deleted)
	return nil
}

func (d *LootTableDAO) record(result string) {
	if d.metrics != nil {
		d.metrics.RecordStore(result)
	}
}
