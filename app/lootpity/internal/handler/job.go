package handler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/dao"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/metrics"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/service"
	"github.com/lk2023060901/xdooria-lootpity/pkg/config"
	"github.com/lk2023060901/xdooria-lootpity/pkg/idgen"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
	"github.com/panjf2000/ants/v2"
)

// GameData 掉落表与玩家数据来源
type GameData interface {
	LoadStaticLoot() (model.StaticLootTable, error)
	LoadLocations() (model.LocationTables, error)
	ListProfiles() ([]string, error)
	LoadProfile(id string) (*model.ProfileSnapshot, *model.RequirementSet, error)
	WriteResult(profileID string, staticLoot model.StaticLootTable, locations model.LocationTables) error
}

// SnapshotStore 重算结果存储
type SnapshotStore interface {
	Save(ctx context.Context, snap *dao.LootSnapshot) (bool, error)
}

var ErrPassRunning = errors.New("recompute pass already running")

// ErrorReporter 错误上报，*sentry.Client 实现
type ErrorReporter interface {
	CaptureError(err error, tags map[string]string) *sentry.EventID
}

// PassSummary 一轮重算的汇总
type PassSummary struct {
	ID int64 `json:"id,string"`
	// StartedAt 由 ID 解出，精度 10ms
	StartedAt time.Time `json:"started_at"`
	Profiles  int       `json:"profiles"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	// Stored 实际写入存储的玩家数（内容未变化的不计）
	Stored   int           `json:"stored"`
	Changed  int           `json:"changed"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// Job 重算任务：每轮读取一次掉落表，对每个玩家独立重算并输出
type Job struct {
	cfg     *JobConfig
	data    GameData
	store   SnapshotStore
	pity    *service.PityService
	metrics *metrics.JobMetrics
	logger  logger.Logger
	// 为 nil 时不上报
	reporter ErrorReporter

	ids     idgen.Generator
	pool    *ants.Pool
	pityCfg atomic.Pointer[service.PityConfig]
	last    atomic.Pointer[PassSummary]
	// 同一时刻只允许一轮
	passMu sync.Mutex
}

// NewJob store 与 m 可以为 nil
func NewJob(
	cfg *JobConfig,
	pityCfg service.PityConfig,
	data GameData,
	store SnapshotStore,
	pity *service.PityService,
	m *metrics.JobMetrics,
	l logger.Logger,
) (*Job, error) {
	newCfg, err := config.MergeConfig(DefaultJobConfig(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "merge job config")
	}
	if err := pityCfg.Validate(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "new job"), service.ErrInvalidPityConfig)
	}
	if l == nil {
		l = logger.NewNoop()
	}

	ids, err := idgen.NewSonyflake(newCfg.MachineID)
	if err != nil {
		return nil, errors.Wrap(err, "create pass id generator")
	}

	pool, err := ants.NewPool(newCfg.PoolSize, ants.WithPreAlloc(false))
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}

	j := &Job{
		cfg:     newCfg,
		data:    data,
		store:   store,
		pity:    pity,
		metrics: m,
		logger:  l.Named("handler.job"),
		ids:     ids,
		pool:    pool,
	}
	j.pityCfg.Store(&pityCfg)
	return j, nil
}

// SetReporter 需要在第一轮之前调用
func (j *Job) SetReporter(r ErrorReporter) {
	j.reporter = r
}

func (j *Job) report(err error, tags map[string]string) {
	if j.reporter == nil || errors.Is(err, context.Canceled) {
		return
	}
	j.reporter.CaptureError(err, tags)
}

// UpdatePityConfig 从下一个玩家开始生效，参数无效时保留原配置
func (j *Job) UpdatePityConfig(cfg service.PityConfig) error {
	if err := cfg.Validate(); err != nil {
		return errors.Mark(errors.Wrap(err, "update pity config"), service.ErrInvalidPityConfig)
	}
	j.pityCfg.Store(&cfg)
	j.logger.Info("pity config updated",
		"increase_type", cfg.DropRateIncreaseType,
		"max_multiplier", cfg.MaxDropRateMultiplier,
		"increases_stack", cfg.IncreasesStack,
	)
	return nil
}

// PityConfig 当前生效的配置
func (j *Job) PityConfig() service.PityConfig {
	return *j.pityCfg.Load()
}

// RunPass 执行一轮重算
// 只有掉落表读取失败或 ctx 取消时返回错误，单个玩家失败只记录日志与指标
func (j *Job) RunPass(ctx context.Context) (PassSummary, error) {
	j.passMu.Lock()
	defer j.passMu.Unlock()
	return j.run(ctx)
}

// TryRunPass 已有一轮在执行时立即返回 ErrPassRunning
func (j *Job) TryRunPass(ctx context.Context) (PassSummary, error) {
	if !j.passMu.TryLock() {
		return PassSummary{}, ErrPassRunning
	}
	defer j.passMu.Unlock()
	return j.run(ctx)
}

// LastPass 最近一轮的汇总，还没有执行过时返回 false
func (j *Job) LastPass() (PassSummary, bool) {
	last := j.last.Load()
	if last == nil {
		return PassSummary{}, false
	}
	return *last, true
}

func (j *Job) run(ctx context.Context) (PassSummary, error) {
	if j.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.cfg.Timeout)
		defer cancel()
	}

	passID, err := j.ids.NextID()
	if err != nil {
		return PassSummary{}, err
	}
	ctx = logger.ContextWithFields(ctx, "pass_id", passID)

	start := time.Now()
	summary, err := j.runPass(ctx, passID)
	summary.ID = passID
	summary.StartedAt = idgen.Time(passID)
	summary.Duration = time.Since(start)
	if err != nil {
		summary.Error = err.Error()
	}
	last := summary
	j.last.Store(&last)

	if j.metrics != nil {
		j.metrics.RecordPass(err == nil, summary.Duration)
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "recompute pass failed", "error", err, "duration", summary.Duration)
		j.report(err, map[string]string{"stage": "pass"})
		return summary, err
	}

	j.logger.InfoContext(ctx, "recompute pass finished",
		"profiles", summary.Profiles,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"stored", summary.Stored,
		"changed", summary.Changed,
		"duration", summary.Duration,
	)
	return summary, nil
}

func (j *Job) runPass(ctx context.Context, passID int64) (PassSummary, error) {
	var summary PassSummary

	// 1. 读取掉落表，整轮共享，只读
	staticLoot, err := j.data.LoadStaticLoot()
	if err != nil {
		return summary, errors.Wrap(err, "load static loot")
	}
	locations, err := j.data.LoadLocations()
	if err != nil {
		return summary, errors.Wrap(err, "load locations")
	}

	// 2. 列出玩家
	ids, err := j.data.ListProfiles()
	if err != nil {
		return summary, errors.Wrap(err, "list profiles")
	}
	summary.Profiles = len(ids)

	// 3. 每个玩家提交到协程池
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		submitted int
	)
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		submitted++
		wg.Add(1)
		profileID := id
		task := func() {
			defer wg.Done()
			res, err := j.processProfile(ctx, passID, profileID, staticLoot, locations)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				return
			}
			summary.Succeeded++
			summary.Changed += res.changed
			if res.stored {
				summary.Stored++
			}
		}
		if err := j.pool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			summary.Failed++
			mu.Unlock()
			j.logger.ErrorContext(ctx, "failed to submit profile task", "profile_id", profileID, "error", err)
		}
	}
	wg.Wait()

	// 4. 取消时未提交的玩家计为失败
	summary.Failed += len(ids) - submitted
	if err := ctx.Err(); err != nil {
		return summary, errors.Wrap(err, "recompute pass interrupted")
	}
	return summary, nil
}

type profileResult struct {
	changed int
	stored  bool
}

func (j *Job) processProfile(
	ctx context.Context,
	passID int64,
	profileID string,
	staticLoot model.StaticLootTable,
	locations model.LocationTables,
) (profileResult, error) {
	l := j.logger.WithFields("profile_id", profileID)
	var out profileResult

	fail := func(err error, stage, msg string) (profileResult, error) {
		l.ErrorContext(ctx, msg, "error", err, "stage", stage)
		if j.metrics != nil {
			j.metrics.RecordProfileFailed()
		}
		j.report(err, map[string]string{"stage": stage, "profile_id": profileID})
		return out, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err, "skip", "profile skipped")
	}

	profile, reqs, err := j.data.LoadProfile(profileID)
	if err != nil {
		return fail(err, "load", "failed to load profile")
	}

	res, err := j.pity.RecomputeLootTables(profile, reqs, staticLoot, locations, j.PityConfig())
	if err != nil {
		return fail(err, "recompute", "failed to recompute loot tables")
	}
	out.changed = res.Changed

	if j.store != nil {
		stored, err := j.store.Save(ctx, &dao.LootSnapshot{
			ProfileID:   profileID,
			PassID:      passID,
			StaticLoot:  res.StaticLoot,
			Locations:   res.Locations,
			DropRates:   res.DropRates,
			GeneratedAt: time.Now().Unix(),
		})
		if err != nil {
			return fail(err, "store", "failed to store loot tables")
		}
		out.stored = stored
	}

	if err := j.data.WriteResult(profileID, res.StaticLoot, res.Locations); err != nil {
		return fail(err, "write", "failed to write loot tables")
	}

	if j.metrics != nil {
		j.metrics.RecordProfile(profileID, len(res.Incomplete), len(res.DropRates), res.Changed)
	}
	l.DebugContext(ctx, "profile recomputed",
		"incomplete", len(res.Incomplete),
		"boosted_items", len(res.DropRates),
		"changed", res.Changed,
	)
	return out, nil
}

// Close 释放协程池，等待执行中的任务结束
func (j *Job) Close() error {
	return j.pool.ReleaseTimeout(10 * time.Second)
}
