package handler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/dao"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/metrics"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/model"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/service"
	"github.com/lk2023060901/xdooria-lootpity/pkg/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeData struct {
	mu          sync.Mutex
	static      model.StaticLootTable
	locations   model.LocationTables
	profiles    map[string]*model.ProfileSnapshot
	reqs        map[string]*model.RequirementSet
	staticErr   error
	profileErr  map[string]error
	written     map[string]model.StaticLootTable
	loadedCount int
}

func (f *fakeData) LoadStaticLoot() (model.StaticLootTable, error) {
	return f.static, f.staticErr
}

func (f *fakeData) LoadLocations() (model.LocationTables, error) {
	return f.locations, nil
}

func (f *fakeData) ListProfiles() ([]string, error) {
	ids := make([]string, 0, len(f.profiles))
	for id := range f.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeData) LoadProfile(id string) (*model.ProfileSnapshot, *model.RequirementSet, error) {
	f.mu.Lock()
	f.loadedCount++
	f.mu.Unlock()
	if err := f.profileErr[id]; err != nil {
		return nil, nil, err
	}
	return f.profiles[id], f.reqs[id], nil
}

func (f *fakeData) WriteResult(profileID string, staticLoot model.StaticLootTable, _ model.LocationTables) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.written == nil {
		f.written = map[string]model.StaticLootTable{}
	}
	f.written[profileID] = staticLoot
	return nil
}

type fakeStore struct {
	mu    sync.Mutex
	saved map[string]*dao.LootSnapshot
}

func (s *fakeStore) Save(_ context.Context, snap *dao.LootSnapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		s.saved = map[string]*dao.LootSnapshot{}
	}
	s.saved[snap.ProfileID] = snap
	return true, nil
}

type fakeReporter struct {
	mu   sync.Mutex
	tags []map[string]string
}

func (r *fakeReporter) CaptureError(_ error, tags map[string]string) *sentry.EventID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, tags)
	return nil
}

func newFakeData() *fakeData {
	return &fakeData{
		static: model.StaticLootTable{
			"container": {ItemDistribution: []model.ItemWeight{
				{Tpl: "key", RelativeProbability: 100},
				{Tpl: "other", RelativeProbability: 7},
			}},
		},
		locations: model.LocationTables{"bigmap": {}},
		profiles: map[string]*model.ProfileSnapshot{
			"needs_key": {ID: "needs_key"},
			"has_key":   {ID: "has_key", Items: []model.InventoryItem{{ID: "k", Tpl: "key"}}},
		},
		reqs: map[string]*model.RequirementSet{
			"needs_key": {QuestKeys: []model.QuestKeyRequirement{{
				RequirementBase: model.RequirementBase{ItemID: "key", AmountRequired: 1, RaidsSinceStarted: 10},
			}}},
			"has_key": {QuestKeys: []model.QuestKeyRequirement{{
				RequirementBase: model.RequirementBase{ItemID: "key", AmountRequired: 1, RaidsSinceStarted: 10},
			}}},
		},
	}
}

func newTestJob(t *testing.T, data GameData, store SnapshotStore, m *metrics.JobMetrics) *Job {
	t.Helper()
	job, err := NewJob(&JobConfig{PoolSize: 2}, service.DefaultPityConfig(), data, store, service.NewPityService(nil), m, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = job.Close() })
	return job
}

func TestRunPass(t *testing.T) {
	data := newFakeData()
	store := &fakeStore{}
	job := newTestJob(t, data, store, nil)

	summary, err := job.RunPass(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, summary.ID)
	assert.WithinDuration(t, time.Now(), summary.StartedAt, time.Minute)
	assert.Equal(t, 2, summary.Profiles)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Stored)
	assert.Equal(t, 1, summary.Changed)

	// raid 模式：1 + 10*0.1 = 2，钥匙再乘 1.5
	assert.Equal(t, 300.0, data.written["needs_key"]["container"].ItemDistribution[0].RelativeProbability)
	assert.Equal(t, 100.0, data.written["has_key"]["container"].ItemDistribution[0].RelativeProbability)
	// 共享的输入表不被修改
	assert.Equal(t, 100.0, data.static["container"].ItemDistribution[0].RelativeProbability)

	require.Contains(t, store.saved, "needs_key")
	assert.True(t, store.saved["needs_key"].DropRates["key"].IsKey)
	assert.Equal(t, summary.ID, store.saved["needs_key"].PassID)

	next, err := job.RunPass(context.Background())
	require.NoError(t, err)
	assert.Greater(t, next.ID, summary.ID)
}

func TestRunPassProfileFailureIsolated(t *testing.T) {
	data := newFakeData()
	data.profileErr = map[string]error{"has_key": errors.New("corrupt profile")}

	c, err := prometheus.New(&prometheus.Config{Namespace: "test"}, nil)
	require.NoError(t, err)
	m, err := metrics.New(c)
	require.NoError(t, err)

	job := newTestJob(t, data, nil, m)

	summary, err := job.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Stored)
	assert.Contains(t, data.written, "needs_key")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProfileTotal.WithLabelValues(metrics.ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProfileTotal.WithLabelValues(metrics.ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PassTotal.WithLabelValues(metrics.ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BoostedItems.WithLabelValues("needs_key")))
}

func TestRunPassReportsErrors(t *testing.T) {
	data := newFakeData()
	data.profileErr = map[string]error{"has_key": errors.New("corrupt profile")}
	reporter := &fakeReporter{}

	job := newTestJob(t, data, nil, nil)
	job.SetReporter(reporter)

	_, err := job.RunPass(context.Background())
	require.NoError(t, err)
	require.Len(t, reporter.tags, 1)
	assert.Equal(t, map[string]string{"stage": "load", "profile_id": "has_key"}, reporter.tags[0])

	data.staticErr = errors.New("disk gone")
	_, err = job.RunPass(context.Background())
	require.Error(t, err)
	require.Len(t, reporter.tags, 2)
	assert.Equal(t, "pass", reporter.tags[1]["stage"])

	// 取消不上报
	data.staticErr = nil
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = job.RunPass(ctx)
	require.Error(t, err)
	assert.Len(t, reporter.tags, 2)
}

func TestRunPassLoadFailure(t *testing.T) {
	data := newFakeData()
	data.staticErr = errors.New("disk gone")
	job := newTestJob(t, data, nil, nil)

	_, err := job.RunPass(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, data.loadedCount)
}

func TestRunPassCancelled(t *testing.T) {
	data := newFakeData()
	job := newTestJob(t, data, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := job.RunPass(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 0, data.loadedCount)
}

func TestUpdatePityConfig(t *testing.T) {
	data := newFakeData()
	job := newTestJob(t, data, nil, nil)

	bad := service.DefaultPityConfig()
	bad.MaxDropRateMultiplier = 0
	err := job.UpdatePityConfig(bad)
	assert.True(t, errors.Is(err, service.ErrInvalidPityConfig))
	assert.Equal(t, 5.0, job.PityConfig().MaxDropRateMultiplier)

	cfg := service.DefaultPityConfig()
	cfg.KeysAdditionalMultiplier = 1
	require.NoError(t, job.UpdatePityConfig(cfg))

	_, err = job.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 200.0, data.written["needs_key"]["container"].ItemDistribution[0].RelativeProbability)
}

func TestNewJobInvalidPityConfig(t *testing.T) {
	bad := service.DefaultPityConfig()
	bad.DropRateIncreaseType = "daily"
	_, err := NewJob(nil, bad, newFakeData(), nil, service.NewPityService(nil), nil, nil)
	assert.True(t, errors.Is(err, service.ErrInvalidPityConfig))
}

func TestSchedulerRunOnStart(t *testing.T) {
	data := newFakeData()
	job, err := NewJob(&JobConfig{Schedule: "@every 1h", RunOnStart: true}, service.DefaultPityConfig(),
		data, nil, service.NewPityService(nil), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = job.Close() })

	s, err := NewScheduler(job, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	require.Eventually(t, func() bool {
		data.mu.Lock()
		defer data.mu.Unlock()
		return len(data.written) == 2
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
}

func TestSchedulerInvalidSchedule(t *testing.T) {
	job, err := NewJob(&JobConfig{Schedule: "every now and then"}, service.DefaultPityConfig(),
		newFakeData(), nil, service.NewPityService(nil), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = job.Close() })

	_, err = NewScheduler(job, nil)
	assert.Error(t, err)
}

func TestWatchPityConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pity:\n  max_drop_rate_multiplier: 3\n"), 0o644))

	job := newTestJob(t, newFakeData(), nil, nil)
	w, err := WatchPityConfig(path, "LOOTPITY_TEST", job, nil)
	require.NoError(t, err)

	// 未配置的字段使用默认值
	cfg := w.GetConfig()
	assert.Equal(t, 3.0, cfg.MaxDropRateMultiplier)
	assert.Equal(t, model.IncreaseByRaid, cfg.DropRateIncreaseType)
	assert.Equal(t, 1.5, cfg.KeysAdditionalMultiplier)

	require.NoError(t, os.WriteFile(path, []byte("pity:\n  max_drop_rate_multiplier: 8\n"), 0o644))
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job.PityConfig().MaxDropRateMultiplier == 8 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Skip("fsnotify event not delivered in this environment")
}

func TestWatchPityConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pity:\n  drop_rate_increase_type: weekly\n"), 0o644))

	_, err := WatchPityConfig(path, "LOOTPITY_TEST", newTestJob(t, newFakeData(), nil, nil), nil)
	assert.Error(t, err)
}
