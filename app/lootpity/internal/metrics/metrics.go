package metrics

import (
	"sync/atomic"
	"time"

	"github.com/lk2023060901/xdooria-lootpity/pkg/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailed  = "failed"

	StoreWritten   = "written"
	StoreUnchanged = "unchanged"
	StoreFailed    = "failed"
)

// JobMetrics 重算任务指标
type JobMetrics struct {
	// 整轮指标
	PassTotal    *prometheus.CounterVec   // 执行轮数（按结果）
	PassDuration *prometheus.HistogramVec // 单轮耗时

	// 玩家指标
	ProfileTotal           *prometheus.CounterVec // 处理的玩家数（按结果）
	IncompleteRequirements *prometheus.GaugeVec   // 未完成需求数（按玩家）
	BoostedItems           *prometheus.GaugeVec   // 提升了概率的物品数（按玩家）
	ChangedProbabilities   *prometheus.CounterVec // 改写的权重条目数

	// 存储指标
	StoreTotal *prometheus.CounterVec // 写入结果：written/unchanged/failed

	passes   atomic.Int64
	profiles atomic.Int64
	failures atomic.Int64
}

// New 在 client 上注册所有指标
func New(c *prometheus.Client) (*JobMetrics, error) {
	m := &JobMetrics{}

	var err error
	if m.PassTotal, err = c.NewCounter("job_passes_total", "重算轮数", []string{"result"}); err != nil {
		return nil, err
	}
	if m.PassDuration, err = c.NewHistogram("job_pass_duration_seconds", "单轮重算耗时（秒）", nil,
		[]float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60}); err != nil {
		return nil, err
	}
	if m.ProfileTotal, err = c.NewCounter("profiles_processed_total", "处理的玩家数", []string{"result"}); err != nil {
		return nil, err
	}
	if m.IncompleteRequirements, err = c.NewGauge("incomplete_requirements", "玩家未完成的需求数", []string{"profile_id"}); err != nil {
		return nil, err
	}
	if m.BoostedItems, err = c.NewGauge("boosted_items", "玩家提升了掉落概率的物品数", []string{"profile_id"}); err != nil {
		return nil, err
	}
	if m.ChangedProbabilities, err = c.NewCounter("changed_probabilities_total", "改写的掉落权重条目数", nil); err != nil {
		return nil, err
	}
	if m.StoreTotal, err = c.NewCounter("store_writes_total", "重算结果写入 redis 的次数", []string{"result"}); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordPass 记录一轮重算
func (m *JobMetrics) RecordPass(success bool, duration time.Duration) {
	m.passes.Add(1)
	m.PassTotal.WithLabelValues(result(success)).Inc()
	m.PassDuration.WithLabelValues().Observe(duration.Seconds())
}

// RecordProfile 记录单个玩家的重算结果
func (m *JobMetrics) RecordProfile(profileID string, incomplete, boosted, changed int) {
	m.profiles.Add(1)
	m.ProfileTotal.WithLabelValues(ResultSuccess).Inc()
	m.IncompleteRequirements.WithLabelValues(profileID).Set(float64(incomplete))
	m.BoostedItems.WithLabelValues(profileID).Set(float64(boosted))
	m.ChangedProbabilities.WithLabelValues().Add(float64(changed))
}

// RecordProfileFailed 记录失败的玩家
func (m *JobMetrics) RecordProfileFailed() {
	m.failures.Add(1)
	m.ProfileTotal.WithLabelValues(ResultFailed).Inc()
}

// RecordStore 记录一次写入，result 为 Store* 常量
func (m *JobMetrics) RecordStore(result string) {
	m.StoreTotal.WithLabelValues(result).Inc()
}

// Stats 启动以来的累计值
type Stats struct {
	Passes   int64
	Profiles int64
	Failures int64
}

func (m *JobMetrics) GetStats() Stats {
	return Stats{
		Passes:   m.passes.Load(),
		Profiles: m.profiles.Load(),
		Failures: m.failures.Load(),
	}
}

func result(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultFailed
}
