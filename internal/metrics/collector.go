// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector 协作引擎指标收集器
type Collector struct {
	// 运行指标
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	runSpent    *prometheus.CounterVec

	// 阶段指标
	phaseDuration *prometheus.HistogramVec

	// 参与者指标
	agentCallsTotal *prometheus.CounterVec
	tokensUsed      *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器。
// reg 为空时使用 prometheus.DefaultRegisterer；测试应传入独立 Registry
// 避免重复注册。
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.runsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of collaboration runs by mode and status",
		},
		[]string{"mode", "status"},
	)

	c.runDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Collaboration run duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 13, 20, 30, 60},
		},
		[]string{"mode"},
	)

	c.runSpent = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_spent_usd_total",
			Help:      "Cumulative run spend in USD",
		},
		[]string{"mode"},
	)

	c.phaseDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Phase duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"mode", "phase"},
	)

	c.agentCallsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_calls_total",
			Help:      "Total agent calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	c.tokensUsed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_used_total",
			Help:      "Estimated tokens used by provider and direction",
		},
		[]string{"provider", "direction"},
	)

	return c
}

// RecordRun 记录一次运行结局。
func (c *Collector) RecordRun(mode, status string, duration time.Duration, spentUSD float64) {
	if c == nil {
		return
	}
	c.runsTotal.WithLabelValues(mode, status).Inc()
	c.runDuration.WithLabelValues(mode).Observe(duration.Seconds())
	c.runSpent.WithLabelValues(mode).Add(spentUSD)
}

// RecordPhase 记录阶段耗时。
func (c *Collector) RecordPhase(mode, phase string, duration time.Duration) {
	if c == nil {
		return
	}
	c.phaseDuration.WithLabelValues(mode, phase).Observe(duration.Seconds())
}

// RecordAgentCall 记录一次参与者调用结局。
func (c *Collector) RecordAgentCall(provider, outcome string) {
	if c == nil {
		return
	}
	c.agentCallsTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordTokens 记录估算 token 用量。
func (c *Collector) RecordTokens(provider, direction string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.tokensUsed.WithLabelValues(provider, direction).Add(float64(n))
}
