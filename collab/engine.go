package collab

import (
	"github.com/BaSui01/conclave/internal/metrics"
	"github.com/BaSui01/conclave/llm"
	"github.com/BaSui01/conclave/llm/budget"
	"github.com/BaSui01/conclave/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ClientSource 提供参与者客户端与可用性过滤。
// llm.Registry 满足该接口；测试可注入桩实现。
type ClientSource interface {
	Get(name string) (llm.Client, bool)
	FilterAvailable(names []string) []string
}

// EngineConfig 配置协作引擎。
type EngineConfig struct {
	// Clients 必填：参与者客户端来源。
	Clients ClientSource
	// Rates 计费费率表，空则用内置表。
	Rates budget.RateTable
	// Multipliers 协议 token 系数表，空则用内置表。
	Multipliers budget.Multipliers
	// Personas 参与者人设表，空则用内置表。
	Personas PersonaTable
	// Tuning 启发式常量，零值则用内置值。
	Tuning Tuning
	// Publisher 事件发布器，空则新建。
	Publisher *Publisher
	// Metrics 指标收集器，可空。
	Metrics *metrics.Collector
	// Logger 可空。
	Logger *zap.Logger
	// CallsPerSecond > 0 时对参与者调用限速，
	// 用于规避上游限流；0 表示不限速。
	CallsPerSecond float64
}

// Engine 协作引擎。并发安全：每次 Run 的可变状态互不共享。
type Engine struct {
	clients     ClientSource
	rates       budget.RateTable
	multipliers budget.Multipliers
	personas    PersonaTable
	tuning      Tuning
	pub         *Publisher
	metrics     *metrics.Collector
	logger      *zap.Logger
	pacer       *rate.Limiter
}

// NewEngine 创建协作引擎。
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Clients == nil {
		return nil, types.NewError(types.ErrInvalidConfig, "EngineConfig.Clients is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		clients:     cfg.Clients,
		rates:       cfg.Rates,
		multipliers: cfg.Multipliers,
		personas:    cfg.Personas,
		tuning:      cfg.Tuning,
		pub:         cfg.Publisher,
		metrics:     cfg.Metrics,
		logger:      logger.With(zap.String("component", "collab_engine")),
	}
	if e.rates == nil {
		e.rates = budget.DefaultRateTable()
	}
	if e.multipliers == nil {
		e.multipliers = budget.DefaultMultipliers()
	}
	if e.personas == nil {
		e.personas = DefaultPersonas()
	}
	if len(e.tuning.VoteKeywords) == 0 {
		e.tuning.VoteKeywords = DefaultTuning().VoteKeywords
	}
	if e.tuning.VoteProximity == 0 {
		e.tuning.VoteProximity = DefaultTuning().VoteProximity
	}
	if len(e.tuning.IssueKeywords) == 0 {
		e.tuning.IssueKeywords = DefaultTuning().IssueKeywords
	}
	if e.tuning.IssueThreshold == 0 {
		e.tuning.IssueThreshold = DefaultTuning().IssueThreshold
	}
	if e.pub == nil {
		e.pub = NewPublisher(logger)
	}
	if cfg.CallsPerSecond > 0 {
		e.pacer = rate.NewLimiter(rate.Limit(cfg.CallsPerSecond), 1)
	}
	return e, nil
}

// Publisher 返回引擎的事件发布器，供观察者按 RunID 订阅。
func (e *Engine) Publisher() *Publisher {
	return e.pub
}
