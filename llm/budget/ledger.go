package budget

import (
	"sync"

	"go.uber.org/zap"
)

// AgentUsage 是单个参与者的用量累计。
type AgentUsage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

// Ledger 是单次协作运行的成本账本。
// 单写多读：执行器在流式回调中串行写入，观察者可并发读取快照。
// 成本以微美元整数累计，保证运行总额恒等于各参与者之和。
type Ledger struct {
	limitMicros int64
	rates       RateTable
	logger      *zap.Logger

	mu          sync.RWMutex
	perAgent    map[string]*agentMicros
	totalMicros int64
}

type agentMicros struct {
	inputTokens  int
	outputTokens int
	costMicros   int64
}

// NewLedger 创建运行账本。limitUSD <= 0 表示不设上限。
func NewLedger(limitUSD float64, rates RateTable, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rates == nil {
		rates = DefaultRateTable()
	}
	return &Ledger{
		limitMicros: usdToMicros(limitUSD),
		rates:       rates,
		logger:      logger.With(zap.String("component", "budget_ledger")),
		perAgent:    make(map[string]*agentMicros),
	}
}

// AddInputTokens 记录 n 个输入 token 并按服务商输入费率计费。
func (l *Ledger) AddInputTokens(provider string, n int) {
	if n <= 0 {
		return
	}
	l.add(provider, n, 0, usdToMicros(l.rates.InputCost(provider, n)))
}

// AddOutputTokens 记录 n 个输出 token 并按服务商输出费率计费。
func (l *Ledger) AddOutputTokens(provider string, n int) {
	if n <= 0 {
		return
	}
	l.add(provider, 0, n, usdToMicros(l.rates.OutputCost(provider, n)))
}

func (l *Ledger) add(provider string, in, out int, costMicros int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.perAgent[provider]
	if !ok {
		u = &agentMicros{}
		l.perAgent[provider] = u
	}
	u.inputTokens += in
	u.outputTokens += out
	u.costMicros += costMicros
	l.totalMicros += costMicros
}

// ShouldAbort 在累计成本达到上限后恒为 true。
func (l *Ledger) ShouldAbort() bool {
	if l.limitMicros <= 0 {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalMicros >= l.limitMicros
}

// TotalCost 返回当前累计成本（USD）。单调不减。
func (l *Ledger) TotalCost() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return microsToUSD(l.totalMicros)
}

// Limit 返回预算上限（USD），0 表示不设上限。
func (l *Ledger) Limit() float64 {
	return microsToUSD(l.limitMicros)
}

// Usage 返回各参与者用量的快照。
func (l *Ledger) Usage() map[string]AgentUsage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]AgentUsage, len(l.perAgent))
	for provider, u := range l.perAgent {
		out[provider] = AgentUsage{
			InputTokens:  u.inputTokens,
			OutputTokens: u.outputTokens,
			Cost:         microsToUSD(u.costMicros),
		}
	}
	return out
}

func usdToMicros(usd float64) int64 {
	return int64(usd * 1e6)
}

func microsToUSD(micros int64) float64 {
	return float64(micros) / 1e6
}
