package tokenizer

import (
	"fmt"
	"sync"
)

// Counter 是统一的 token 计数接口。
// 协作引擎在两个位置消费它：运行前的成本预估，以及流式输出中
// 每个增量片段的记账。计数是估算值，不要求与服务商账单精确一致。
type Counter interface {
	// CountTokens 返回给定文本的 token 数。
	CountTokens(text string) (int, error)

	// Name 返回计数器的名称。
	Name() string
}

// 全局计数器注册表。
var (
	modelCounters   = make(map[string]Counter)
	modelCountersMu sync.RWMutex
)

// Register 为给定的模型名称注册计数器。
func Register(model string, c Counter) {
	modelCountersMu.Lock()
	defer modelCountersMu.Unlock()
	modelCounters[model] = c
}

// ForModel 返回为给定模型注册的计数器。
// 也尝试前缀匹配（如 "gpt-4o" 匹配 "gpt-4o-mini"）。
func ForModel(model string) (Counter, error) {
	modelCountersMu.RLock()
	defer modelCountersMu.RUnlock()

	if c, ok := modelCounters[model]; ok {
		return c, nil
	}

	for prefix, c := range modelCounters {
		if len(model) >= len(prefix) && model[:len(prefix)] == prefix {
			return c, nil
		}
	}

	return nil, fmt.Errorf("no counter registered for model: %s", model)
}

// ForModelOrEstimator 返回该模型的注册计数器，
// 如果没有注册，则回退到通用估算器。
func ForModelOrEstimator(model string) Counter {
	c, err := ForModel(model)
	if err != nil {
		return NewEstimator()
	}
	return c
}

// Estimate 用模型对应的计数器估算文本 token 数。
// 计数器出错时退化为估算器，永不失败。
func Estimate(model, text string) int {
	n, err := ForModelOrEstimator(model).CountTokens(text)
	if err != nil {
		n, _ = NewEstimator().CountTokens(text)
	}
	return n
}
