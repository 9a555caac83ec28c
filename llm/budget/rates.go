package budget

// Rate 是单个服务商的计费费率，按方向区分（美元 / 百万 token）。
type Rate struct {
	InputPerMTok  float64 `json:"input_per_mtok" yaml:"input_per_mtok"`
	OutputPerMTok float64 `json:"output_per_mtok" yaml:"output_per_mtok"`
}

// RateTable 将服务商名称映射到费率。
// 费率是配置数据而非行为：config 包可从 YAML/环境变量加载覆盖。
type RateTable map[string]Rate

// DefaultRateTable 返回内置费率表。
// 跨服务商费率差在 10–40 倍量级，未知服务商按表内最高费率保守计费。
func DefaultRateTable() RateTable {
	return RateTable{
		"claude":   {InputPerMTok: 3.00, OutputPerMTok: 15.00},
		"gpt":      {InputPerMTok: 2.50, OutputPerMTok: 10.00},
		"gemini":   {InputPerMTok: 1.25, OutputPerMTok: 10.00},
		"deepseek": {InputPerMTok: 0.27, OutputPerMTok: 1.10},
		"qwen":     {InputPerMTok: 0.40, OutputPerMTok: 1.20},
		"glm":      {InputPerMTok: 0.60, OutputPerMTok: 2.20},
	}
}

// rateFor 返回服务商费率；未知服务商回退到表内最高费率，宁可高估。
func (t RateTable) rateFor(provider string) Rate {
	if r, ok := t[provider]; ok {
		return r
	}
	var max Rate
	for _, r := range t {
		if r.InputPerMTok > max.InputPerMTok {
			max.InputPerMTok = r.InputPerMTok
		}
		if r.OutputPerMTok > max.OutputPerMTok {
			max.OutputPerMTok = r.OutputPerMTok
		}
	}
	return max
}

// InputCost 返回 n 个输入 token 在给定服务商下的成本（USD）。
func (t RateTable) InputCost(provider string, n int) float64 {
	return float64(n) * t.rateFor(provider).InputPerMTok / 1e6
}

// OutputCost 返回 n 个输出 token 在给定服务商下的成本（USD）。
func (t RateTable) OutputCost(provider string, n int) float64 {
	return float64(n) * t.rateFor(provider).OutputPerMTok / 1e6
}

// Multipliers 将协作模式名称映射到 token 放大系数，
// 用于运行前的成本预估：多阶段协议的 token 消耗远高于单轮问答。
type Multipliers map[string]float64

// DefaultMultipliers 返回内置的协议系数表。
func DefaultMultipliers() Multipliers {
	return Multipliers{
		"individual":                1.0,
		"round_table":               4.0,
		"sequential_critique_chain": 3.0,
		"validated_consensus":       4.0,
		"creative_brainstorm_swarm": 4.0,
		"hybrid_guarded_braintrust": 4.0,
		"code_architect":            4.0,
		"adversarial_debate":        4.0,
		"expert_panel":              5.0,
		"scenario_analysis":         5.0,
	}
}

// For 返回模式的系数，未知模式按表内最高系数保守估算。
func (m Multipliers) For(mode string) float64 {
	if v, ok := m[mode]; ok {
		return v
	}
	max := 1.0
	for _, v := range m {
		if v > max {
			max = v
		}
	}
	return max
}
