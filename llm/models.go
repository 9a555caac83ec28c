package llm

// modelContextWindows 将模型标识映射到已知的最大上下文 token 数。
// 前缀匹配；未命中时回退到服务商级默认值。
var modelContextWindows = map[string]int{
	"claude-opus-4":     200000,
	"claude-sonnet-4":   200000,
	"claude-3-5-haiku":  200000,
	"gpt-4o":            128000,
	"gpt-4o-mini":       128000,
	"gpt-4.1":           1047576,
	"o3-mini":           200000,
	"gemini-2.5-pro":    1048576,
	"gemini-2.5-flash":  1048576,
	"gemini-2.0-flash":  1048576,
	"deepseek-chat":     65536,
	"deepseek-reasoner": 65536,
	"qwen-max":          131072,
	"qwen-plus":         131072,
	"glm-4-plus":        128000,
	"glm-4-flash":       128000,
}

// providerContextDefaults 服务商级默认上下文窗口。
var providerContextDefaults = map[string]int{
	"claude":   200000,
	"gpt":      128000,
	"gemini":   1048576,
	"deepseek": 65536,
	"qwen":     131072,
	"glm":      128000,
}

// fallbackContextWindow 用于完全未知的模型与服务商。
const fallbackContextWindow = 32768

// ContextWindow returns the maximum context token count for the given model,
// matched by longest prefix against the known-model table, falling back to
// the provider-level default and finally a conservative constant.
func ContextWindow(provider, model string) int {
	if n, ok := modelContextWindows[model]; ok {
		return n
	}
	best := 0
	bestLen := -1
	for prefix, n := range modelContextWindows {
		if len(model) >= len(prefix) && model[:len(prefix)] == prefix && len(prefix) > bestLen {
			best = n
			bestLen = len(prefix)
		}
	}
	if bestLen >= 0 {
		return best
	}
	if n, ok := providerContextDefaults[provider]; ok {
		return n
	}
	return fallbackContextWindow
}

// SetContextWindow overrides or extends the known-model table.
// Intended for configuration loading, not per-run mutation.
func SetContextWindow(model string, tokens int) {
	if tokens > 0 {
		modelContextWindows[model] = tokens
	}
}
