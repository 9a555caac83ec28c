// =============================================================================
// 📦 Conclave 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import (
	"github.com/BaSui01/conclave/collab"
)

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Run:    DefaultRunConfig(),
		Engine: DefaultEngineConfig(),
		Log:    DefaultLogConfig(),
		// 费率、系数、上下文窗口与启发式常量的内置表
		// 由 llm/budget 与 collab 包持有；此处只保存覆盖项。
	}
}

// DefaultRunConfig 返回默认运行配置
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Agents:    collab.DefaultAgents(),
		Mode:      string(collab.ModeIndividual),
		BudgetUSD: collab.DefaultBudgetUSD,
		Deadline:  collab.DefaultDeadline,
	}
}

// DefaultEngineConfig 返回默认引擎配置
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		CallsPerSecond: 0,
		MetricsEnabled: true,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "json",
	}
}
