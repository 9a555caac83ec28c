package collab

import (
	"strings"
	"time"

	"github.com/BaSui01/conclave/types"
	"github.com/google/uuid"
)

// Mode 协作模式
type Mode string

const (
	ModeIndividual         Mode = "individual"                // 各自独立作答
	ModeRoundTable         Mode = "round_table"               // 圆桌：起草→互评→投票→合成
	ModeSequentialCritique Mode = "sequential_critique_chain" // 顺序批判链
	ModeValidatedConsensus Mode = "validated_consensus"       // 验证共识
	ModeBrainstormSwarm    Mode = "creative_brainstorm_swarm" // 创意头脑风暴
	ModeGuardedBraintrust  Mode = "hybrid_guarded_braintrust" // 守护智囊团
	ModeCodeArchitect      Mode = "code_architect"            // 代码架构流水线
	ModeAdversarialDebate  Mode = "adversarial_debate"        // 对抗辩论
	ModeExpertPanel        Mode = "expert_panel"              // 专家小组
	ModeScenarioAnalysis   Mode = "scenario_analysis"         // 情景分析
)

// modeMinAgents 每种模式要求的最少可用参与者数。
var modeMinAgents = map[Mode]int{
	ModeIndividual:         1,
	ModeRoundTable:         1,
	ModeSequentialCritique: 2,
	ModeValidatedConsensus: 3,
	ModeBrainstormSwarm:    1,
	ModeGuardedBraintrust:  1,
	ModeCodeArchitect:      3,
	ModeAdversarialDebate:  2,
	ModeExpertPanel:        3,
	ModeScenarioAnalysis:   3,
}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	_, ok := modeMinAgents[m]
	return ok
}

// MinAgents returns the minimum available agents this mode requires.
func (m Mode) MinAgents() int {
	if n, ok := modeMinAgents[m]; ok {
		return n
	}
	return 1
}

// AllModes returns the closed set of supported modes.
func AllModes() []Mode {
	return []Mode{
		ModeIndividual, ModeRoundTable, ModeSequentialCritique,
		ModeValidatedConsensus, ModeBrainstormSwarm, ModeGuardedBraintrust,
		ModeCodeArchitect, ModeAdversarialDebate, ModeExpertPanel,
		ModeScenarioAnalysis,
	}
}

// 默认值。参与者与模型可按次覆盖，不存在影响协议选择的全局可变状态。
const (
	DefaultBudgetUSD = 1.00
	DefaultDeadline  = 13 * time.Second
)

// DefaultAgents 返回默认的参与者列表。
func DefaultAgents() []string {
	return []string{"claude", "gpt", "gemini"}
}

// defaultModels 服务商到默认模型标识的映射。
var defaultModels = map[string]string{
	"claude":   "claude-sonnet-4",
	"gpt":      "gpt-4o",
	"gemini":   "gemini-2.5-pro",
	"deepseek": "deepseek-chat",
	"qwen":     "qwen-max",
	"glm":      "glm-4-plus",
}

// RunOptions 是一次协作运行的全部显式参数。
// 零值字段按 normalize 填充默认值；无任何模块级可变配置参与其中。
type RunOptions struct {
	RunID           string            `json:"run_id,omitempty"`
	Prompt          string            `json:"prompt"`
	Mode            Mode              `json:"mode,omitempty"`
	Agents          []string          `json:"agents,omitempty"`
	Models          map[string]string `json:"models,omitempty"` // 服务商 → 模型标识覆盖
	BudgetUSD       float64           `json:"budget_usd,omitempty"`
	Deadline        time.Duration     `json:"deadline,omitempty"`
	ToleratePartial bool              `json:"tolerate_partial,omitempty"`
	Style           string            `json:"style,omitempty"` // 可选风格指令
	ParallelPhases  bool              `json:"parallel_phases,omitempty"`
}

// normalize fills defaults in place and returns the normalized copy.
func (o RunOptions) normalize() RunOptions {
	if o.RunID == "" {
		o.RunID = uuid.New().String()
	}
	if o.Mode == "" {
		o.Mode = ModeIndividual
	}
	if len(o.Agents) == 0 {
		o.Agents = DefaultAgents()
	}
	if o.BudgetUSD == 0 {
		o.BudgetUSD = DefaultBudgetUSD
	}
	if o.Deadline == 0 {
		o.Deadline = DefaultDeadline
	}
	return o
}

// Validate 校验参数。
// 未知模式是构造期错误而非静默回退：历史实现把未知模式悄悄当作
// individual 处理，容易掩盖调用方缺陷。
func (o RunOptions) Validate() error {
	if strings.TrimSpace(o.Prompt) == "" {
		return types.NewError(types.ErrInvalidInput, "prompt must not be empty")
	}
	if o.Mode != "" && !o.Mode.Valid() {
		return types.NewError(types.ErrInvalidMode, "unknown collaboration mode: "+string(o.Mode))
	}
	if o.BudgetUSD < 0 {
		return types.NewError(types.ErrInvalidConfig, "budget must not be negative")
	}
	if o.Deadline < 0 {
		return types.NewError(types.ErrInvalidConfig, "deadline must not be negative")
	}
	return nil
}

// modelFor 返回参与者使用的模型标识：按次覆盖优先，其次服务商默认。
func (o RunOptions) modelFor(agent string) string {
	if m, ok := o.Models[agent]; ok && m != "" {
		return m
	}
	if m, ok := defaultModels[agent]; ok {
		return m
	}
	return agent
}
