package collab

import (
	"time"

	"github.com/BaSui01/conclave/llm/budget"
)

// Status 运行结局的封闭集合。
type Status string

const (
	StatusSuccess        Status = "success"
	StatusPartial        Status = "partial"         // 容忍部分失败后的降级结果
	StatusTimeout        Status = "timeout"         // 期限触发
	StatusBudgetExceeded Status = "budget_exceeded" // 运行中预算耗尽
	StatusOverBudget     Status = "over_budget"     // 预检超预算，零花费
	StatusInvalid        Status = "invalid"         // 入参无效，零花费
	StatusNoAgents       Status = "no_agents"       // 无可用参与者，零花费
	StatusFailed         Status = "failed"
)

// Artifact 是一个阶段中单个参与者的产物。
// 创建后不可变；失败的调用以 Err=true 记录并带占位内容。
type Artifact struct {
	Agent   string `json:"agent"`
	Content string `json:"content"`
	Err     bool   `json:"error,omitempty"`
}

// Phase 是一个阶段的有序产物集合。
type Phase struct {
	Name      string     `json:"name"`
	Artifacts []Artifact `json:"artifacts"`
}

// Result 是一次协作运行的归一化结果。返回后不可变。
// 所有结局（成功、超时、超预算、失败）共享同一形态，调用方只需
// 读取 Final/Rationale 文本，无须区分错误类型。
type Result struct {
	RunID     string                       `json:"run_id"`
	Mode      Mode                         `json:"mode"`
	Status    Status                       `json:"status"`
	Final     string                       `json:"final"`
	Rationale string                       `json:"rationale"`
	SpentUSD  float64                      `json:"spent_usd"`
	Phases    []Phase                      `json:"phases,omitempty"`
	Usage     map[string]budget.AgentUsage `json:"usage,omitempty"`
	Winner    string                       `json:"winner,omitempty"` // 投票类协议的胜出参与者
	Duration  time.Duration                `json:"duration"`
}

// successes 返回产出成功工件的参与者，保持阶段内顺序。
func successes(artifacts []Artifact) []string {
	out := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if !a.Err {
			out = append(out, a.Agent)
		}
	}
	return out
}

// contentOf 返回指定参与者的成功工件内容。
func contentOf(artifacts []Artifact, agent string) (string, bool) {
	for _, a := range artifacts {
		if a.Agent == agent && !a.Err {
			return a.Content, true
		}
	}
	return "", false
}
