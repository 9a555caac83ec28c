package collab

import (
	"context"
	"strings"
)

// architectStages 固定的工程四阶段，按参与者列表轮转分派。
var architectStages = []struct {
	name        string
	instruction string
}{
	{"architecture", "Design the architecture for the task: components, interfaces, data flow, and key trade-offs."},
	{"implementation", "Implement the design: produce the concrete code or implementation plan the architecture calls for."},
	{"code_review", "Review the implementation against the architecture: correctness, robustness, maintainability. List required changes."},
	{"test_plan", "Write the test plan: cases, edge conditions and how each review finding is covered."},
}

// runCodeArchitect 架构师模式：架构 → 实现 → 评审 → 测试计划，
// 四阶段轮转分派给参与者，每阶段输入携带之前全部产出。
// 某阶段承担者失败时顺延给下一位参与者重试。
func (r *run) runCodeArchitect(ctx context.Context) (string, string, string, error) {
	var (
		sb   strings.Builder
		next int
	)
	sb.WriteString("Task:\n")
	sb.WriteString(r.opts.Prompt)
	sb.WriteString("\n")

	for _, stage := range architectStages {
		content, agent, err := r.stageWithFallback(ctx, stage.name, stage.instruction, sb.String(), &next)
		if err != nil {
			return "", "", "", err
		}
		sb.WriteString("\n## ")
		sb.WriteString(stage.name)
		sb.WriteString(" (")
		sb.WriteString(agent)
		sb.WriteString(")\n")
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	answer := strings.TrimSpace(sb.String())
	rationale := "architecture, implementation, review and test plan produced in sequence, each stage building on the previous"
	return answer, rationale, "", nil
}

// stageWithFallback 按轮转顺序分派阶段；承担者非致命失败时
// 最多再顺延一轮全部参与者。
func (r *run) stageWithFallback(ctx context.Context, name, instruction, material string, next *int) (string, string, error) {
	var lastErr error
	for tries := 0; tries < len(r.agents); tries++ {
		agent := r.agents[*next%len(r.agents)]
		*next++
		content, err := r.singleAgentPhase(ctx, name, agent, r.prompt(agent, instruction, material))
		if err == nil {
			return content, agent, nil
		}
		if isFatal(err) {
			return "", "", err
		}
		lastErr = err
	}
	return "", "", lastErr
}
