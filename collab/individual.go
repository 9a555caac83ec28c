package collab

import (
	"context"
	"fmt"
	"strings"
)

// labelArtifacts 把成功工件拼为带参与者标题的材料文本。
func labelArtifacts(arts []Artifact, heading string) string {
	var sb strings.Builder
	if heading != "" {
		sb.WriteString(heading)
		sb.WriteString("\n\n")
	}
	for _, a := range arts {
		if a.Err {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n%s\n\n", a.Agent, a.Content)
	}
	return sb.String()
}

// singleAgentPhase 执行只有一个参与者的阶段并返回其产出。
func (r *run) singleAgentPhase(ctx context.Context, name, agent string, pp PromptPair) (string, error) {
	arts, err := r.runPhase(ctx, name, []string{agent}, false,
		func(string) (PromptPair, bool) { return pp, true })
	if err != nil {
		return "", err
	}
	content, _ := contentOf(arts, agent)
	return content, nil
}

// runIndividual 无协作模式：各参与者独立作答，无跨参与者步骤。
func (r *run) runIndividual(ctx context.Context) (string, string, string, error) {
	arts, err := r.runPhase(ctx, "individual", r.agents, true, func(agent string) (PromptPair, bool) {
		return r.prompt(agent, "Answer the user's question directly and completely.", r.opts.Prompt), true
	})
	if err != nil {
		return "", "", "", err
	}

	succ := successes(arts)
	if len(succ) == 1 {
		content, _ := contentOf(arts, succ[0])
		return content, "independent answer from " + succ[0], "", nil
	}

	answer := labelArtifacts(arts, "")
	rationale := fmt.Sprintf("%d independent answers; no cross-agent synthesis in individual mode", len(succ))
	return strings.TrimSpace(answer), rationale, "", nil
}
