package collab

import (
	"context"
	"strings"
)

// panelLenses 专家组的固定视角，最多四席，按参与者列表顺序分配。
var panelLenses = []string{
	"technology",
	"business strategy",
	"risk and compliance",
	"human factors",
}

// runExpertPanel 专家组模式：每位参与者戴上一个领域视角独立分析，
// 主持人汇总讨论并给出最终建议。参与者多于四席时只取前四席。
func (r *run) runExpertPanel(ctx context.Context) (string, string, string, error) {
	n := len(r.agents)
	if n > len(panelLenses) {
		n = len(panelLenses)
	}
	experts := r.agents[:n]
	lensOf := make(map[string]string, n)
	for i, a := range experts {
		lensOf[a] = panelLenses[i]
	}

	analyses, err := r.runPhase(ctx, "analysis", experts, true, func(agent string) (PromptPair, bool) {
		return r.prompt(agent,
			"Analyze the question strictly through the lens of "+lensOf[agent]+". Stay in your lane; other experts cover the rest.",
			r.opts.Prompt), true
	})
	if err != nil {
		return "", "", "", err
	}

	material := labelLensed(r.opts.Prompt, "Expert analyses:", analyses, lensOf)
	moderator := r.pickSynthesizer(successes(analyses))
	answer, rationale, err := r.synthesize(ctx, "recommendation", moderator, material,
		"As panel moderator, reconcile the expert analyses into one final recommendation, noting where the lenses disagree.")
	if err != nil {
		if isFatal(err) {
			return "", "", "", err
		}
		return strings.TrimSpace(material), "moderator failed; returning the raw expert analyses", "", nil
	}
	return answer, rationale, moderator, nil
}

// labelLensed 把带视角标注的成功工件拼为材料文本。
func labelLensed(prompt, heading string, arts []Artifact, lensOf map[string]string) string {
	var sb strings.Builder
	sb.WriteString("Original question:\n")
	sb.WriteString(prompt)
	sb.WriteString("\n\n")
	sb.WriteString(heading)
	sb.WriteString("\n\n")
	for _, a := range arts {
		if a.Err {
			continue
		}
		sb.WriteString("### ")
		sb.WriteString(a.Agent)
		sb.WriteString(" (")
		sb.WriteString(lensOf[a.Agent])
		sb.WriteString(")\n")
		sb.WriteString(a.Content)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
