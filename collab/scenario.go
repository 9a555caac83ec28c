package collab

import (
	"context"
	"strings"
)

// scenarioArchetypes 情景分析的四个原型，按参与者列表顺序分配。
var scenarioArchetypes = []string{
	"optimistic",
	"pessimistic",
	"transformative",
	"status quo",
}

// runScenarioAnalysis 情景分析模式：全员提炼驱动趋势 →
// 每位参与者沿一个情景原型推演 → 合成跨情景皆稳健的建议。
func (r *run) runScenarioAnalysis(ctx context.Context) (string, string, string, error) {
	trends, err := r.runPhase(ctx, "trends", r.agents, true, func(agent string) (PromptPair, bool) {
		return r.prompt(agent,
			"Identify the key driving trends and uncertainties relevant to the question. Facts and forces only, no scenarios yet.",
			r.opts.Prompt), true
	})
	if err != nil {
		return "", "", "", err
	}
	trendMaterial := labelArtifacts(trends, "Driving trends identified so far:")

	n := len(r.agents)
	if n > len(scenarioArchetypes) {
		n = len(scenarioArchetypes)
	}
	narrators := r.agents[:n]
	archetypeOf := make(map[string]string, n)
	for i, a := range narrators {
		archetypeOf[a] = scenarioArchetypes[i]
	}

	scenarios, err := r.runPhase(ctx, "scenarios", narrators, false, func(agent string) (PromptPair, bool) {
		user := "Original question:\n" + r.opts.Prompt + "\n\n" + trendMaterial
		return r.prompt(agent,
			"Develop the \""+archetypeOf[agent]+"\" scenario from the trends: how it unfolds, what it implies for the question, and early warning signs.",
			user), true
	})
	if err != nil && isFatal(err) {
		return "", "", "", err
	}

	pool := successes(scenarios)
	material := labelLensed(r.opts.Prompt, "Scenarios:", scenarios, archetypeOf)
	if len(pool) == 0 {
		// 情景推演全败：退回趋势材料直接合成
		pool = successes(trends)
		material = "Original question:\n" + r.opts.Prompt + "\n\n" + trendMaterial
	}
	synthesizer := r.pickSynthesizer(pool)
	answer, rationale, err := r.synthesize(ctx, "recommendation", synthesizer, material,
		"Recommend the course of action most robust across all scenarios, naming which scenario would break it.")
	if err != nil {
		if isFatal(err) {
			return "", "", "", err
		}
		return strings.TrimSpace(material), "synthesis failed; returning the raw scenarios", "", nil
	}
	return answer, rationale, synthesizer, nil
}
