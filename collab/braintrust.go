package collab

import (
	"context"
	"fmt"
)

// runGuardedBraintrust 护栏智囊模式：发散 → 上下文最大者排序选优 →
// 两名守门人独立验证 → 精化成稿。验证阶段是护栏：发现的缺陷
// 必须在精化时逐条处置。
func (r *run) runGuardedBraintrust(ctx context.Context) (string, string, string, error) {
	ideas, err := r.runPhase(ctx, "ideation", r.agents, true, func(agent string) (PromptPair, bool) {
		return r.prompt(agent,
			"Propose your single strongest approach to the question, with enough detail to be judged.",
			r.opts.Prompt), true
	})
	if err != nil {
		return "", "", "", err
	}
	pool := successes(ideas)

	ranker := r.pickSynthesizer(pool)
	rankMaterial := "Original question:\n" + r.opts.Prompt + "\n\n" +
		labelArtifacts(ideas, "Proposed approaches:")
	ranking, err := r.singleAgentPhase(ctx, "ranking", ranker, r.prompt(ranker,
		"Rank the approaches from strongest to weakest and name the best one. Explain the top choice in one paragraph.",
		rankMaterial))
	if err != nil {
		if isFatal(err) {
			return "", "", "", err
		}
		// 排序失败：按列表顺序取第一个点子
		ranking = "ranking unavailable; defaulting to the first proposal"
	}
	top := r.e.tuning.ExtractVote(ranking, pool)
	if top == "" {
		top = pool[0]
	}
	topContent, _ := contentOf(ideas, top)

	// 护栏：最多两名非提出者独立验证
	guards := make([]string, 0, 2)
	for _, a := range pool {
		if a == top {
			continue
		}
		guards = append(guards, a)
		if len(guards) == 2 {
			break
		}
	}
	if len(guards) == 0 {
		guards = []string{top}
	}
	checks, err := r.runPhase(ctx, "validation", guards, false, func(agent string) (PromptPair, bool) {
		user := "Original question:\n" + r.opts.Prompt +
			"\n\nSelected approach (by " + top + "):\n" + topContent
		return r.prompt(agent,
			"Validate the selected approach as a skeptical gatekeeper. List every flaw, risk or missing assumption; say \"no issues\" if none.",
			user), true
	})
	if err != nil && isFatal(err) {
		return "", "", top, err
	}

	material := fmt.Sprintf("Original question:\n%s\n\nSelected approach (by %s):\n%s\n\nRanking notes:\n%s\n\n%s",
		r.opts.Prompt, top, topContent, ranking, labelArtifacts(checks, "Validation findings:"))
	answer, rationale, err := r.synthesize(ctx, "elaboration", ranker, material,
		"Elaborate the selected approach into the final answer, explicitly addressing every validation finding.")
	if err != nil {
		if isFatal(err) {
			return "", "", top, err
		}
		return topContent, "elaboration failed; returning the selected approach without guard fixes", top, nil
	}
	return answer, rationale, top, nil
}
