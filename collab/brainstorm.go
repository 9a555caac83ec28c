package collab

import (
	"context"
	"strings"
)

// runBrainstormSwarm 创意风暴模式：发散出点子 → 两两融合 →
// 互相投票（不得投自己） → 由上下文最大的成功者放大胜出方案。
// 只有一个点子时跳过融合直接放大。
func (r *run) runBrainstormSwarm(ctx context.Context) (string, string, string, error) {
	ideas, err := r.runPhase(ctx, "ideation", r.agents, true, func(agent string) (PromptPair, bool) {
		return r.prompt(agent,
			"Brainstorm boldly: propose your most original, even unconventional idea for the question. One idea, well developed.",
			r.opts.Prompt), true
	})
	if err != nil {
		return "", "", "", err
	}

	pool := successes(ideas)
	if len(pool) == 1 {
		// 单点子：跳过融合与投票，直接放大
		content, _ := contentOf(ideas, pool[0])
		return r.amplify(ctx, pool, pool[0], content,
			"only one idea survived ideation; fusion and voting skipped")
	}

	fusions, err := r.runPhase(ctx, "fusion", pool, false, func(agent string) (PromptPair, bool) {
		material := "Original question:\n" + r.opts.Prompt + "\n\n" +
			labelArtifacts(ideas, "All ideas:")
		return r.prompt(agent,
			"Fuse at least two of the ideas into one stronger combined concept. Name which ideas you combined.",
			material), true
	})
	if err != nil && isFatal(err) {
		return "", "", "", err
	}

	candidates := successes(fusions)
	if len(candidates) == 0 {
		// 融合全败且非致命：退回原始点子池投票
		fusions = ideas
		candidates = pool
	}

	ballots, err := r.runPhase(ctx, "cross_vote", candidates, false, func(agent string) (PromptPair, bool) {
		var sb strings.Builder
		sb.WriteString("Original question:\n")
		sb.WriteString(r.opts.Prompt)
		sb.WriteString("\n\nFused concepts:\n\n")
		for _, f := range fusions {
			if f.Err || f.Agent == agent {
				continue
			}
			sb.WriteString("### ")
			sb.WriteString(f.Agent)
			sb.WriteString("\n")
			sb.WriteString(f.Content)
			sb.WriteString("\n\n")
		}
		return r.prompt(agent,
			"Vote for the most promising concept other than your own. State your choice explicitly, e.g. \"I vote for <agent>\".",
			sb.String()), true
	})
	if err != nil && isFatal(err) {
		return "", "", "", err
	}

	votes := make([]string, 0, len(ballots))
	for _, b := range ballots {
		if b.Err {
			continue
		}
		v := r.e.tuning.ExtractVote(b.Content, candidates)
		if v == b.Agent {
			// 自投无效
			v = ""
		}
		votes = append(votes, v)
		r.publish(Event{Type: EventVoteCast, Phase: "cross_vote", Agent: b.Agent, Vote: v})
	}
	winner, _ := TallyVotes(votes, candidates)
	if winner == "" {
		winner = candidates[0]
	}

	winning, _ := contentOf(fusions, winner)
	return r.amplify(ctx, pool, winner, winning, "")
}

// amplify 放大阶段：把胜出方案扩写为可执行的完整答案。
func (r *run) amplify(ctx context.Context, pool []string, winner, concept, note string) (string, string, string, error) {
	amplifier := r.pickSynthesizer(pool)
	material := "Original question:\n" + r.opts.Prompt + "\n\nWinning concept (by " + winner + "):\n" + concept
	answer, rationale, err := r.synthesize(ctx, "amplification", amplifier, material,
		"Amplify the winning concept into a complete, actionable answer: concrete steps, risks, and how to start.")
	if err != nil {
		if isFatal(err) {
			return "", "", winner, err
		}
		return concept, "amplification failed; returning the winning concept as-is", winner, nil
	}
	if note != "" {
		rationale = note + "; " + rationale
	}
	return answer, rationale, winner, nil
}
