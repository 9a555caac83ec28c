package collab

import (
	"context"
	"fmt"
	"strings"
)

// runRoundTable 圆桌模式：起草 → 互评 → 投票 → 合成。
// 单参与者时优雅降级为直接作答；失败者不参与后续阶段，
// 但合成仍会进行（由剩余成功者中上下文最大的承担）。
func (r *run) runRoundTable(ctx context.Context) (string, string, string, error) {
	drafts, err := r.runPhase(ctx, "draft", r.agents, true, func(agent string) (PromptPair, bool) {
		return r.prompt(agent,
			"Draft your best complete answer to the user's question. Peers will critique it next.",
			r.opts.Prompt), true
	})
	if err != nil {
		return "", "", "", err
	}

	pool := successes(drafts)
	if len(pool) == 1 {
		content, _ := contentOf(drafts, pool[0])
		return content, "round table degraded to a single drafter; no critique or vote held", pool[0], nil
	}

	// 互评：每人只看到他人的草稿
	critiques, err := r.runPhase(ctx, "critique", pool, false, func(agent string) (PromptPair, bool) {
		var sb strings.Builder
		sb.WriteString("Original question:\n")
		sb.WriteString(r.opts.Prompt)
		sb.WriteString("\n\nPeer drafts:\n\n")
		for _, d := range drafts {
			if d.Err || d.Agent == agent {
				continue
			}
			fmt.Fprintf(&sb, "### %s\n%s\n\n", d.Agent, d.Content)
		}
		return r.prompt(agent,
			"Critique each peer draft: strengths, weaknesses, factual problems. Be specific and fair.",
			sb.String()), true
	})
	if err != nil && isFatal(err) {
		return "", "", "", err
	}

	// 投票：每人投一票给最佳草稿
	ballots, err := r.runPhase(ctx, "vote", pool, false, func(agent string) (PromptPair, bool) {
		material := labelArtifacts(drafts, "Original question:\n"+r.opts.Prompt+"\n\nAll drafts:")
		return r.prompt(agent,
			"Vote for the single best draft. State your choice explicitly, e.g. \"I vote for <agent>\", then explain briefly.",
			material), true
	})
	if err != nil && isFatal(err) {
		return "", "", "", err
	}

	votes := make([]string, 0, len(ballots))
	for _, b := range ballots {
		if b.Err {
			continue
		}
		v := r.e.tuning.ExtractVote(b.Content, pool)
		votes = append(votes, v)
		r.publish(Event{Type: EventVoteCast, Phase: "vote", Agent: b.Agent, Vote: v})
	}
	winner, _ := TallyVotes(votes, pool)
	if winner == "" {
		// 全体弃票：按列表顺序取第一个成功起草者
		winner = pool[0]
	}

	// 合成：拼接全部草稿与互评，交给上下文最大的成功者
	synthesizer := r.pickSynthesizer(pool)
	var material strings.Builder
	material.WriteString("Original question:\n")
	material.WriteString(r.opts.Prompt)
	material.WriteString("\n\n")
	material.WriteString(labelArtifacts(drafts, "Drafts:"))
	material.WriteString(labelArtifacts(critiques, "Critiques:"))
	fmt.Fprintf(&material, "The draft voted best was by %s.\n", winner)

	answer, rationale, err := r.synthesize(ctx, "synthesis", synthesizer, material.String(),
		"Synthesize the strongest possible final answer from the drafts and critiques, giving extra weight to the winning draft.")
	if err != nil {
		if isFatal(err) {
			return "", "", winner, err
		}
		// 合成失败：降级为胜出草稿
		content, _ := contentOf(drafts, winner)
		return content, "synthesis failed; falling back to the draft voted best, by " + winner, winner, nil
	}
	return answer, rationale, winner, nil
}
