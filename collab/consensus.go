package collab

import (
	"context"
	"strings"
)

// runValidatedConsensus 验证共识模式：前两位参与者并行起草，
// 第三位合并为共识稿，全员核验；核验意见问题密度超阈值时
// 重写一轮，否则共识稿即为最终答案。
func (r *run) runValidatedConsensus(ctx context.Context) (string, string, string, error) {
	drafters := r.agents[:2]
	drafts, err := r.runPhase(ctx, "co_draft", drafters, true, func(agent string) (PromptPair, bool) {
		return r.prompt(agent,
			"Draft a complete answer. Another agent drafts in parallel; a third will merge the two.",
			r.opts.Prompt), true
	})
	if err != nil {
		return "", "", "", err
	}

	merger := r.agents[2]
	mergeMaterial := "Original question:\n" + r.opts.Prompt + "\n\n" +
		labelArtifacts(drafts, "Drafts to merge:")
	merged, err := r.singleAgentPhase(ctx, "merge", merger, r.prompt(merger,
		"Merge the drafts into a single consensus answer: keep agreements, resolve conflicts, drop unsupported claims.",
		mergeMaterial))
	if err != nil {
		if !isFatal(err) {
			// 合并者失败：换上下文最大的成功起草者再试
			merger = r.pickSynthesizer(successes(drafts))
			merged, err = r.singleAgentPhase(ctx, "merge_retry", merger, r.prompt(merger,
				"Merge the drafts into a single consensus answer: keep agreements, resolve conflicts, drop unsupported claims.",
				mergeMaterial))
		}
		if err != nil {
			return "", "", "", err
		}
	}

	reviews, err := r.runPhase(ctx, "verify", r.agents, false, func(agent string) (PromptPair, bool) {
		user := "Original question:\n" + r.opts.Prompt + "\n\nConsensus answer:\n" + merged
		return r.prompt(agent,
			"Verify the consensus answer. List every error, unsupported claim or missing point you find; say \"no issues\" if it is sound.",
			user), true
	})
	if err != nil && isFatal(err) {
		return "", "", "", err
	}

	review := labelArtifacts(reviews, "")
	if r.e.tuning.issueDensity(review) < r.e.tuning.IssueThreshold {
		return merged, "consensus merged by " + merger + " and verified with no substantive issues", merger, nil
	}

	// 问题密度过高：带核验意见重写一轮
	rewriteMaterial := "Original question:\n" + r.opts.Prompt +
		"\n\nConsensus answer:\n" + merged + "\n\n" +
		labelArtifacts(reviews, "Verification findings:")
	rewritten, err := r.singleAgentPhase(ctx, "rewrite", merger, r.prompt(merger,
		"Rewrite the consensus answer so every verification finding is addressed. Return the full corrected answer.",
		rewriteMaterial))
	if err != nil {
		if isFatal(err) {
			return "", "", merger, err
		}
		return merged, "rewrite failed; returning the merged consensus despite verification findings", merger, nil
	}
	return strings.TrimSpace(rewritten), "consensus rewritten by " + merger + " to address verification findings", merger, nil
}
