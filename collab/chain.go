package collab

import (
	"context"
	"fmt"
)

// runSequentialCritique 顺序批判链：首位起草，后继逐个修订前稿，
// 最后由上下文最大的成功参与者合成。修订失败只丢掉该环，
// 链条携带上一版继续。
func (r *run) runSequentialCritique(ctx context.Context) (string, string, string, error) {
	first := r.agents[0]
	current, err := r.singleAgentPhase(ctx, "draft", first, r.prompt(first,
		"Write the first draft of a complete answer. Successive agents will revise it.",
		r.opts.Prompt))
	if err != nil {
		return "", "", "", err
	}

	participated := []string{first}
	for i, agent := range r.agents[1:] {
		phase := fmt.Sprintf("revision_%d", i+1)
		user := "Original question:\n" + r.opts.Prompt + "\n\nCurrent draft:\n" + current
		revised, err := r.singleAgentPhase(ctx, phase, agent, r.prompt(agent,
			"Revise the current draft: fix errors, fill gaps, tighten the argument. Return the full improved draft.",
			user))
		if err != nil {
			if isFatal(err) {
				return "", "", "", err
			}
			// 该环失败，保留上一版继续
			continue
		}
		current = revised
		participated = append(participated, agent)
	}

	synthesizer := r.pickSynthesizer(participated)
	material := "Original question:\n" + r.opts.Prompt + "\n\nFinal revised draft:\n" + current
	answer, rationale, err := r.synthesize(ctx, "synthesis", synthesizer, material,
		"Polish the revised draft into the final answer. Do not introduce new claims.")
	if err != nil {
		if isFatal(err) {
			return "", "", "", err
		}
		return current, "synthesis failed; returning the last revision in the chain", "", nil
	}
	return answer, rationale, "", nil
}
