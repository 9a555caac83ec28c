package collab

import "context"

// runAdversarialDebate 对抗辩论模式：正方立论 → 反方驳斥 →
// 正方再辩 → 第三方（或上下文最大者）裁决合成。
// 正反双方固定为参与者列表前两位。
func (r *run) runAdversarialDebate(ctx context.Context) (string, string, string, error) {
	proponent, opponent := r.agents[0], r.agents[1]

	argument, err := r.singleAgentPhase(ctx, "argument", proponent, r.prompt(proponent,
		"Argue the strongest possible case for your answer to the question. Commit to a position.",
		r.opts.Prompt))
	if err != nil {
		return "", "", "", err
	}

	counterMaterial := "Original question:\n" + r.opts.Prompt +
		"\n\nProponent's argument:\n" + argument
	counter, err := r.singleAgentPhase(ctx, "counter", opponent, r.prompt(opponent,
		"Attack the proponent's argument: expose weak assumptions, counter-evidence and failure modes. Offer the opposing view.",
		counterMaterial))
	if err != nil {
		if isFatal(err) {
			return "", "", "", err
		}
		// 反方缺席：立论即为结论
		return argument, "opponent failed to respond; the proponent's argument stands unchallenged", proponent, nil
	}

	rebuttalMaterial := counterMaterial + "\n\nOpponent's counter:\n" + counter
	rebuttal, err := r.singleAgentPhase(ctx, "rebuttal", proponent, r.prompt(proponent,
		"Rebut the counter-argument: concede what is right, defend what survives, refine your position.",
		rebuttalMaterial))
	if err != nil {
		if isFatal(err) {
			return "", "", "", err
		}
		rebuttal = ""
	}

	// 裁决：第三位参与者优先，否则辩手中上下文最大者
	moderator := ""
	if len(r.agents) > 2 {
		moderator = r.agents[2]
	} else {
		moderator = r.pickSynthesizer([]string{proponent, opponent})
	}
	material := rebuttalMaterial
	if rebuttal != "" {
		material += "\n\nProponent's rebuttal:\n" + rebuttal
	}
	answer, rationale, err := r.synthesize(ctx, "verdict", moderator, material,
		"As moderator, weigh both sides of the debate and deliver the final answer, stating which arguments prevailed and why.")
	if err != nil {
		if isFatal(err) {
			return "", "", "", err
		}
		// 裁决失败：返回再辩（或立论）作为最接近终稿的材料
		final := rebuttal
		if final == "" {
			final = argument
		}
		return final, "moderator failed; returning the proponent's final position", proponent, nil
	}
	return answer, rationale, moderator, nil
}
