package collab

import (
	"context"
	"fmt"
	"time"

	"github.com/BaSui01/conclave/llm/budget"
	"github.com/BaSui01/conclave/llm/tokenizer"
	"github.com/BaSui01/conclave/types"
	"go.uber.org/zap"
)

// Run 执行一次协作。
// 所有结局都被归一化为 Result，任何错误类型都不会逃出本方法；
// 返回前必定发布 collaboration_complete 事件。
func (e *Engine) Run(ctx context.Context, opts RunOptions) *Result {
	start := time.Now()
	opts = opts.normalize()

	logger := e.logger.With(
		zap.String("run_id", opts.RunID),
		zap.String("mode", string(opts.Mode)),
	)

	res := &Result{RunID: opts.RunID, Mode: opts.Mode}
	defer func() {
		res.Duration = time.Since(start)
		e.pub.Publish(opts.RunID, Event{
			Type: EventCollaborationComplete,
			Text: string(res.Status),
		})
		e.metrics.RecordRun(string(opts.Mode), string(res.Status), res.Duration, res.SpentUSD)
		logger.Info("collaboration complete",
			zap.String("status", string(res.Status)),
			zap.Float64("spent_usd", res.SpentUSD),
			zap.Duration("duration", res.Duration),
		)
	}()

	if err := opts.Validate(); err != nil {
		res.Status = StatusInvalid
		res.Rationale = err.Error()
		return res
	}

	agents := e.clients.FilterAvailable(opts.Agents)
	if len(agents) == 0 {
		res.Status = StatusNoAgents
		res.Rationale = "no requested agent currently has a usable credential"
		return res
	}
	if len(agents) < opts.Mode.MinAgents() {
		res.Status = StatusNoAgents
		res.Rationale = errTooFewAgents(opts.Mode, len(agents)).Message
		return res
	}

	opts.Prompt = SanitizePrompt(opts.Prompt)

	// 预检：提示长度 × 参与者数 × 协议系数。超预算则零花费返回，
	// 不调用任何参与者。
	estimate := e.preflightEstimate(opts, agents)
	if opts.BudgetUSD > 0 && estimate > opts.BudgetUSD {
		res.Status = StatusOverBudget
		res.Rationale = fmt.Sprintf(
			"aborted: estimated cost $%.4f exceeds budget $%.2f; no agent was called",
			estimate, opts.BudgetUSD)
		return res
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.Deadline)
	defer cancel()

	r := &run{
		e:      e,
		opts:   opts,
		ledger: budget.NewLedger(opts.BudgetUSD, e.rates, logger),
		logger: logger,
		agents: agents,
	}

	answer, rationale, winner, err := r.execute(runCtx)

	res.SpentUSD = r.ledger.TotalCost()
	res.Usage = r.ledger.Usage()
	res.Phases = r.phases
	res.Winner = winner

	if err == nil {
		res.Status = StatusSuccess
		res.Final = answer
		res.Rationale = rationale
		return res
	}

	code := types.GetErrorCode(err)

	// 期限/预算中止：容忍部分失败且已有产物时降级为部分结果
	if opts.ToleratePartial &&
		(code == types.ErrDeadlineExceeded || code == types.ErrBudgetExceeded) {
		if final, ok := latestArtifact(r.phases); ok {
			res.Status = StatusPartial
			res.Final = final
			res.Rationale = fmt.Sprintf(
				"degraded partial result (%s): run stopped after %d phase(s), spend $%.4f",
				code, len(r.phases), res.SpentUSD)
			return res
		}
	}

	switch code {
	case types.ErrDeadlineExceeded:
		res.Status = StatusTimeout
		res.Rationale = fmt.Sprintf("run exceeded its %s deadline; partial spend $%.4f",
			opts.Deadline, res.SpentUSD)
	case types.ErrBudgetExceeded:
		res.Status = StatusBudgetExceeded
		res.Rationale = fmt.Sprintf("run exhausted its $%.2f budget; partial spend $%.4f",
			opts.BudgetUSD, res.SpentUSD)
	case types.ErrNoAgentsAvailable:
		res.Status = StatusNoAgents
		res.Rationale = err.Error()
	default:
		res.Status = StatusFailed
		res.Rationale = "collaboration failed: " + err.Error()
	}
	return res
}

// preflightEstimate 计算运行前成本估计（USD）。
func (e *Engine) preflightEstimate(opts RunOptions, agents []string) float64 {
	promptTokens := tokenizer.Estimate("", opts.Prompt)
	scaled := int(float64(promptTokens) * e.multipliers.For(string(opts.Mode)))
	total := 0.0
	for _, agent := range agents {
		total += e.rates.InputCost(agent, scaled) + e.rates.OutputCost(agent, scaled)
	}
	return total
}

// execute 派发到对应协议的执行器。模式集合封闭，Validate 已拦截未知值。
func (r *run) execute(ctx context.Context) (answer, rationale, winner string, err error) {
	switch r.opts.Mode {
	case ModeIndividual:
		return r.runIndividual(ctx)
	case ModeRoundTable:
		return r.runRoundTable(ctx)
	case ModeSequentialCritique:
		return r.runSequentialCritique(ctx)
	case ModeValidatedConsensus:
		return r.runValidatedConsensus(ctx)
	case ModeBrainstormSwarm:
		return r.runBrainstormSwarm(ctx)
	case ModeGuardedBraintrust:
		return r.runGuardedBraintrust(ctx)
	case ModeCodeArchitect:
		return r.runCodeArchitect(ctx)
	case ModeAdversarialDebate:
		return r.runAdversarialDebate(ctx)
	case ModeExpertPanel:
		return r.runExpertPanel(ctx)
	case ModeScenarioAnalysis:
		return r.runScenarioAnalysis(ctx)
	default:
		return "", "", "", types.NewError(types.ErrInvalidMode,
			"unknown collaboration mode: "+string(r.opts.Mode))
	}
}

// latestArtifact 返回最近阶段中最后一个成功工件的内容。
func latestArtifact(phases []Phase) (string, bool) {
	for i := len(phases) - 1; i >= 0; i-- {
		arts := phases[i].Artifacts
		for j := len(arts) - 1; j >= 0; j-- {
			if !arts[j].Err && arts[j].Content != "" && arts[j].Content != agentFailedPlaceholder {
				return arts[j].Content, true
			}
		}
	}
	return "", false
}
