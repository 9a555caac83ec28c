package collab

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/BaSui01/conclave/llm"
	"github.com/BaSui01/conclave/llm/budget"
	"github.com/BaSui01/conclave/llm/tokenizer"
	"github.com/BaSui01/conclave/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// agentFailedPlaceholder 失败调用的占位内容。
const agentFailedPlaceholder = "[no response: agent call failed]"

// run 承载一次协作运行的全部可变状态。运行之间互不共享。
type run struct {
	e      *Engine
	opts   RunOptions
	ledger *budget.Ledger
	logger *zap.Logger
	agents []string // 过滤后的可用参与者，保持请求顺序
	phases []Phase
}

func (r *run) publish(ev Event) {
	r.e.pub.Publish(r.opts.RunID, ev)
}

// checkFatal 在开始新工作前检查取消与预算。
// 取消后继续进入阶段是历史实现预算超支的主因，
// 因此所有下游入口都必须先过这道检查。
func (r *run) checkFatal(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return normalizeFatal(err)
	}
	if r.ledger.ShouldAbort() {
		return errBudget()
	}
	return nil
}

// callAgent 对单个参与者发起一次流式调用。
// 每个片段都会触发记账、事件发布与取消/预算检查；
// 致命错误返回时携带已累计的部分文本。
func (r *run) callAgent(ctx context.Context, phase, agent string, pp PromptPair) (string, error) {
	if err := r.checkFatal(ctx); err != nil {
		return "", err
	}
	if r.e.pacer != nil {
		if err := r.e.pacer.Wait(ctx); err != nil {
			return "", normalizeFatal(err)
		}
	}

	client, ok := r.e.clients.Get(agent)
	if !ok || client == nil {
		r.e.metrics.RecordAgentCall(agent, "unavailable")
		return "", errAgentCall(agent,
			types.NewError(types.ErrProviderUnavailable, "no usable client"))
	}

	model := r.opts.modelFor(agent)
	r.publish(Event{Type: EventAgentThinking, Phase: phase, Agent: agent})

	inTokens := tokenizer.Estimate(model, pp.System+pp.User)
	r.ledger.AddInputTokens(agent, inTokens)
	r.e.metrics.RecordTokens(agent, "input", inTokens)

	stream, err := client.StreamCompletion(ctx, &llm.CompletionRequest{
		System: pp.System,
		User:   pp.User,
		Model:  model,
	})
	if err != nil {
		r.e.metrics.RecordAgentCall(agent, "error")
		return "", errAgentCall(agent, err)
	}

	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			r.e.metrics.RecordAgentCall(agent, "cancelled")
			return sb.String(), normalizeFatal(ctx.Err())
		case chunk, open := <-stream:
			if !open {
				r.publish(Event{Type: EventAgentComplete, Phase: phase, Agent: agent})
				r.e.metrics.RecordAgentCall(agent, "ok")
				return sb.String(), nil
			}
			if chunk.Err != nil {
				r.e.metrics.RecordAgentCall(agent, "error")
				return sb.String(), errAgentCall(agent, chunk.Err)
			}
			sb.WriteString(chunk.Text)
			outTokens := tokenizer.Estimate(model, chunk.Text)
			r.ledger.AddOutputTokens(agent, outTokens)
			r.e.metrics.RecordTokens(agent, "output", outTokens)
			r.publish(Event{Type: EventAgentChunk, Phase: phase, Agent: agent, Text: chunk.Text})
			if err := r.checkFatal(ctx); err != nil {
				r.e.metrics.RecordAgentCall(agent, "aborted")
				return sb.String(), err
			}
		}
	}
}

// promptFn 为参与者构造该阶段的提示；返回 false 表示跳过。
type promptFn func(agent string) (PromptPair, bool)

// runPhase 执行一个阶段。
// 默认串行（规避上游限流）；parallelOK 且 RunOptions.ParallelPhases
// 开启时并行。单个失败记为错误工件并继续；全部失败才算阶段失败；
// 致命错误立即中止并保留已产出的工件（含进行中调用的部分文本）。
func (r *run) runPhase(ctx context.Context, name string, agents []string, parallelOK bool, build promptFn) ([]Artifact, error) {
	start := time.Now()
	r.publish(Event{Type: EventPhaseStart, Phase: name})
	defer func() {
		r.e.metrics.RecordPhase(string(r.opts.Mode), name, time.Since(start))
	}()

	if err := r.checkFatal(ctx); err != nil {
		r.record(name, nil)
		return nil, err
	}

	var artifacts []Artifact
	var fatal error
	if r.opts.ParallelPhases && parallelOK {
		artifacts, fatal = r.runParallel(ctx, name, agents, build)
	} else {
		artifacts, fatal = r.runSequential(ctx, name, agents, build)
	}

	r.record(name, artifacts)
	if fatal != nil {
		return artifacts, fatal
	}
	if len(successes(artifacts)) == 0 {
		return artifacts, errAllFailed(name)
	}
	return artifacts, nil
}

func (r *run) runSequential(ctx context.Context, name string, agents []string, build promptFn) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(agents))
	for _, agent := range agents {
		pp, ok := build(agent)
		if !ok {
			continue
		}
		content, err := r.callAgent(ctx, name, agent, pp)
		if err != nil {
			if isFatal(err) {
				if content != "" {
					// 中止时已到手的部分草稿仍然保留
					artifacts = append(artifacts, Artifact{Agent: agent, Content: content})
				}
				return artifacts, normalizeFatal(err)
			}
			r.logger.Warn("agent call failed",
				zap.String("phase", name),
				zap.String("agent", agent),
				zap.Error(err))
			artifacts = append(artifacts, Artifact{Agent: agent, Content: agentFailedPlaceholder, Err: true})
			continue
		}
		artifacts = append(artifacts, Artifact{Agent: agent, Content: content})
	}
	return artifacts, nil
}

func (r *run) runParallel(ctx context.Context, name string, agents []string, build promptFn) ([]Artifact, error) {
	slots := make([]*Artifact, len(agents))
	var mu sync.Mutex
	var fatal error

	g, gctx := errgroup.WithContext(ctx)
	for i, agent := range agents {
		i, agent := i, agent
		pp, ok := build(agent)
		if !ok {
			continue
		}
		g.Go(func() error {
			content, err := r.callAgent(gctx, name, agent, pp)
			if err != nil {
				if isFatal(err) {
					mu.Lock()
					if fatal == nil {
						fatal = normalizeFatal(err)
					}
					if content != "" {
						slots[i] = &Artifact{Agent: agent, Content: content}
					}
					mu.Unlock()
					return err // 取消组内其余调用
				}
				r.logger.Warn("agent call failed",
					zap.String("phase", name),
					zap.String("agent", agent),
					zap.Error(err))
				mu.Lock()
				slots[i] = &Artifact{Agent: agent, Content: agentFailedPlaceholder, Err: true}
				mu.Unlock()
				return nil
			}
			mu.Lock()
			slots[i] = &Artifact{Agent: agent, Content: content}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	artifacts := make([]Artifact, 0, len(agents))
	for _, a := range slots {
		if a != nil {
			artifacts = append(artifacts, *a)
		}
	}
	return artifacts, fatal
}

// record 把阶段产物追加到运行历史（只追加，不回改）。
func (r *run) record(name string, artifacts []Artifact) {
	r.phases = append(r.phases, Phase{Name: name, Artifacts: artifacts})
}

// pickSynthesizer 从成功者中选上下文窗口最大的参与者承担合成。
// 合成提示要拼接此前所有阶段的产出，是最吃上下文的一步。
func (r *run) pickSynthesizer(pool []string) string {
	best := ""
	bestWindow := -1
	for _, agent := range pool {
		w := llm.ContextWindow(agent, r.opts.modelFor(agent))
		if w > bestWindow {
			bestWindow = w
			best = agent
		}
	}
	return best
}

// synthesize 让指定参与者产出带标签的最终答案与理由。
func (r *run) synthesize(ctx context.Context, phase, agent, material, extraInstruction string) (string, string, error) {
	instr := extraInstruction
	if instr != "" {
		instr += "\n\n"
	}
	instr += synthesisInstruction
	pp := BuildPrompt(material, r.e.personas.personaFor(agent), r.opts.Style, instr)
	out, err := r.callAgent(ctx, phase, agent, pp)
	if err != nil {
		return "", "", err
	}
	answer, rationale := splitAnswer(out)
	return answer, rationale, nil
}

// persona 返回参与者人设。
func (r *run) persona(agent string) string {
	return r.e.personas.personaFor(agent)
}

// prompt 是 BuildPrompt 的运行级便捷封装，自动带上风格指令。
func (r *run) prompt(agent, instruction, user string) PromptPair {
	return BuildPrompt(user, r.persona(agent), r.opts.Style, instruction)
}
