// 演示客户端：不访问网络，按请求内容生成脚本化回答。
// 用于 conclave run 的本地演示；真实部署注入服务商客户端。
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BaSui01/conclave/llm"
)

type demoClient struct {
	name string
}

func newDemoClient(name string) *demoClient {
	return &demoClient{name: name}
}

func (d *demoClient) Name() string { return d.name }

func (d *demoClient) StreamCompletion(ctx context.Context, req *llm.CompletionRequest) (<-chan llm.StreamChunk, error) {
	text := d.respond(req)
	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		for _, word := range strings.SplitAfter(text, " ") {
			select {
			case out <- llm.StreamChunk{Text: word}:
			case <-ctx.Done():
				return
			}
			select {
			case <-time.After(5 * time.Millisecond):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (d *demoClient) respond(req *llm.CompletionRequest) string {
	lower := strings.ToLower(req.System + "\n" + req.User)

	// 投票类请求：投给材料里第一个他人标题
	if strings.Contains(lower, "vote for") {
		for _, line := range strings.Split(req.User, "\n") {
			if strings.HasPrefix(line, "### ") {
				cand := strings.TrimSpace(strings.TrimPrefix(line, "### "))
				if i := strings.Index(cand, " ("); i > 0 {
					cand = cand[:i]
				}
				if cand != d.name {
					return fmt.Sprintf("I vote for %s. Their draft is the most complete and concrete.", cand)
				}
			}
		}
		return "I abstain; no peer draft stood out."
	}

	// 合成类请求：带标签的最终答案
	if strings.Contains(lower, "final answer:") {
		return fmt.Sprintf(
			"FINAL ANSWER: (%s, demo) A synthesized answer combining the strongest points of all contributions.\n"+
				"RATIONALE: Demo synthesis merged the drafts and kept the points the participants agreed on.",
			d.name)
	}

	return fmt.Sprintf("(%s, demo) A considered response to the request. "+
		"Key points: the problem is well defined, trade-offs exist, and a pragmatic middle path is preferable.", d.name)
}
