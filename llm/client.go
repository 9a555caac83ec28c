package llm

import (
	"context"
	"time"
)

// CompletionRequest 描述一次流式补全请求。
// System 与 User 由上层的提示构造器生成，Model 为具体模型标识。
type CompletionRequest struct {
	System    string        `json:"system,omitempty"`
	User      string        `json:"user"`
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty"`
}

// StreamChunk 表示流式响应中的一个增量片段。
// Err 非空表示流在该片段处中断；之后通道会被关闭。
type StreamChunk struct {
	Text string `json:"text,omitempty"`
	Err  error  `json:"-"`
}

// Client 定义统一的模型调用接口。
// 引擎只消费这一接口：具体的服务商 HTTP 协议由外部实现注入，
// 测试使用 testutil/mocks 中的脚本化实现。
type Client interface {
	// StreamCompletion 发起流式请求，返回增量片段通道。
	// 实现必须在 ctx 取消后尽快停止发送并关闭通道。
	StreamCompletion(ctx context.Context, req *CompletionRequest) (<-chan StreamChunk, error)

	// Name 返回 Client 所属服务商的唯一标识。
	Name() string
}
