// MockClient 的 llm.Client 测试模拟实现。
//
// 支持脚本化流式输出、延迟与错误注入场景。
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/BaSui01/conclave/llm"
)

// --- MockClient 结构 ---

// MockClient 是 llm.Client 的模拟实现
type MockClient struct {
	mu sync.Mutex

	name string

	// 响应配置
	chunks     []string
	chunkDelay time.Duration
	err        error
	errAfter   int // 发出 N 个片段后流中断；0 表示不中断
	failAfter  int // 第 N+1 次调用起直接失败；0 表示不启用

	// 按请求定制响应
	respondFunc func(req *llm.CompletionRequest) []string

	// 调用记录
	calls []llm.CompletionRequest
}

// --- 构造函数和 Builder 方法 ---

// NewMockClient 创建新的 MockClient
func NewMockClient(name string) *MockClient {
	return &MockClient{
		name:   name,
		chunks: []string{"mock response from " + name},
	}
}

// WithChunks 设置流式响应片段
func (m *MockClient) WithChunks(chunks ...string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = chunks
	return m
}

// WithChunkDelay 设置片段之间的延迟
func (m *MockClient) WithChunkDelay(d time.Duration) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunkDelay = d
	return m
}

// WithError 设置调用直接返回错误
func (m *MockClient) WithError(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithErrorAfterChunks 设置流在发出 n 个片段后以 err 中断
func (m *MockClient) WithErrorAfterChunks(n int, err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errAfter = n
	m.err = err
	return m
}

// WithFailAfter 设置前 n 次调用成功，之后全部失败
func (m *MockClient) WithFailAfter(n int, err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	m.err = err
	return m
}

// WithRespondFunc 设置按请求生成片段的函数
func (m *MockClient) WithRespondFunc(fn func(req *llm.CompletionRequest) []string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.respondFunc = fn
	return m
}

// --- llm.Client 接口实现 ---

// Name 返回模拟服务商标识
func (m *MockClient) Name() string {
	return m.name
}

// StreamCompletion 按脚本发出片段；ctx 取消后停止发送并关闭通道
func (m *MockClient) StreamCompletion(ctx context.Context, req *llm.CompletionRequest) (<-chan llm.StreamChunk, error) {
	m.mu.Lock()
	m.calls = append(m.calls, *req)
	callNum := len(m.calls)

	if m.failAfter > 0 && callNum > m.failAfter {
		err := m.err
		m.mu.Unlock()
		return nil, err
	}
	if m.err != nil && m.errAfter == 0 && m.failAfter == 0 {
		err := m.err
		m.mu.Unlock()
		return nil, err
	}

	chunks := m.chunks
	if m.respondFunc != nil {
		chunks = m.respondFunc(req)
	}
	delay := m.chunkDelay
	errAfter := m.errAfter
	streamErr := m.err
	m.mu.Unlock()

	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		for i, text := range chunks {
			if errAfter > 0 && i == errAfter {
				select {
				case out <- llm.StreamChunk{Err: streamErr}:
				case <-ctx.Done():
				}
				return
			}
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- llm.StreamChunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
		if errAfter >= len(chunks) && errAfter > 0 {
			select {
			case out <- llm.StreamChunk{Err: streamErr}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

// --- 调用记录 ---

// CallCount 返回调用次数
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls 返回全部调用请求的副本
func (m *MockClient) Calls() []llm.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.CompletionRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall 返回最近一次调用请求；无调用时返回 false
func (m *MockClient) LastCall() (llm.CompletionRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return llm.CompletionRequest{}, false
	}
	return m.calls[len(m.calls)-1], true
}
