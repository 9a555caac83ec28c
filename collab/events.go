package collab

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// EventType 事件类型
type EventType string

const (
	EventPhaseStart            EventType = "phase_start"
	EventAgentThinking         EventType = "agent_thinking"
	EventAgentChunk            EventType = "agent_chunk"
	EventAgentComplete         EventType = "agent_complete"
	EventVoteCast              EventType = "vote_cast"
	EventCollaborationComplete EventType = "collaboration_complete"
)

// Event 是发布给观察者的瞬态事件，本引擎不持久化。
type Event struct {
	Type      EventType `json:"type"`
	Phase     string    `json:"phase,omitempty"`
	Agent     string    `json:"agent,omitempty"`
	Text      string    `json:"text,omitempty"`
	Vote      string    `json:"vote,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ringSize 每个通道保留的最近事件数；迟到的订阅者会立即收到回放。
const ringSize = 100

// subBufSize 单个订阅者的通道容量；写满即丢弃，发布永不阻塞。
const subBufSize = 256

// subscriptionCounter 用于生成唯一订阅 ID。
var subscriptionCounter int64

// Publisher 是按运行分通道的发布/订阅总线。
// 发布是 fire-and-forget：引擎的正确性不依赖事件投递。
// 各运行使用互不相交的通道名（通常为 RunID），环形缓冲为多写多读。
type Publisher struct {
	mu       sync.RWMutex
	channels map[string]*eventChannel
	logger   *zap.Logger
}

type eventChannel struct {
	ring []Event // 最近 ringSize 条，按序
	subs map[string]chan Event
}

// NewPublisher 创建事件发布器。
func NewPublisher(logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		channels: make(map[string]*eventChannel),
		logger:   logger.With(zap.String("component", "event_publisher")),
	}
}

// Publish 向通道发布事件。时间戳为空时补当前时间。
// 永不阻塞、永不向调用方抛错：订阅者缓冲写满时丢弃该订阅者的本条事件。
func (p *Publisher) Publish(channel string, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	p.mu.Lock()
	ch := p.channels[channel]
	if ch == nil {
		ch = &eventChannel{subs: make(map[string]chan Event)}
		p.channels[channel] = ch
	}
	ch.ring = append(ch.ring, ev)
	if len(ch.ring) > ringSize {
		ch.ring = ch.ring[len(ch.ring)-ringSize:]
	}
	subs := make([]chan Event, 0, len(ch.subs))
	for _, s := range ch.subs {
		subs = append(subs, s)
	}
	p.mu.Unlock()

	for _, s := range subs {
		select {
		case s <- ev:
		default:
			// 订阅者跟不上，丢弃
		}
	}
}

// Subscribe 订阅通道。迟到的订阅者立即收到最多最近 ringSize 条回放，
// 之后按发布顺序接收新事件。
func (p *Publisher) Subscribe(channel string) (string, <-chan Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := p.channels[channel]
	if ch == nil {
		ch = &eventChannel{subs: make(map[string]chan Event)}
		p.channels[channel] = ch
	}

	id := fmt.Sprintf("%s-%d", channel, atomic.AddInt64(&subscriptionCounter, 1))
	s := make(chan Event, subBufSize)
	for _, ev := range ch.ring {
		s <- ev // 回放不会超过 ringSize < subBufSize，不会阻塞
	}
	ch.subs[id] = s
	return id, s
}

// Unsubscribe 取消订阅并关闭其通道。
func (p *Publisher) Unsubscribe(channel, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := p.channels[channel]
	if ch == nil {
		return
	}
	if s, ok := ch.subs[id]; ok {
		delete(ch.subs, id)
		close(s)
	}
}

// Buffered 返回通道当前缓冲事件的副本。
func (p *Publisher) Buffered(channel string) []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ch := p.channels[channel]
	if ch == nil {
		return nil
	}
	out := make([]Event, len(ch.ring))
	copy(out, ch.ring)
	return out
}

// DropChannel 移除通道，关闭其所有订阅者。运行结束后由上层调用回收。
func (p *Publisher) DropChannel(channel string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := p.channels[channel]
	if ch == nil {
		return
	}
	for id, s := range ch.subs {
		delete(ch.subs, id)
		close(s)
	}
	delete(p.channels, channel)
}
