// Package conclave provides a top-level convenience entry point for running
// multi-model collaborations with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/conclave"
//
//	eng, err := conclave.New(conclave.WithClient(claudeClient), conclave.WithClient(gptClient))
//	result := eng.Run(ctx, collab.RunOptions{Prompt: "...", Mode: collab.ModeRoundTable})
//
// This is a thin wrapper around [collab.NewEngine]; both produce identical
// results. Use this package when you prefer the shorter import path.
package conclave

import (
	"github.com/BaSui01/conclave/collab"
	"github.com/BaSui01/conclave/internal/metrics"
	"github.com/BaSui01/conclave/llm"
	"go.uber.org/zap"
)

// Option configures the engine created by [New].
type Option func(*builder)

type builder struct {
	registry *llm.Registry
	cfg      collab.EngineConfig
}

// New creates a [collab.Engine] backed by a client registry.
// At minimum one client must be registered via [WithClient].
func New(opts ...Option) (*collab.Engine, error) {
	b := &builder{registry: llm.NewRegistry()}
	for _, opt := range opts {
		opt(b)
	}
	if b.cfg.Clients == nil {
		b.cfg.Clients = b.registry
	}
	return collab.NewEngine(b.cfg)
}

// WithClient registers a participant client under its own name.
func WithClient(c llm.Client) Option {
	return func(b *builder) { b.registry.Register(c.Name(), c) }
}

// WithClients sets a pre-built client source, replacing the registry.
func WithClients(src collab.ClientSource) Option {
	return func(b *builder) { b.cfg.Clients = src }
}

// WithLogger sets a custom zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *builder) { b.cfg.Logger = l }
}

// WithMetrics sets the Prometheus collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(b *builder) { b.cfg.Metrics = m }
}

// WithCallsPerSecond caps the rate of upstream agent calls.
func WithCallsPerSecond(cps float64) Option {
	return func(b *builder) { b.cfg.CallsPerSecond = cps }
}

// WithTuning overrides the heuristic constants used for vote
// extraction and verification.
func WithTuning(t collab.Tuning) Option {
	return func(b *builder) { b.cfg.Tuning = t }
}
