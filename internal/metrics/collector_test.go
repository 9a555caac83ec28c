package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsRuns(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector("conclave", reg, nil)

	c.RecordRun("round_table", "success", 2*time.Second, 0.12)
	c.RecordRun("round_table", "success", 3*time.Second, 0.08)
	c.RecordRun("individual", "timeout", 13*time.Second, 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(
		c.runsTotal.WithLabelValues("round_table", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		c.runsTotal.WithLabelValues("individual", "timeout")))
	assert.InDelta(t, 0.20, testutil.ToFloat64(
		c.runSpent.WithLabelValues("round_table")), 1e-9)
}

func TestCollectorRecordsAgentCallsAndTokens(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector("conclave", reg, nil)

	c.RecordAgentCall("claude", "ok")
	c.RecordAgentCall("claude", "error")
	c.RecordAgentCall("claude", "ok")
	c.RecordTokens("claude", "input", 120)
	c.RecordTokens("claude", "output", 0) // ignored

	assert.Equal(t, 2.0, testutil.ToFloat64(
		c.agentCallsTotal.WithLabelValues("claude", "ok")))
	assert.Equal(t, 120.0, testutil.ToFloat64(
		c.tokensUsed.WithLabelValues("claude", "input")))
}

func TestCollectorNilSafe(t *testing.T) {
	t.Parallel()

	var c *Collector
	require.NotPanics(t, func() {
		c.RecordRun("m", "s", time.Second, 0.1)
		c.RecordPhase("m", "p", time.Second)
		c.RecordAgentCall("p", "ok")
		c.RecordTokens("p", "input", 1)
	})
}

func TestCollectorIsolatedRegistries(t *testing.T) {
	t.Parallel()

	// two collectors on separate registries must not collide
	a := NewCollector("conclave", prometheus.NewRegistry(), nil)
	b := NewCollector("conclave", prometheus.NewRegistry(), nil)
	a.RecordAgentCall("claude", "ok")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.agentCallsTotal.WithLabelValues("claude", "ok")))
}
