package collab

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/conclave/llm"
	"github.com/BaSui01/conclave/testutil/mocks"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestEngine(t *testing.T, clients ...*mocks.MockClient) (*Engine, *llm.Registry) {
	t.Helper()
	reg := llm.NewRegistry()
	for _, c := range clients {
		reg.Register(c.Name(), c)
	}
	e, err := NewEngine(EngineConfig{Clients: reg})
	require.NoError(t, err)
	return e, reg
}

// ---------------------------------------------------------------------------
// NewEngine
// ---------------------------------------------------------------------------

func TestNewEngineRequiresClients(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(EngineConfig{})
	require.Error(t, err)
}

func TestNewEngineFillsDefaults(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, mocks.NewMockClient("claude"))
	assert.NotNil(t, e.Publisher())
	assert.NotEmpty(t, e.tuning.VoteKeywords)
	assert.NotNil(t, e.rates)
}

// ---------------------------------------------------------------------------
// Input validation and zero-spend outcomes
// ---------------------------------------------------------------------------

func TestRunEmptyPrompt(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, mocks.NewMockClient("claude"))
	res := e.Run(context.Background(), RunOptions{Prompt: "  "})

	assert.Equal(t, StatusInvalid, res.Status)
	assert.Zero(t, res.SpentUSD)
}

func TestRunUnknownMode(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, mocks.NewMockClient("claude"))
	res := e.Run(context.Background(), RunOptions{Prompt: "q", Mode: "telepathy"})

	assert.Equal(t, StatusInvalid, res.Status)
	assert.Contains(t, res.Rationale, "telepathy")
}

func TestRunNoAgentsAvailable(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t) // empty registry
	res := e.Run(context.Background(), RunOptions{Prompt: "q"})

	assert.Equal(t, StatusNoAgents, res.Status)
	assert.Zero(t, res.SpentUSD)
}

func TestRunTooFewAgentsForMode(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, mocks.NewMockClient("claude"), mocks.NewMockClient("gpt"))
	res := e.Run(context.Background(), RunOptions{
		Prompt: "q",
		Mode:   ModeValidatedConsensus, // needs 3
		Agents: []string{"claude", "gpt"},
	})

	assert.Equal(t, StatusNoAgents, res.Status)
}

func TestRunUnavailableAgentsAreFiltered(t *testing.T) {
	t.Parallel()

	claude := mocks.NewMockClient("claude")
	gpt := mocks.NewMockClient("gpt")
	e, reg := newTestEngine(t, claude, gpt)
	reg.SetAvailability(map[string]bool{"claude": true})

	res := e.Run(context.Background(), RunOptions{
		Prompt: "q",
		Agents: []string{"claude", "gpt"},
	})

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Zero(t, gpt.CallCount())
	assert.Equal(t, 1, claude.CallCount())
}

// ---------------------------------------------------------------------------
// Pre-flight budget estimate
// ---------------------------------------------------------------------------

func TestRunPreflightOverBudgetZeroSpend(t *testing.T) {
	t.Parallel()

	agents := []*mocks.MockClient{
		mocks.NewMockClient("claude"),
		mocks.NewMockClient("gpt"),
		mocks.NewMockClient("gemini"),
		mocks.NewMockClient("deepseek"),
	}
	e, _ := newTestEngine(t, agents...)

	res := e.Run(context.Background(), RunOptions{
		Prompt:    strings.Repeat("describe the architecture in detail ", 140), // ~5k chars
		Mode:      ModeRoundTable,
		Agents:    []string{"claude", "gpt", "gemini", "deepseek"},
		BudgetUSD: 0.01,
	})

	assert.Equal(t, StatusOverBudget, res.Status)
	assert.Zero(t, res.SpentUSD)
	assert.Contains(t, res.Rationale, "no agent was called")
	for _, a := range agents {
		assert.Zero(t, a.CallCount(), "agent %s must not be called", a.Name())
	}
}

// ---------------------------------------------------------------------------
// Failure semantics
// ---------------------------------------------------------------------------

func TestRunSingleAgentFailurePhaseContinues(t *testing.T) {
	t.Parallel()

	claude := mocks.NewMockClient("claude").WithChunks("draft from claude")
	gpt := mocks.NewMockClient("gpt").WithError(errors.New("upstream 500"))
	gemini := mocks.NewMockClient("gemini").WithChunks("draft from gemini")
	e, _ := newTestEngine(t, claude, gpt, gemini)

	res := e.Run(context.Background(), RunOptions{
		Prompt: "q",
		Mode:   ModeRoundTable,
		Agents: []string{"claude", "gpt", "gemini"},
	})

	require.Equal(t, StatusSuccess, res.Status)
	require.NotEmpty(t, res.Phases)

	// the failed drafter appears as an error artifact and sits out later phases
	draft := res.Phases[0]
	require.Len(t, draft.Artifacts, 3)
	var gptArt *Artifact
	for i := range draft.Artifacts {
		if draft.Artifacts[i].Agent == "gpt" {
			gptArt = &draft.Artifacts[i]
		}
	}
	require.NotNil(t, gptArt)
	assert.True(t, gptArt.Err)
	assert.Equal(t, 1, gpt.CallCount())
	assert.Greater(t, claude.CallCount(), 1)
}

func TestRunAllAgentsFailed(t *testing.T) {
	t.Parallel()

	boom := errors.New("provider down")
	e, _ := newTestEngine(t,
		mocks.NewMockClient("claude").WithError(boom),
		mocks.NewMockClient("gpt").WithError(boom),
	)

	res := e.Run(context.Background(), RunOptions{
		Prompt: "q",
		Mode:   ModeIndividual,
		Agents: []string{"claude", "gpt"},
	})

	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Rationale, "failed")
}

// ---------------------------------------------------------------------------
// Deadline
// ---------------------------------------------------------------------------

func TestRunDeadlineProducesTimeout(t *testing.T) {
	t.Parallel()

	words := make([]string, 200)
	for i := range words {
		words[i] = "word "
	}
	slow := mocks.NewMockClient("claude").WithChunks(words...).WithChunkDelay(20 * time.Millisecond)
	e, _ := newTestEngine(t, slow)

	start := time.Now()
	res := e.Run(context.Background(), RunOptions{
		Prompt:   "q",
		Agents:   []string{"claude"},
		Deadline: 150 * time.Millisecond,
	})

	assert.Equal(t, StatusTimeout, res.Status)
	assert.Less(t, time.Since(start), 2*time.Second, "run must stop near its deadline")
}

func TestRunDeadlineWithToleratePartial(t *testing.T) {
	t.Parallel()

	words := make([]string, 200)
	for i := range words {
		words[i] = "word "
	}
	slow := mocks.NewMockClient("claude").WithChunks(words...).WithChunkDelay(20 * time.Millisecond)
	e, _ := newTestEngine(t, slow)

	res := e.Run(context.Background(), RunOptions{
		Prompt:          "q",
		Agents:          []string{"claude"},
		Deadline:        150 * time.Millisecond,
		ToleratePartial: true,
	})

	assert.Equal(t, StatusPartial, res.Status)
	assert.NotEmpty(t, res.Final, "partial text accumulated before the deadline is returned")
}

// ---------------------------------------------------------------------------
// Budget during the run
// ---------------------------------------------------------------------------

func TestRunBudgetExhaustionAborts(t *testing.T) {
	t.Parallel()

	// a single huge chunk blows the budget on the first ledger check
	expensive := mocks.NewMockClient("claude").WithChunks(strings.Repeat("x", 400_000))
	e, _ := newTestEngine(t, expensive)

	res := e.Run(context.Background(), RunOptions{
		Prompt:    "hi",
		Agents:    []string{"claude"},
		BudgetUSD: 0.01,
	})

	assert.Equal(t, StatusBudgetExceeded, res.Status)
	assert.Greater(t, res.SpentUSD, 0.01)
	assert.Equal(t, 1, expensive.CallCount())
}

func TestRunBudgetExhaustionWithToleratePartial(t *testing.T) {
	t.Parallel()

	expensive := mocks.NewMockClient("claude").WithChunks(strings.Repeat("x", 400_000))
	e, _ := newTestEngine(t, expensive)

	res := e.Run(context.Background(), RunOptions{
		Prompt:          "hi",
		Agents:          []string{"claude"},
		BudgetUSD:       0.01,
		ToleratePartial: true,
	})

	assert.Equal(t, StatusPartial, res.Status)
	assert.NotEmpty(t, res.Final)
}

// ---------------------------------------------------------------------------
// Accounting and events
// ---------------------------------------------------------------------------

func TestRunSpentMatchesUsage(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t,
		mocks.NewMockClient("claude"),
		mocks.NewMockClient("gpt"),
	)

	res := e.Run(context.Background(), RunOptions{
		Prompt: "q",
		Mode:   ModeIndividual,
		Agents: []string{"claude", "gpt"},
	})

	require.Equal(t, StatusSuccess, res.Status)
	sum := 0.0
	for _, u := range res.Usage {
		sum += u.Cost
	}
	assert.InDelta(t, res.SpentUSD, sum, 1e-9)
	assert.Greater(t, res.SpentUSD, 0.0)
}

func TestRunPublishesLifecycleEvents(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, mocks.NewMockClient("claude"))

	res := e.Run(context.Background(), RunOptions{
		RunID:  "run-events",
		Prompt: "q",
		Agents: []string{"claude"},
	})
	require.Equal(t, StatusSuccess, res.Status)

	seen := map[EventType]bool{}
	for _, ev := range e.Publisher().Buffered("run-events") {
		seen[ev.Type] = true
	}
	assert.True(t, seen[EventPhaseStart])
	assert.True(t, seen[EventAgentThinking])
	assert.True(t, seen[EventAgentChunk])
	assert.True(t, seen[EventAgentComplete])
	assert.True(t, seen[EventCollaborationComplete])
}

func TestRunNeverReturnsError(t *testing.T) {
	t.Parallel()

	// even a cancelled parent context yields a normalized result
	e, _ := newTestEngine(t, mocks.NewMockClient("claude"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Run(ctx, RunOptions{Prompt: "q", Agents: []string{"claude"}})
	require.NotNil(t, res)
	assert.Equal(t, StatusTimeout, res.Status)
}
