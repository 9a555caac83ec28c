package collab

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/conclave/llm"
	"github.com/BaSui01/conclave/testutil/mocks"
)

// fourAgents 返回四个带标签回答的脚本化参与者。
func fourAgents() []*mocks.MockClient {
	out := make([]*mocks.MockClient, 0, 4)
	for _, name := range []string{"claude", "gpt", "gemini", "deepseek"} {
		name := name
		c := mocks.NewMockClient(name).WithRespondFunc(func(req *llm.CompletionRequest) []string {
			return []string{"contribution from ", name, " on the task"}
		})
		out = append(out, c)
	}
	return out
}

func runMode(t *testing.T, mode Mode) *Result {
	t.Helper()
	e, _ := newTestEngine(t, fourAgents()...)

	return e.Run(context.Background(), RunOptions{
		Prompt: "design a job scheduler",
		Mode:   mode,
		Agents: []string{"claude", "gpt", "gemini", "deepseek"},
	})
}

// ---------------------------------------------------------------------------
// Happy paths for every mode
// ---------------------------------------------------------------------------

func TestAllModesSucceedWithHealthyAgents(t *testing.T) {
	t.Parallel()

	for _, mode := range AllModes() {
		mode := mode
		t.Run(string(mode), func(t *testing.T) {
			t.Parallel()
			res := runMode(t, mode)
			require.Equal(t, StatusSuccess, res.Status, "rationale: %s", res.Rationale)
			assert.NotEmpty(t, res.Final)
			assert.NotEmpty(t, res.Rationale)
			assert.NotEmpty(t, res.Phases)
			assert.Greater(t, res.SpentUSD, 0.0)
		})
	}
}

func TestIndividualModeNoCrossAgentPhases(t *testing.T) {
	t.Parallel()

	res := runMode(t, ModeIndividual)
	require.Equal(t, StatusSuccess, res.Status)
	assert.Len(t, res.Phases, 1)
	assert.Len(t, res.Phases[0].Artifacts, 4)
}

func TestRoundTablePhasesAndWinner(t *testing.T) {
	t.Parallel()

	res := runMode(t, ModeRoundTable)
	require.Equal(t, StatusSuccess, res.Status)

	names := make([]string, 0, len(res.Phases))
	for _, p := range res.Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"draft", "critique", "vote", "synthesis"}, names)
	assert.NotEmpty(t, res.Winner)
}

func TestRoundTableSingleDrafterDegrades(t *testing.T) {
	t.Parallel()

	boom := errors.New("503")
	e, _ := newTestEngine(t,
		mocks.NewMockClient("claude").WithChunks("the only surviving draft"),
		mocks.NewMockClient("gpt").WithError(boom),
		mocks.NewMockClient("gemini").WithError(boom),
	)

	res := e.Run(context.Background(), RunOptions{
		Prompt: "q",
		Mode:   ModeRoundTable,
		Agents: []string{"claude", "gpt", "gemini"},
	})

	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "the only surviving draft", res.Final)
	assert.Equal(t, "claude", res.Winner)
	assert.Contains(t, res.Rationale, "single drafter")
}

func TestSequentialCritiqueSkipsFailedReviser(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t,
		mocks.NewMockClient("claude").WithChunks("first draft"),
		mocks.NewMockClient("gpt").WithError(errors.New("503")),
		mocks.NewMockClient("gemini").WithChunks("revised text"),
	)

	res := e.Run(context.Background(), RunOptions{
		Prompt: "q",
		Mode:   ModeSequentialCritique,
		Agents: []string{"claude", "gpt", "gemini"},
	})

	// gpt's revision link fails; the chain carries the prior draft forward
	require.Equal(t, StatusSuccess, res.Status)
	assert.NotEmpty(t, res.Final)
}

func TestCodeArchitectProducesAllStages(t *testing.T) {
	t.Parallel()

	res := runMode(t, ModeCodeArchitect)
	require.Equal(t, StatusSuccess, res.Status)

	for _, stage := range []string{"architecture", "implementation", "code_review", "test_plan"} {
		assert.Contains(t, res.Final, "## "+stage)
	}
}

func TestAdversarialDebateUsesThirdAgentAsModerator(t *testing.T) {
	t.Parallel()

	res := runMode(t, ModeAdversarialDebate)
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "gemini", res.Winner)

	names := make([]string, 0, len(res.Phases))
	for _, p := range res.Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"argument", "counter", "rebuttal", "verdict"}, names)
}

func TestDebateOpponentAbsentFallsBackToArgument(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t,
		mocks.NewMockClient("claude").WithChunks("the argument stands"),
		mocks.NewMockClient("gpt").WithError(errors.New("503")),
	)

	res := e.Run(context.Background(), RunOptions{
		Prompt: "q",
		Mode:   ModeAdversarialDebate,
		Agents: []string{"claude", "gpt"},
	})

	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "the argument stands", res.Final)
	assert.Equal(t, "claude", res.Winner)
}

func TestExpertPanelCapsAtFourLenses(t *testing.T) {
	t.Parallel()

	res := runMode(t, ModeExpertPanel)
	require.Equal(t, StatusSuccess, res.Status)
	require.Equal(t, "analysis", res.Phases[0].Name)
	assert.Len(t, res.Phases[0].Artifacts, 4)
}

func TestScenarioAnalysisRunsTrendsThenScenarios(t *testing.T) {
	t.Parallel()

	res := runMode(t, ModeScenarioAnalysis)
	require.Equal(t, StatusSuccess, res.Status)

	names := make([]string, 0, len(res.Phases))
	for _, p := range res.Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"trends", "scenarios", "recommendation"}, names)
}

func TestBrainstormVoidsSelfVotes(t *testing.T) {
	t.Parallel()

	// every ballot only mentions the voter itself, so all votes are voided
	// and the first fused concept wins deterministically
	res := runMode(t, ModeBrainstormSwarm)
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "claude", res.Winner)
}
