package collab

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/conclave/types"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	o := RunOptions{Prompt: "q"}.normalize()

	assert.NotEmpty(t, o.RunID)
	assert.Equal(t, ModeIndividual, o.Mode)
	assert.Equal(t, DefaultAgents(), o.Agents)
	assert.Equal(t, DefaultBudgetUSD, o.BudgetUSD)
	assert.Equal(t, DefaultDeadline, o.Deadline)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	o := RunOptions{
		RunID:     "fixed",
		Prompt:    "q",
		Mode:      ModeRoundTable,
		Agents:    []string{"deepseek"},
		BudgetUSD: 0.25,
		Deadline:  3 * time.Second,
	}.normalize()

	assert.Equal(t, "fixed", o.RunID)
	assert.Equal(t, ModeRoundTable, o.Mode)
	assert.Equal(t, []string{"deepseek"}, o.Agents)
	assert.Equal(t, 0.25, o.BudgetUSD)
	assert.Equal(t, 3*time.Second, o.Deadline)
}

func TestValidateEmptyPrompt(t *testing.T) {
	t.Parallel()

	err := RunOptions{Prompt: "   "}.Validate()
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrInvalidInput))
}

func TestValidateUnknownModeIsAnError(t *testing.T) {
	t.Parallel()

	// unknown modes fail loudly instead of silently running as individual
	err := RunOptions{Prompt: "q", Mode: "galactic_senate"}.Validate()
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrInvalidMode))
}

func TestValidateNegativeBudgetAndDeadline(t *testing.T) {
	t.Parallel()

	err := RunOptions{Prompt: "q", BudgetUSD: -1}.Validate()
	assert.True(t, types.IsCode(err, types.ErrInvalidConfig))

	err = RunOptions{Prompt: "q", Deadline: -time.Second}.Validate()
	assert.True(t, types.IsCode(err, types.ErrInvalidConfig))
}

func TestModeMinAgents(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, ModeIndividual.MinAgents())
	assert.Equal(t, 2, ModeAdversarialDebate.MinAgents())
	assert.Equal(t, 3, ModeValidatedConsensus.MinAgents())
	assert.Equal(t, 3, ModeCodeArchitect.MinAgents())
}

func TestAllModesAreValid(t *testing.T) {
	t.Parallel()

	modes := AllModes()
	assert.Len(t, modes, 10)
	for _, m := range modes {
		assert.True(t, m.Valid(), "mode %s", m)
	}
	assert.False(t, Mode("unknown").Valid())
}

func TestModelFor(t *testing.T) {
	t.Parallel()

	o := RunOptions{Models: map[string]string{"claude": "claude-opus-4"}}
	assert.Equal(t, "claude-opus-4", o.modelFor("claude"))
	assert.Equal(t, "gpt-4o", o.modelFor("gpt"))
	assert.Equal(t, "selfhosted", o.modelFor("selfhosted"))
}
