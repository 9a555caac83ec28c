package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateTableKnownProvider(t *testing.T) {
	t.Parallel()

	rates := DefaultRateTable()

	// 1M input tokens at claude rates
	assert.InDelta(t, 3.00, rates.InputCost("claude", 1_000_000), 1e-9)
	assert.InDelta(t, 15.00, rates.OutputCost("claude", 1_000_000), 1e-9)
}

func TestRateTableUnknownProviderUsesMaxRate(t *testing.T) {
	t.Parallel()

	rates := DefaultRateTable()

	// unknown providers are billed at the highest rate in the table
	assert.InDelta(t, rates.InputCost("claude", 1000), rates.InputCost("unheard-of", 1000), 1e-9)
	assert.InDelta(t, rates.OutputCost("claude", 1000), rates.OutputCost("unheard-of", 1000), 1e-9)
}

func TestMultipliersKnownModes(t *testing.T) {
	t.Parallel()

	m := DefaultMultipliers()
	assert.Equal(t, 1.0, m.For("individual"))
	assert.Equal(t, 5.0, m.For("expert_panel"))
}

func TestMultipliersUnknownModeUsesMax(t *testing.T) {
	t.Parallel()

	m := DefaultMultipliers()
	assert.Equal(t, 5.0, m.For("no_such_mode"))
}
