package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimatorEmpty(t *testing.T) {
	t.Parallel()

	n, err := NewEstimator().CountTokens("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEstimatorASCII(t *testing.T) {
	t.Parallel()

	// 400 ASCII chars at ~4 chars/token
	n, err := NewEstimator().CountTokens(strings.Repeat("word", 100))
	require.NoError(t, err)
	assert.Equal(t, 100, n)
}

func TestEstimatorCJK(t *testing.T) {
	t.Parallel()

	// 30 CJK chars at ~1.5 chars/token
	n, err := NewEstimator().CountTokens(strings.Repeat("漢", 30))
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestEstimatorNeverZeroForNonEmpty(t *testing.T) {
	t.Parallel()

	n, err := NewEstimator().CountTokens("a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEstimateNeverFails(t *testing.T) {
	t.Parallel()

	// unknown model falls back to the estimator
	n := Estimate("totally-unknown-model", "hello world, this is a prompt")
	assert.Greater(t, n, 0)

	assert.Equal(t, 0, Estimate("totally-unknown-model", ""))
}

func TestForModelOrEstimator(t *testing.T) {
	t.Parallel()

	c := ForModelOrEstimator("no-such-model")
	require.NotNil(t, c)
	assert.Equal(t, "estimator", c.Name())
}
