package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptComposesSystem(t *testing.T) {
	t.Parallel()

	pp := BuildPrompt("the question", "You are Claude.", "be terse", "Draft an answer.")
	assert.Equal(t, "the question", pp.User)
	assert.Contains(t, pp.System, "You are Claude.")
	assert.Contains(t, pp.System, "Style directive: be terse")
	assert.Contains(t, pp.System, "Draft an answer.")
}

func TestBuildPromptOmitsEmptyParts(t *testing.T) {
	t.Parallel()

	pp := BuildPrompt("q", "", "", "Only the instruction.")
	assert.Equal(t, "Only the instruction.", pp.System)
}

func TestBuildPromptDeterministic(t *testing.T) {
	t.Parallel()

	a := BuildPrompt("q", "p", "s", "i")
	b := BuildPrompt("q", "p", "s", "i")
	assert.Equal(t, a, b)
}

func TestPersonaForFallback(t *testing.T) {
	t.Parallel()

	tbl := DefaultPersonas()
	assert.Contains(t, tbl.personaFor("claude"), "Claude")
	assert.Contains(t, tbl.personaFor("selfhosted"), "selfhosted")
}

func TestSplitAnswerLabeled(t *testing.T) {
	t.Parallel()

	answer, rationale := splitAnswer("FINAL ANSWER: use a heap\nRATIONALE: O(log n) inserts")
	assert.Equal(t, "use a heap", answer)
	assert.Equal(t, "O(log n) inserts", rationale)
}

func TestSplitAnswerUnlabeled(t *testing.T) {
	t.Parallel()

	answer, rationale := splitAnswer("just some freeform text")
	assert.Equal(t, "just some freeform text", answer)
	assert.Equal(t, genericRationale, rationale)
}
