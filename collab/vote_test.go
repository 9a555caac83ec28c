package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// ExtractVote
// ---------------------------------------------------------------------------

func TestExtractVoteKeywordProximity(t *testing.T) {
	t.Parallel()

	tuning := DefaultTuning()
	candidates := []string{"agentA", "agentB", "agentC"}

	vote := tuning.ExtractVote("After careful thought, I vote for agentB because of its rigor.", candidates)
	assert.Equal(t, "agentB", vote)
}

func TestExtractVoteFirstMentionFallback(t *testing.T) {
	t.Parallel()

	tuning := DefaultTuning()
	candidates := []string{"agentA", "agentB"}

	// no vote keyword near a name: first mentioned candidate wins
	vote := tuning.ExtractVote("agentB made the clearest case; agentA was vaguer.", candidates)
	assert.Equal(t, "agentB", vote)
}

func TestExtractVoteVoid(t *testing.T) {
	t.Parallel()

	tuning := DefaultTuning()

	vote := tuning.ExtractVote("None of these drafts convince me.", []string{"agentA", "agentB"})
	assert.Equal(t, "", vote)
}

func TestExtractVoteEmptyReasoningDoesNotPanic(t *testing.T) {
	t.Parallel()

	tuning := DefaultTuning()
	assert.Equal(t, "", tuning.ExtractVote("", []string{"agentA"}))
	assert.Equal(t, "", tuning.ExtractVote("some text", nil))
}

// ---------------------------------------------------------------------------
// TallyVotes
// ---------------------------------------------------------------------------

func TestTallyVotesMajority(t *testing.T) {
	t.Parallel()

	winner, counts := TallyVotes(
		[]string{"agentA", "agentB", "agentB"},
		[]string{"agentA", "agentB"},
	)
	assert.Equal(t, "agentB", winner)
	assert.Equal(t, 2, counts["agentB"])
}

func TestTallyVotesTieBreaksByCandidateOrder(t *testing.T) {
	t.Parallel()

	winner, _ := TallyVotes(
		[]string{"agentB", "agentA"},
		[]string{"agentA", "agentB"},
	)
	assert.Equal(t, "agentA", winner)
}

func TestTallyVotesSkipsVoid(t *testing.T) {
	t.Parallel()

	winner, counts := TallyVotes(
		[]string{"", "", "agentB"},
		[]string{"agentA", "agentB"},
	)
	assert.Equal(t, "agentB", winner)
	assert.NotContains(t, counts, "")
}

func TestTallyVotesAllVoid(t *testing.T) {
	t.Parallel()

	winner, counts := TallyVotes([]string{"", ""}, []string{"agentA"})
	assert.Equal(t, "", winner)
	assert.Empty(t, counts)
}

// ---------------------------------------------------------------------------
// issueDensity
// ---------------------------------------------------------------------------

func TestIssueDensity(t *testing.T) {
	t.Parallel()

	tuning := DefaultTuning()

	assert.Zero(t, tuning.issueDensity(""))

	clean := "the answer is sound and well supported in every respect"
	assert.Less(t, tuning.issueDensity(clean), tuning.IssueThreshold)

	dirty := "error error wrong incorrect missing error wrong"
	assert.GreaterOrEqual(t, tuning.issueDensity(dirty), tuning.IssueThreshold)
}
