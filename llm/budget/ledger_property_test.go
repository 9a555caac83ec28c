package budget

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

// Total cost must always equal the sum of per-agent costs, and must never
// decrease, regardless of the interleaving of input/output charges.
func TestLedgerSumInvariant(t *testing.T) {
	t.Parallel()

	providers := []string{"claude", "gpt", "gemini", "deepseek", "mystery"}

	rapid.Check(t, func(t *rapid.T) {
		l := NewLedger(0, DefaultRateTable(), nil)
		prev := 0.0

		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			provider := rapid.SampledFrom(providers).Draw(t, "provider")
			n := rapid.IntRange(0, 100_000).Draw(t, "tokens")
			if rapid.Bool().Draw(t, "direction") {
				l.AddInputTokens(provider, n)
			} else {
				l.AddOutputTokens(provider, n)
			}

			total := l.TotalCost()
			if total < prev {
				t.Fatalf("total cost decreased: %f -> %f", prev, total)
			}
			prev = total
		}

		sum := 0.0
		for _, u := range l.Usage() {
			sum += u.Cost
		}
		if math.Abs(sum-l.TotalCost()) > 1e-9 {
			t.Fatalf("per-agent sum %f != total %f", sum, l.TotalCost())
		}
	})
}
