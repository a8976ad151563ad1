// Package ranking orders scenario outcomes into a stable product list.
// Ranking is pure: it copies its input and touches no storage.
package ranking

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pushlab/push-analytics/internal/modules/evaluation"
	"github.com/pushlab/push-analytics/internal/modules/scenarios"
	"github.com/pushlab/push-analytics/internal/domain"
)

var (
	highBenefitBar   = decimal.NewFromInt(100_000)
	mediumBenefitBar = decimal.NewFromInt(50_000)
)

// PriorityFor buckets one outcome. Both the score and the expected
// benefit must clear a bar; a high score on a negligible benefit stays
// low priority.
func PriorityFor(score float64, benefit decimal.Decimal) domain.Priority {
	switch {
	case score > 0.8 && benefit.GreaterThan(highBenefitBar):
		return domain.PriorityHigh
	case score > 0.5 && benefit.GreaterThan(mediumBenefitBar):
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// Ranked is one outcome with its assigned priority
type Ranked struct {
	Outcome  evaluation.Outcome
	Priority domain.Priority
}

// Rank assigns priorities and sorts best-first: priority desc, score
// desc, expected benefit desc, then the fixed product order as the
// final tiebreaker so equal outcomes always list identically.
func Rank(outcomes []evaluation.Outcome) []Ranked {
	order := scenarios.ProductOrder()

	ranked := make([]Ranked, 0, len(outcomes))
	for _, out := range outcomes {
		ranked = append(ranked, Ranked{
			Outcome:  out,
			Priority: PriorityFor(out.Result.Score, out.Result.Benefit),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		if a.Outcome.Result.Score != b.Outcome.Result.Score {
			return a.Outcome.Result.Score > b.Outcome.Result.Score
		}
		if !a.Outcome.Result.Benefit.Equal(b.Outcome.Result.Benefit) {
			return a.Outcome.Result.Benefit.GreaterThan(b.Outcome.Result.Benefit)
		}
		return order[a.Outcome.Scenario.ProductName()] < order[b.Outcome.Scenario.ProductName()]
	})

	return ranked
}

// Top returns the first n ranked entries, fewer when the list is short
func Top(ranked []Ranked, n int) []Ranked {
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
