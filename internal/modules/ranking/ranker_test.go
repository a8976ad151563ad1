package ranking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushlab/push-analytics/internal/modules/evaluation"
	"github.com/pushlab/push-analytics/internal/modules/scenarios"
	"github.com/pushlab/push-analytics/internal/domain"
)

func outcome(s scenarios.Scenario, score float64, benefit int64) evaluation.Outcome {
	return evaluation.Outcome{
		Scenario: s,
		Result: scenarios.Result{
			Score:   score,
			Benefit: decimal.NewFromInt(benefit),
		},
	}
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		benefit int64
		want    domain.Priority
	}{
		{"high score high benefit", 0.9, 150_000, domain.PriorityHigh},
		{"high score at the benefit bar", 0.9, 100_000, domain.PriorityMedium},
		{"high score small benefit", 0.95, 20_000, domain.PriorityLow},
		{"medium score medium benefit", 0.6, 60_000, domain.PriorityMedium},
		{"score at the medium bar", 0.5, 60_000, domain.PriorityLow},
		{"low everything", 0.2, 5_000, domain.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriorityFor(tt.score, decimal.NewFromInt(tt.benefit))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRank_OrdersByPriorityThenScore(t *testing.T) {
	outcomes := []evaluation.Outcome{
		outcome(scenarios.NewTravelCard(), 0.6, 60_000),
		outcome(scenarios.NewPremiumCard(), 0.9, 200_000),
		outcome(scenarios.NewCashCredit(), 0.3, 10_000),
		outcome(scenarios.NewInvestments(), 0.85, 150_000),
	}

	ranked := Rank(outcomes)
	require.Len(t, ranked, 4)

	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.Outcome.Scenario.ProductName())
	}
	assert.Equal(t, []string{
		"Премиальная карта",
		"Инвестиции",
		"Карта для путешествий",
		"Кредит наличными",
	}, names)

	assert.Equal(t, domain.PriorityHigh, ranked[0].Priority)
	assert.Equal(t, domain.PriorityHigh, ranked[1].Priority)
	assert.Equal(t, domain.PriorityMedium, ranked[2].Priority)
	assert.Equal(t, domain.PriorityLow, ranked[3].Priority)
}

func TestRank_TieBrokenByBenefitThenProductOrder(t *testing.T) {
	outcomes := []evaluation.Outcome{
		outcome(scenarios.NewGoldBars(), 0.7, 80_000),
		outcome(scenarios.NewTravelCard(), 0.7, 90_000),
		outcome(scenarios.NewCreditCard(), 0.7, 80_000),
	}

	ranked := Rank(outcomes)

	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.Outcome.Scenario.ProductName())
	}
	// benefit wins first, then the registry order settles the 80k pair
	assert.Equal(t, []string{
		"Карта для путешествий",
		"Кредитная карта",
		"Золотые слитки",
	}, names)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	outcomes := []evaluation.Outcome{
		outcome(scenarios.NewTravelCard(), 0.2, 1_000),
		outcome(scenarios.NewPremiumCard(), 0.9, 200_000),
	}

	_ = Rank(outcomes)

	assert.Equal(t, "Карта для путешествий", outcomes[0].Scenario.ProductName())
	assert.Equal(t, "Премиальная карта", outcomes[1].Scenario.ProductName())
}

func TestTop(t *testing.T) {
	ranked := Rank([]evaluation.Outcome{
		outcome(scenarios.NewTravelCard(), 0.9, 200_000),
		outcome(scenarios.NewPremiumCard(), 0.6, 60_000),
		outcome(scenarios.NewCashCredit(), 0.2, 1_000),
	})

	assert.Len(t, Top(ranked, 2), 2)
	assert.Len(t, Top(ranked, 10), 3)
	assert.Empty(t, Top(ranked, 0))
}
