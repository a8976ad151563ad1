package scenarios

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/pushlab/push-analytics/internal/domain"
)

// balanceLadder maps the average balance onto [0,1] relative to the
// scenario's floor. Six bands, monotone.
func balanceLadder(balance decimal.Decimal, floor int64) float64 {
	f := decimal.NewFromInt(floor)
	switch {
	case balance.LessThan(f):
		return 0.1
	case balance.LessThan(f.Mul(decimal.NewFromFloat(1.5))):
		return 0.3
	case balance.LessThan(f.Mul(decimal.NewFromInt(2))):
		return 0.5
	case balance.LessThan(f.Mul(decimal.NewFromInt(3))):
		return 0.7
	case balance.LessThan(f.Mul(decimal.NewFromInt(5))):
		return 0.9
	default:
		return 1.0
	}
}

// shareLadder maps a spend share onto [0,1]. Five steps.
func shareLadder(share float64) float64 {
	switch {
	case share >= 0.30:
		return 1.0
	case share >= 0.20:
		return 0.8
	case share >= 0.10:
		return 0.6
	case share >= 0.05:
		return 0.4
	default:
		return 0.2
	}
}

// statusLadder scores the customer's service tier
func statusLadder(s domain.Status) float64 {
	switch s {
	case domain.StatusPremium:
		return 1.0
	case domain.StatusSalary:
		return 0.8
	case domain.StatusStandard:
		return 0.6
	case domain.StatusStudent:
		return 0.4
	default:
		return 0.2
	}
}

// countLadder maps an operation count onto [0,1]. Five bands.
func countLadder(n int) float64 {
	switch {
	case n >= 10:
		return 1.0
	case n >= 5:
		return 0.8
	case n >= 3:
		return 0.6
	case n >= 1:
		return 0.4
	default:
		return 0.1
	}
}

// boost multiplies a score by a bonus factor, capped at 1.0
func boost(score, factor float64) float64 {
	return math.Min(score*factor, 1.0)
}

func clamp01(score float64) float64 {
	return math.Max(0, math.Min(score, 1.0))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// balanceBelow reports whether the balance is under a KZT threshold
func balanceBelow(balance decimal.Decimal, threshold int64) bool {
	return balance.LessThan(decimal.NewFromInt(threshold))
}

// mulRate multiplies a decimal amount by a float rate, rounded to 2dp
func mulRate(amount decimal.Decimal, rate float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(rate)).Round(2)
}

// scaleBenefit applies the final score to a base benefit, never below zero
func scaleBenefit(base decimal.Decimal, score float64) decimal.Decimal {
	b := base.Mul(decimal.NewFromFloat(score)).Round(2)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}
