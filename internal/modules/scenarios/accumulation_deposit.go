package scenarios

import (
	"github.com/shopspring/decimal"

	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

var depositTopupTypes = []domain.TransferType{
	domain.TransferDepositTopupOut,
	domain.TransferDepositFXTopupOut,
}

// AccumulationDeposit scores the top-up deposit: 15.50% rate, top-ups
// allowed, withdrawals locked.
// Components: stability 35%, accumulation behaviour 40%,
// top-up regularity 15%, status 10%.
type AccumulationDeposit struct{}

func NewAccumulationDeposit() *AccumulationDeposit { return &AccumulationDeposit{} }

func (s *AccumulationDeposit) ProductName() string { return "Депозит Накопительный" }
func (s *AccumulationDeposit) TemplateKey() string { return "accumulation_deposit" }

func (s *AccumulationDeposit) Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result {
	if emptyView(view) {
		return noData()
	}

	const floor = 200_000
	balance := view.Customer.AvgBalance
	window := view.WindowDays
	if window <= 0 {
		window = domain.DefaultWindowDays
	}
	var reasons []string

	stabilityScore := balanceLadder(balance, floor)
	if stabilityScore > 0.7 {
		reasons = append(reasons, "Стабильный доход для планомерного накопления")
	} else if stabilityScore > 0.4 {
		reasons = append(reasons, "Достаточная финансовая стабильность")
	}

	monthlyTopups := float64(agg.AccumulationCount) / float64(window) * 30
	accumulationScore := (topupFrequencyScore(monthlyTopups) + savingsRatioScore(balance, agg)) / 2
	if accumulationScore > 0.7 {
		reasons = append(reasons, "Активное накопительное поведение - идеально для накопительного депозита")
	} else if accumulationScore > 0.4 {
		reasons = append(reasons, "Умеренная склонность к накоплениям")
	}

	monthlyDeposits := float64(agg.TransferCount(depositTopupTypes...)) / float64(window) * 30
	regularityScore := depositRegularityScore(monthlyDeposits)
	if regularityScore > 0.6 {
		reasons = append(reasons, "Регулярные пополнения - подходит для накопительного депозита")
	}

	statusScore := statusLadder(view.Customer.Status)
	if statusScore > 0.7 {
		reasons = append(reasons, "Оптимальный статус для планомерного накопления")
	}

	score := clamp01(stabilityScore*0.35 + accumulationScore*0.40 +
		regularityScore*0.15 + statusScore*0.10)

	if balanceBelow(balance, 200_000) {
		score *= 0.2
		reasons = append(reasons, "Недостаточный доход для планомерного накопления")
	} else if balanceBelow(balance, 500_000) {
		score *= 0.6
		reasons = append(reasons, "Доход ниже рекомендуемого для накопительного депозита")
	}
	if monthlyTopups >= 2 {
		score = boost(score, 1.2)
		reasons = append(reasons, "Бонус за высокую накопительную активность")
	}
	score = round3(score)

	base := mulRate(balance, 0.155).Add(mulRate(balance, 0.03))

	return Result{
		Score:   score,
		Benefit: scaleBenefit(base, score),
		Reasons: reasons,
		Facts: map[string]any{
			FactBalance:    balance,
			FactMonths:     agg.MonthsObserved,
			FactMinBalance: balance.Mul(decimal.NewFromFloat(0.5)).Round(2),
		},
	}
}

func topupFrequencyScore(monthly float64) float64 {
	switch {
	case monthly >= 3:
		return 1.0
	case monthly >= 2:
		return 0.8
	case monthly >= 1:
		return 0.6
	case monthly >= 0.5:
		return 0.4
	default:
		return 0.1
	}
}

// savingsRatioScore relates window accumulation volume to three months
// of the average balance.
func savingsRatioScore(balance decimal.Decimal, agg *analytics.Aggregates) float64 {
	if balance.IsZero() {
		return 0.1
	}
	ratio, _ := agg.AccumulationSum.Div(balance.Mul(decimal.NewFromInt(3))).Float64()
	switch {
	case ratio >= 0.20:
		return 1.0
	case ratio >= 0.15:
		return 0.8
	case ratio >= 0.10:
		return 0.6
	case ratio >= 0.05:
		return 0.4
	default:
		return 0.1
	}
}

func depositRegularityScore(monthly float64) float64 {
	switch {
	case monthly >= 2:
		return 1.0
	case monthly >= 1:
		return 0.7
	case monthly >= 0.5:
		return 0.4
	default:
		return 0.1
	}
}
