package scenarios

import (
	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

// MultiCurrencyDeposit scores the multi-currency deposit: 14.50% rate
// over KZT/USD/RUB/EUR with unrestricted access.
// Components: stability 40%, FX activity 35%, rebalancing need 15%,
// saving behaviour 10%.
type MultiCurrencyDeposit struct{}

func NewMultiCurrencyDeposit() *MultiCurrencyDeposit { return &MultiCurrencyDeposit{} }

func (s *MultiCurrencyDeposit) ProductName() string { return "Депозит Мультивалютный" }
func (s *MultiCurrencyDeposit) TemplateKey() string { return "multi_currency_deposit" }

func (s *MultiCurrencyDeposit) Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result {
	if emptyView(view) {
		return noData()
	}

	const floor = 500_000
	balance := view.Customer.AvgBalance
	var reasons []string

	stabilityScore := balanceLadder(balance, floor)
	if stabilityScore > 0.8 {
		reasons = append(reasons, "Высокая финансовая стабильность для мультивалютного депозита")
	} else if stabilityScore > 0.5 {
		reasons = append(reasons, "Достаточная финансовая стабильность")
	}

	currencyRatio := currencyOperationRatio(view, agg)
	currencyScore := currencyActivityScore(view, currencyRatio)
	if currencyScore > 0.7 {
		reasons = append(reasons, "Активные валютные операции - идеально для мультивалютного депозита")
	} else if currencyScore > 0.4 {
		reasons = append(reasons, "Умеренные валютные операции - подходит для диверсификации")
	}

	rebalancingScore := rebalancingNeed(view, agg)
	if rebalancingScore > 0.6 {
		reasons = append(reasons, "Потребность в валютной ребалансировке")
	} else if rebalancingScore > 0.3 {
		reasons = append(reasons, "Умеренная потребность в диверсификации валют")
	}

	savingScore := countLadder(agg.AccumulationCount)
	if savingScore > 0.6 {
		reasons = append(reasons, "Склонность к сбережениям и накоплениям")
	}

	score := clamp01(stabilityScore*0.40 + currencyScore*0.35 +
		rebalancingScore*0.15 + savingScore*0.10)

	if balanceBelow(balance, 500_000) {
		score *= 0.2
		reasons = append(reasons, "Недостаточный баланс для мультивалютного депозита")
	} else if balanceBelow(balance, 1_000_000) {
		score *= 0.6
		reasons = append(reasons, "Баланс ниже рекомендуемого для мультивалютного депозита")
	}
	if currencyRatio >= 0.3 {
		score = boost(score, 1.2)
		reasons = append(reasons, "Бонус за высокую валютную активность")
	}
	score = round3(score)

	base := mulRate(balance, 0.145).Add(mulRate(balance, 0.03))

	return Result{
		Score:   score,
		Benefit: scaleBenefit(base, score),
		Reasons: reasons,
		Facts: map[string]any{
			FactBalance:    balance,
			FactFXCurrency: dominantFXCurrency(view),
		},
	}
}

// currencyOperationRatio is the share of FX-class or non-KZT
// operations across both lists.
func currencyOperationRatio(view domain.CustomerView, agg *analytics.Aggregates) float64 {
	total := len(view.Transactions) + len(view.Transfers)
	if total == 0 {
		return 0
	}
	fx := agg.FXCount + agg.NonKZTTransactions + agg.NonKZTTransfers
	if fx > total {
		fx = total
	}
	return float64(fx) / float64(total)
}

func currencyActivityScore(view domain.CustomerView, ratio float64) float64 {
	if len(view.Transactions)+len(view.Transfers) == 0 {
		return 0
	}
	switch {
	case ratio >= 0.30:
		return 1.0
	case ratio >= 0.20:
		return 0.8
	case ratio >= 0.10:
		return 0.6
	case ratio >= 0.05:
		return 0.4
	default:
		return 0.1
	}
}

// rebalancingNeed is the FX share of the transfer count
func rebalancingNeed(view domain.CustomerView, agg *analytics.Aggregates) float64 {
	if len(view.Transfers) == 0 {
		return 0
	}
	ratio := float64(agg.FXCount) / float64(len(view.Transfers))
	switch {
	case ratio >= 0.20:
		return 1.0
	case ratio >= 0.10:
		return 0.7
	case ratio >= 0.05:
		return 0.4
	default:
		return 0.1
	}
}
