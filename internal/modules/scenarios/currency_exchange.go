package scenarios

import (
	"github.com/shopspring/decimal"

	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

// CurrencyExchange scores the in-app FX exchange product.
// Components: stability 20%, FX activity 50%, regularity 20%,
// operation size 10%.
type CurrencyExchange struct{}

func NewCurrencyExchange() *CurrencyExchange { return &CurrencyExchange{} }

func (s *CurrencyExchange) ProductName() string { return "Обмен валют" }
func (s *CurrencyExchange) TemplateKey() string { return "currency_exchange" }

func (s *CurrencyExchange) Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result {
	if emptyView(view) {
		return noData()
	}

	const floor = 50_000
	balance := view.Customer.AvgBalance
	var reasons []string

	stabilityScore := balanceLadder(balance, floor)
	if stabilityScore > 0.7 {
		reasons = append(reasons, "Высокая финансовая стабильность")
	} else if stabilityScore > 0.4 {
		reasons = append(reasons, "Достаточная финансовая стабильность")
	}

	fxShare := fxTransferShare(agg)
	fxScore := 0.0
	if agg.FXCount > 0 {
		fxScore = fxShareScore(fxShare)
	}
	if fxScore > 0.7 {
		reasons = append(reasons, "Активные валютные операции")
	} else if fxScore > 0.4 {
		reasons = append(reasons, "Умеренные валютные операции")
	}

	regularityScore := 0.0
	if agg.MonthsObserved > 0 {
		months := agg.FXMonths
		if months > agg.MonthsObserved {
			months = agg.MonthsObserved
		}
		regularityScore = float64(months) / float64(agg.MonthsObserved)
	}
	if regularityScore > 0.7 {
		reasons = append(reasons, "Регулярные валютные операции")
	} else if regularityScore > 0.4 {
		reasons = append(reasons, "Периодические валютные операции")
	}

	amountScore := fxAmountScore(agg)
	if amountScore > 0.6 {
		reasons = append(reasons, "Крупные валютные операции")
	}

	score := clamp01(stabilityScore*0.20 + fxScore*0.50 + regularityScore*0.20 + amountScore*0.10)

	if balanceBelow(balance, 50_000) {
		score *= 0.3
		reasons = append(reasons, "Недостаточный баланс для валютных операций")
	} else if balanceBelow(balance, 100_000) {
		score *= 0.6
		reasons = append(reasons, "Баланс ниже рекомендуемого для валютных операций")
	}
	if fxShare >= 0.1 {
		score = boost(score, 1.2)
		reasons = append(reasons, "Бонус за высокую валютную активность")
	}
	score = round3(score)

	savings := mulRate(agg.FXSum, 0.01)
	base := mulRate(balance, 0.005).Add(savings)

	return Result{
		Score:   score,
		Benefit: scaleBenefit(base, score),
		Reasons: reasons,
		Facts: map[string]any{
			FactBalance:    balance,
			FactFXSum:      agg.FXSum,
			FactFXCount:    agg.FXCount,
			FactFXCurrency: dominantFXCurrency(view),
			FactSavings:    savings,
		},
	}
}

// fxTransferShare is the FX share of total transfer volume
func fxTransferShare(agg *analytics.Aggregates) float64 {
	total := agg.InSum.Add(agg.OutSum)
	if total.IsZero() {
		return 0
	}
	share, _ := agg.FXSum.Div(total).Float64()
	return share
}

func fxShareScore(share float64) float64 {
	switch {
	case share >= 0.20:
		return 1.0
	case share >= 0.10:
		return 0.8
	case share >= 0.05:
		return 0.6
	case share >= 0.02:
		return 0.4
	default:
		return 0.2
	}
}

// fxAmountScore grades the average FX operation size
func fxAmountScore(agg *analytics.Aggregates) float64 {
	if agg.FXCount == 0 {
		return 0
	}
	avg := agg.FXSum.Div(decimal.NewFromInt(int64(agg.FXCount)))
	switch {
	case !balanceBelow(avg, 500_000):
		return 1.0
	case !balanceBelow(avg, 200_000):
		return 0.8
	case !balanceBelow(avg, 100_000):
		return 0.6
	case !balanceBelow(avg, 50_000):
		return 0.4
	default:
		return 0.2
	}
}

// dominantFXCurrency picks the most frequent non-KZT currency among
// transfers, defaulting to USD.
func dominantFXCurrency(view domain.CustomerView) string {
	counts := make(map[domain.Currency]int)
	for _, tr := range view.Transfers {
		if tr.Currency != "" && tr.Currency != domain.CurrencyKZT {
			counts[tr.Currency]++
		}
	}
	best := domain.CurrencyUSD
	bestCount := 0
	for cur, n := range counts {
		if n > bestCount || (n == bestCount && cur < best) {
			best = cur
			bestCount = n
		}
	}
	return string(best)
}
