package scenarios

import (
	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

var diversificationTypes = []domain.TransferType{
	domain.TransferInvestIn,
	domain.TransferInvestOut,
	domain.TransferFXBuy,
	domain.TransferFXSell,
	domain.TransferDepositTopupOut,
	domain.TransferDepositFXTopupOut,
}

var longTermTypes = []domain.TransferType{
	domain.TransferDepositTopupOut,
	domain.TransferDepositFXTopupOut,
	domain.TransferInvestIn,
	domain.TransferGoldBuyOut,
}

// GoldBars scores physical gold: 999.9 purity bars with bank storage.
// Components: readiness 40%, diversification need 30%, long-term
// behaviour 20%, status 10%.
type GoldBars struct{}

func NewGoldBars() *GoldBars { return &GoldBars{} }

func (s *GoldBars) ProductName() string { return "Золотые слитки" }
func (s *GoldBars) TemplateKey() string { return "gold_bars" }

func (s *GoldBars) Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result {
	if emptyView(view) {
		return noData()
	}

	const floor = 500_000
	balance := view.Customer.AvgBalance
	var reasons []string

	readinessScore := balanceLadder(balance, floor)
	if readinessScore > 0.8 {
		reasons = append(reasons, "Высокая финансовая готовность для инвестиций в золото")
	} else if readinessScore > 0.5 {
		reasons = append(reasons, "Достаточная финансовая готовность")
	}

	divRatio := diversificationRatio(view, agg)
	divScore := diversificationScore(view, divRatio)
	if divScore > 0.7 {
		reasons = append(reasons, "Потребность в диверсификации портфеля")
	} else if divScore > 0.4 {
		reasons = append(reasons, "Умеренная потребность в диверсификации")
	}

	longTermScore := longTermBehaviour(agg)
	if longTermScore > 0.6 {
		reasons = append(reasons, "Склонность к долгосрочному сохранению стоимости")
	} else if longTermScore > 0.3 {
		reasons = append(reasons, "Умеренная склонность к долгосрочным инвестициям")
	}

	statusScore := statusLadder(view.Customer.Status)
	if statusScore > 0.7 {
		reasons = append(reasons, "Оптимальный статус для инвестиций в золото")
	}

	score := clamp01(readinessScore*0.40 + divScore*0.30 +
		longTermScore*0.20 + statusScore*0.10)

	if balanceBelow(balance, 500_000) {
		score *= 0.2
		reasons = append(reasons, "Недостаточные средства для инвестиций в золото")
	} else if balanceBelow(balance, 1_000_000) {
		score *= 0.6
		reasons = append(reasons, "Минимальные средства для золотых слитков")
	}
	if divRatio >= 0.3 {
		score = boost(score, 1.15)
		reasons = append(reasons, "Бонус за высокую диверсификационную активность")
	}
	score = round3(score)

	base := mulRate(balance, 0.035)

	return Result{
		Score:   score,
		Benefit: scaleBenefit(base, score),
		Reasons: reasons,
		Facts: map[string]any{
			FactBalance: balance,
		},
	}
}

func diversificationRatio(view domain.CustomerView, agg *analytics.Aggregates) float64 {
	if len(view.Transfers) == 0 {
		return 0
	}
	return float64(agg.TransferCount(diversificationTypes...)) / float64(len(view.Transfers))
}

func diversificationScore(view domain.CustomerView, ratio float64) float64 {
	if len(view.Transfers) == 0 {
		return 0
	}
	switch {
	case ratio >= 0.40:
		return 1.0
	case ratio >= 0.30:
		return 0.8
	case ratio >= 0.20:
		return 0.6
	case ratio >= 0.10:
		return 0.4
	default:
		return 0.1
	}
}

func longTermBehaviour(agg *analytics.Aggregates) float64 {
	ops := agg.TransferCount(longTermTypes...)
	switch {
	case ops >= 5:
		return 1.0
	case ops >= 3:
		return 0.8
	case ops >= 2:
		return 0.6
	case ops >= 1:
		return 0.4
	default:
		return 0.1
	}
}
