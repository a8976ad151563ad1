package scenarios

import (
	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

var investmentTypes = []domain.TransferType{
	domain.TransferInvestIn,
	domain.TransferInvestOut,
	domain.TransferDepositTopupOut,
	domain.TransferDepositFXTopupOut,
}

var riskTypes = []domain.TransferType{
	domain.TransferInvestIn,
	domain.TransferInvestOut,
	domain.TransferFXBuy,
	domain.TransferFXSell,
	domain.TransferGoldBuyOut,
	domain.TransferGoldSellIn,
}

// Investments scores the brokerage product: zero commission trades
// with an entry threshold of 6 tenge.
// Components: readiness 30%, potential 35%, risk tolerance 20%,
// status 15%.
type Investments struct{}

func NewInvestments() *Investments { return &Investments{} }

func (s *Investments) ProductName() string { return "Инвестиции" }
func (s *Investments) TemplateKey() string { return "investments" }

func (s *Investments) Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result {
	if emptyView(view) {
		return noData()
	}

	const floor = 50_000
	balance := view.Customer.AvgBalance
	var reasons []string

	readinessScore := balanceLadder(balance, floor)
	if readinessScore > 0.7 {
		reasons = append(reasons, "Финансовая готовность к инвестициям")
	} else if readinessScore > 0.4 {
		reasons = append(reasons, "Базовая финансовая готовность")
	}

	potentialScore := investmentPotential(agg)
	if potentialScore > 0.7 {
		reasons = append(reasons, "Высокий инвестиционный потенциал")
	} else if potentialScore > 0.4 {
		reasons = append(reasons, "Умеренный инвестиционный потенциал")
	}

	riskScore := riskTolerance(view, agg)
	if riskScore > 0.6 {
		reasons = append(reasons, "Готовность к инвестиционным рискам")
	} else if riskScore > 0.3 {
		reasons = append(reasons, "Умеренная готовность к риску")
	}

	statusScore := statusLadder(view.Customer.Status)
	if statusScore > 0.7 {
		reasons = append(reasons, "Оптимальный статус для начала инвестиций")
	}

	score := clamp01(readinessScore*0.30 + potentialScore*0.35 +
		riskScore*0.20 + statusScore*0.15)

	if balanceBelow(balance, 50_000) {
		score *= 0.3
		reasons = append(reasons, "Недостаточные средства для инвестиций")
	} else if balanceBelow(balance, 100_000) {
		score *= 0.7
		reasons = append(reasons, "Минимальные средства для инвестиций")
	}
	if !balanceBelow(balance, 100_000) {
		score = boost(score, 1.1)
		reasons = append(reasons, "Бонус за доступность инвестиций от 6 ₸")
	}
	score = round3(score)

	base := mulRate(balance, 0.05).Add(mulRate(balance, 0.015))

	return Result{
		Score:   score,
		Benefit: scaleBenefit(base, score),
		Reasons: reasons,
		Facts: map[string]any{
			FactBalance: balance,
		},
	}
}

// investmentPotential averages placement activity and spend diversity
func investmentPotential(agg *analytics.Aggregates) float64 {
	ops := agg.TransferCount(investmentTypes...)
	var opsScore float64
	switch {
	case ops >= 5:
		opsScore = 1.0
	case ops >= 3:
		opsScore = 0.8
	case ops >= 1:
		opsScore = 0.6
	default:
		opsScore = 0.2
	}

	categories := len(agg.ByCategorySum)
	var diversityScore float64
	switch {
	case categories >= 8:
		diversityScore = 1.0
	case categories >= 5:
		diversityScore = 0.8
	case categories >= 3:
		diversityScore = 0.6
	case categories >= 2:
		diversityScore = 0.4
	default:
		diversityScore = 0.1
	}

	return (opsScore + diversityScore) / 2
}

// riskTolerance averages risky-operation count and overall transaction
// activity.
func riskTolerance(view domain.CustomerView, agg *analytics.Aggregates) float64 {
	ops := agg.TransferCount(riskTypes...)
	var riskScore float64
	switch {
	case ops >= 3:
		riskScore = 1.0
	case ops >= 2:
		riskScore = 0.8
	case ops >= 1:
		riskScore = 0.6
	default:
		riskScore = 0.2
	}

	activity := len(view.Transactions)
	var activityScore float64
	switch {
	case activity >= 30:
		activityScore = 1.0
	case activity >= 20:
		activityScore = 0.8
	case activity >= 10:
		activityScore = 0.6
	case activity >= 5:
		activityScore = 0.4
	default:
		activityScore = 0.1
	}

	return (riskScore + activityScore) / 2
}
