package scenarios

import (
	"github.com/shopspring/decimal"

	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

// highValueCategories signal spend pressure that financing could cover
var highValueCategories = []string{
	"Медицина",
	"Авто",
	"Путешествия",
	"Ювелирные украшения",
	"Подарки",
}

// CashCredit scores the unsecured cash loan: 12% for one year, 21%
// beyond, free early repayment.
// Components: stability 40%, credit behaviour 30%, financing need 20%,
// status 10%.
type CashCredit struct{}

func NewCashCredit() *CashCredit { return &CashCredit{} }

func (s *CashCredit) ProductName() string { return "Кредит наличными" }
func (s *CashCredit) TemplateKey() string { return "cash_credit" }

func (s *CashCredit) Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result {
	if emptyView(view) {
		return noData()
	}

	const floor = 100_000
	balance := view.Customer.AvgBalance
	var reasons []string

	stabilityScore := balanceLadder(balance, floor)
	if stabilityScore > 0.7 {
		reasons = append(reasons, "Высокая финансовая стабильность для кредитования")
	} else if stabilityScore > 0.4 {
		reasons = append(reasons, "Достаточная финансовая стабильность")
	}

	creditScore := countLadder(agg.CreditActivityCount)
	if creditScore > 0.7 {
		reasons = append(reasons, "Опытный пользователь кредитных продуктов")
	} else if creditScore > 0.4 {
		reasons = append(reasons, "Есть опыт кредитования")
	}

	needScore := financingNeed(agg)
	if needScore > 0.7 {
		reasons = append(reasons, "Высокая потребность в дополнительном финансировании")
	} else if needScore > 0.4 {
		reasons = append(reasons, "Умеренная потребность в финансировании")
	}

	statusScore := statusLadder(view.Customer.Status)
	if statusScore > 0.7 {
		reasons = append(reasons, "Оптимальный статус для кредитования")
	}

	score := clamp01(stabilityScore*0.40 + creditScore*0.30 +
		needScore*0.20 + statusScore*0.10)

	if balanceBelow(balance, 100_000) {
		score *= 0.2
		reasons = append(reasons, "Недостаточная финансовая стабильность для кредита")
	} else if balanceBelow(balance, 300_000) {
		score *= 0.6
		reasons = append(reasons, "Баланс ниже рекомендуемого для кредита наличными")
	}
	if total := len(view.Transfers); total > 0 {
		if float64(agg.CreditActivityCount)/float64(total) >= 0.3 {
			score = boost(score, 1.2)
			reasons = append(reasons, "Бонус за высокую кредитную активность")
		}
	}
	score = round3(score)

	base := mulRate(balance, 0.10).Add(mulRate(balance, 0.03))

	return Result{
		Score:   score,
		Benefit: scaleBenefit(base, score),
		Reasons: reasons,
		Facts: map[string]any{
			FactBalance:     balance,
			FactCreditLimit: decimal.NewFromInt(2_000_000),
			FactCreditTerms: "до 24 месяцев",
		},
	}
}

// financingNeed averages the high-value spend share and the spend to
// outflow pressure ratio.
func financingNeed(agg *analytics.Aggregates) float64 {
	if agg.TotalSpend.IsZero() {
		return 0
	}

	highValueScore := clamp01(agg.CategoryShare(highValueCategories...) * 2)

	consumptionScore := 0.0
	if !agg.OutSum.IsZero() {
		ratio, _ := agg.TotalSpend.Div(agg.OutSum).Float64()
		consumptionScore = clamp01(ratio * 0.5)
	}

	return (highValueScore + consumptionScore) / 2
}
