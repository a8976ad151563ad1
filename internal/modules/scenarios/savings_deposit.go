package scenarios

import (
	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

// outflowTypes counted against freeze readiness
var outflowTypes = []domain.TransferType{
	domain.TransferATMWithdrawal,
	domain.TransferP2POut,
}

// SavingsDeposit scores the locked savings deposit: 16.50% rate with
// KDIF protection, no top-ups or withdrawals until maturity.
// Components: stability 50%, freeze readiness 30%, saving behaviour 15%,
// status 5%.
type SavingsDeposit struct{}

func NewSavingsDeposit() *SavingsDeposit { return &SavingsDeposit{} }

func (s *SavingsDeposit) ProductName() string { return "Депозит Сберегательный" }
func (s *SavingsDeposit) TemplateKey() string { return "savings_deposit" }

func (s *SavingsDeposit) Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result {
	if emptyView(view) {
		return noData()
	}

	const floor = 1_000_000
	balance := view.Customer.AvgBalance
	var reasons []string

	stabilityScore := balanceLadder(balance, floor)
	if stabilityScore > 0.8 {
		reasons = append(reasons, "Высокая финансовая стабильность для сберегательного депозита")
	} else if stabilityScore > 0.5 {
		reasons = append(reasons, "Достаточная финансовая стабильность")
	}

	freezeScore := freezeReadiness(view, agg)
	if freezeScore > 0.7 {
		reasons = append(reasons, "Готовность к заморозке средств на длительный срок")
	} else if freezeScore > 0.4 {
		reasons = append(reasons, "Умеренная готовность к долгосрочным вложениям")
	}

	savingScore := countLadder(agg.AccumulationCount)
	if savingScore > 0.6 {
		reasons = append(reasons, "Склонность к долгосрочным сбережениям и накоплениям")
	}

	statusScore := statusLadder(view.Customer.Status)
	if statusScore > 0.7 {
		reasons = append(reasons, "Оптимальный статус для долгосрочных сбережений")
	}

	score := clamp01(stabilityScore*0.50 + freezeScore*0.30 + savingScore*0.15 + statusScore*0.05)

	if balanceBelow(balance, 1_000_000) {
		score *= 0.1
		reasons = append(reasons, "Недостаточный баланс для сберегательного депозита")
	} else if balanceBelow(balance, 2_000_000) {
		score *= 0.5
		reasons = append(reasons, "Баланс ниже рекомендуемого для сберегательного депозита")
	}
	if !balanceBelow(balance, 5_000_000) {
		score = boost(score, 1.15)
		reasons = append(reasons, "Бонус за высокую стабильность баланса")
	}
	score = round3(score)

	base := mulRate(balance, 0.165).Add(mulRate(balance, 0.03))

	return Result{
		Score:   score,
		Benefit: scaleBenefit(base, score),
		Reasons: reasons,
		Facts: map[string]any{
			FactBalance: balance,
		},
	}
}

// freezeReadiness averages balance stability, low withdrawal pressure,
// the presence of long-term placements, and how even the monthly spend
// is. Erratic spending suggests the customer may need the money back
// before maturity.
func freezeReadiness(view domain.CustomerView, agg *analytics.Aggregates) float64 {
	stability := balanceLadder(view.Customer.AvgBalance, 2_000_000)

	withdrawal := 0.5
	if total := len(view.Transfers); total > 0 {
		outflows := agg.TransferCount(outflowTypes...)
		ratio := float64(outflows) / float64(total)
		switch {
		case ratio <= 0.1:
			withdrawal = 1.0
		case ratio <= 0.2:
			withdrawal = 0.8
		case ratio <= 0.3:
			withdrawal = 0.6
		default:
			withdrawal = 0.3
		}
	}

	longTerm := countLadder(agg.AccumulationCount)
	evenness := spendEvennessScore(agg)

	return (stability + withdrawal + longTerm + evenness) / 4
}

// spendEvennessScore grades the coefficient of variation of monthly
// spend. No dispersion signal reads as neutral.
func spendEvennessScore(agg *analytics.Aggregates) float64 {
	avg, _ := agg.AvgMonthlySpend().Float64()
	if avg <= 0 {
		return 0.5
	}
	cv := agg.MonthlySpendStdDev / avg
	switch {
	case cv <= 0.25:
		return 1.0
	case cv <= 0.5:
		return 0.8
	case cv <= 1.0:
		return 0.5
	default:
		return 0.2
	}
}
