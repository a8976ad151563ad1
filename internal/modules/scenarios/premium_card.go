package scenarios

import (
	"github.com/shopspring/decimal"

	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

// premiumCategories is the controlled vocabulary of premium spend
var premiumCategories = []string{
	"Кафе и рестораны",
	"Косметика и Парфюмерия",
	"Подарки",
	"Ювелирные украшения",
}

var incomeTypes = []domain.TransferType{
	domain.TransferSalaryIn,
	domain.TransferStipendIn,
	domain.TransferFamilyIn,
	domain.TransferCardIn,
}

// PremiumCard scores the premium card: 2-4% cashback by balance band,
// free withdrawals and transfers.
// Components: balance 40%, status 20%, premium spend 20%, income 10%,
// activity 10%. The balance bands follow the product's own cashback
// tiers instead of the common floor ladder.
type PremiumCard struct{}

func NewPremiumCard() *PremiumCard { return &PremiumCard{} }

func (s *PremiumCard) ProductName() string { return "Премиальная карта" }
func (s *PremiumCard) TemplateKey() string { return "premium_card" }

func (s *PremiumCard) Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result {
	if emptyView(view) {
		return noData()
	}

	balance := view.Customer.AvgBalance
	var reasons []string

	balanceScore := premiumBalanceScore(balance)
	switch {
	case balanceScore > 0.9:
		reasons = append(reasons, "Очень высокий баланс - идеально для премиальной карты")
	case balanceScore > 0.7:
		reasons = append(reasons, "Высокий баланс - отлично подходит для премиальной карты")
	case balanceScore > 0.5:
		reasons = append(reasons, "Достаточный баланс для премиальной карты")
	}

	statusScore := statusLadder(view.Customer.Status)
	if statusScore > 0.8 {
		reasons = append(reasons, "Премиальный статус клиента")
	}

	premiumScore := 0.0
	if agg.CategoryCount(premiumCategories...) > 0 {
		premiumScore = shareLadder(agg.CategoryShare(premiumCategories...))
	}
	if premiumScore > 0.7 {
		reasons = append(reasons, "Активные траты в премиальных категориях")
	} else if premiumScore > 0.4 {
		reasons = append(reasons, "Умеренные траты в премиальных категориях")
	}

	incomeScore := premiumIncomeScore(agg)
	if incomeScore > 0.7 {
		reasons = append(reasons, "Регулярные крупные поступления")
	} else if incomeScore > 0.4 {
		reasons = append(reasons, "Стабильные поступления")
	}

	activityScore := premiumActivityScore(view)
	if activityScore > 0.7 {
		reasons = append(reasons, "Высокая активность операций")
	}

	score := clamp01(balanceScore*0.40 + statusScore*0.20 + premiumScore*0.20 +
		incomeScore*0.10 + activityScore*0.10)

	if balanceBelow(balance, 500_000) {
		score *= 0.3
		reasons = append(reasons, "Недостаточный баланс для премиальной карты")
	} else if balanceBelow(balance, 800_000) {
		score *= 0.6
		reasons = append(reasons, "Баланс ниже рекомендуемого для премиальной карты")
	}
	if view.Customer.Status == domain.StatusPremium {
		score = boost(score, 1.2)
		reasons = append(reasons, "Бонус за премиальный статус клиента")
	}
	score = round3(score)

	monthlySpend := agg.AvgMonthlySpend().Round(2)
	cashback := mulRate(monthlySpend, premiumCashbackRate(balance))

	return Result{
		Score:   score,
		Benefit: scaleBenefit(cashback, score),
		Reasons: reasons,
		Facts: map[string]any{
			FactBalance:      balance,
			FactMonthlySpend: monthlySpend,
			FactCashback:     cashback,
		},
	}
}

// premiumBalanceScore follows the product's cashback tiers
func premiumBalanceScore(balance decimal.Decimal) float64 {
	switch {
	case !balanceBelow(balance, 6_000_000):
		return 1.0
	case !balanceBelow(balance, 1_000_000):
		return 0.9
	case !balanceBelow(balance, 800_000):
		return 0.8
	case !balanceBelow(balance, 500_000):
		return 0.6
	case !balanceBelow(balance, 200_000):
		return 0.3
	default:
		return 0.1
	}
}

// premiumCashbackRate is the card's rate by deposit band
func premiumCashbackRate(balance decimal.Decimal) float64 {
	switch {
	case !balanceBelow(balance, 6_000_000):
		return 0.04
	case !balanceBelow(balance, 1_000_000):
		return 0.03
	default:
		return 0.02
	}
}

// premiumIncomeScore grades inbound transfers by size, regularity and
// the presence of a salary stream.
func premiumIncomeScore(agg *analytics.Aggregates) float64 {
	count := agg.TransferCount(incomeTypes...)
	if count == 0 {
		return 0
	}
	total := agg.TransferSum(incomeTypes...)
	avg := total.Div(decimal.NewFromInt(int64(count)))

	score := 0.0
	switch {
	case !balanceBelow(avg, 500_000):
		score += 0.5
	case !balanceBelow(avg, 200_000):
		score += 0.3
	case !balanceBelow(avg, 100_000):
		score += 0.1
	}
	if count >= 3 {
		score += 0.3
	} else {
		score += 0.1
	}
	if agg.SalaryInCount > 0 {
		score += 0.2
	}
	return clamp01(score)
}

// premiumActivityScore grades overall monthly operation volume
func premiumActivityScore(view domain.CustomerView) float64 {
	window := view.WindowDays
	if window <= 0 {
		window = domain.DefaultWindowDays
	}
	monthlyTx := float64(len(view.Transactions)) / float64(window) * 30
	monthlyTr := float64(len(view.Transfers)) / float64(window) * 30

	switch {
	case monthlyTx >= 20 && monthlyTr >= 10:
		return 1.0
	case monthlyTx >= 15 && monthlyTr >= 5:
		return 0.8
	case monthlyTx >= 10 && monthlyTr >= 3:
		return 0.6
	case monthlyTx >= 5:
		return 0.4
	default:
		return 0.2
	}
}
