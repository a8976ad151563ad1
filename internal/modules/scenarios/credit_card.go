package scenarios

import (
	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

// onlineCategories is the controlled vocabulary of online services
var onlineCategories = []string{"Кино", "Играем дома", "Смотрим дома"}

// CreditCard scores the credit card: up to 10% cashback in favourite
// categories plus online services.
// Components: stability 25%, category mix 35%, online 20%,
// regularity 15%, credit experience 5%.
type CreditCard struct{}

func NewCreditCard() *CreditCard { return &CreditCard{} }

func (s *CreditCard) ProductName() string { return "Кредитная карта" }
func (s *CreditCard) TemplateKey() string { return "credit_card" }

func (s *CreditCard) Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result {
	if emptyView(view) {
		return noData()
	}

	const floor = 100_000
	balance := view.Customer.AvgBalance
	var reasons []string

	stabilityScore := balanceLadder(balance, floor)
	if stabilityScore > 0.7 {
		reasons = append(reasons, "Высокая финансовая стабильность")
	} else if stabilityScore > 0.4 {
		reasons = append(reasons, "Достаточная финансовая стабильность")
	}

	mixScore := categoryMixScore(agg)
	if mixScore > 0.7 {
		reasons = append(reasons, "Активные траты в популярных категориях для кешбэка")
	} else if mixScore > 0.4 {
		reasons = append(reasons, "Умеренные траты в различных категориях")
	}

	onlineShare := agg.CategoryShare(onlineCategories...)
	onlineScore := 0.0
	if agg.CategoryCount(onlineCategories...) > 0 {
		onlineScore = onlineShareScore(onlineShare)
	}
	if onlineScore > 0.6 {
		reasons = append(reasons, "Высокие траты на онлайн услуги (игры, доставка, кино)")
	} else if onlineScore > 0.3 {
		reasons = append(reasons, "Умеренные онлайн траты")
	}

	regularityScore := spendRegularity(agg)
	if regularityScore > 0.7 {
		reasons = append(reasons, "Регулярные траты - идеально для кешбэка")
	}

	creditScore := countLadder(agg.CreditActivityCount)
	if creditScore > 0.6 {
		reasons = append(reasons, "Опыт использования кредитных средств")
	}

	score := clamp01(stabilityScore*0.25 + mixScore*0.35 + onlineScore*0.20 +
		regularityScore*0.15 + creditScore*0.05)

	if balanceBelow(balance, 100_000) {
		score *= 0.3
		reasons = append(reasons, "Недостаточная финансовая стабильность для кредита")
	} else if balanceBelow(balance, 200_000) {
		score *= 0.6
		reasons = append(reasons, "Баланс ниже рекомендуемого для кредитной карты")
	}
	if onlineShare >= 0.3 {
		score = boost(score, 1.15)
		reasons = append(reasons, "Бонус за высокие онлайн траты")
	}
	score = round3(score)

	onlineSum := agg.CategorySum(onlineCategories...)
	onlineCashback := mulRate(onlineSum, 0.10)
	base := mulRate(balance, 0.05).Add(onlineCashback).Add(mulRate(balance, 0.02))

	return Result{
		Score:   score,
		Benefit: scaleBenefit(base, score),
		Reasons: reasons,
		Facts: map[string]any{
			FactBalance:        balance,
			FactOnlineSum:      onlineSum,
			FactOnlineCashback: onlineCashback,
			FactTopCategories:  topCategoryNames(agg, 3),
			FactPercent:        10,
		},
	}
}

// categoryMixScore combines the spend share in known categories, the
// diversity of categories used, and the concentration in the top three.
func categoryMixScore(agg *analytics.Aggregates) float64 {
	if agg.TotalSpend.IsZero() {
		return 0
	}

	otherSum := agg.ByCategorySum[analytics.OtherCategory]
	knownSum := agg.TotalSpend.Sub(otherSum)
	knownShare, _ := knownSum.Div(agg.TotalSpend).Float64()

	knownUsed := len(agg.ByCategorySum)
	if !otherSum.IsZero() {
		knownUsed--
	}
	diversity := float64(knownUsed) / 17.0

	var top3 float64
	for i, cat := range agg.TopByAmount {
		if i >= 3 || cat.Category == analytics.OtherCategory {
			continue
		}
		v, _ := cat.Sum.Float64()
		top3 += v
	}
	known, _ := knownSum.Float64()
	concentration := 0.0
	if known > 0 {
		concentration = top3 / known
	}

	ratioScore := clamp01(knownShare * 2)
	diversityScore := clamp01(diversity * 2)
	concentrationScore := clamp01(concentration * 1.5)
	return (ratioScore + diversityScore + concentrationScore) / 3
}

// onlineShareScore ladders the online spend share
func onlineShareScore(share float64) float64 {
	switch {
	case share >= 0.30:
		return 1.0
	case share >= 0.20:
		return 0.8
	case share >= 0.15:
		return 0.6
	case share >= 0.10:
		return 0.4
	default:
		return 0.2
	}
}

// spendRegularity is the fraction of window months with any spend
func spendRegularity(agg *analytics.Aggregates) float64 {
	if agg.MonthsObserved == 0 {
		return 0
	}
	months := len(agg.MonthlySpend)
	if months > agg.MonthsObserved {
		months = agg.MonthsObserved
	}
	return float64(months) / float64(agg.MonthsObserved)
}

// topCategoryNames returns up to n spend categories by amount,
// skipping the catch-all bucket.
func topCategoryNames(agg *analytics.Aggregates, n int) []string {
	names := make([]string, 0, n)
	for _, cat := range agg.TopByAmount {
		if cat.Category == analytics.OtherCategory {
			continue
		}
		names = append(names, cat.Category)
		if len(names) == n {
			break
		}
	}
	return names
}
