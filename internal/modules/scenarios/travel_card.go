package scenarios

import (
	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

// travelCategories is the exact controlled vocabulary matched by the
// travel card. No substring search, no case folding.
var travelCategories = []string{"Такси", "Отели", "Путешествия"}

// TravelCard scores the travel card product: 4% cashback on taxi,
// hotels and travel.
// Components: status 20%, balance 25%, travel share 40%, regularity 15%.
type TravelCard struct{}

func NewTravelCard() *TravelCard { return &TravelCard{} }

func (s *TravelCard) ProductName() string { return "Карта для путешествий" }
func (s *TravelCard) TemplateKey() string { return "travel_card" }

func (s *TravelCard) Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result {
	if emptyView(view) {
		return noData()
	}

	const floor = 100_000
	balance := view.Customer.AvgBalance
	travelSum := agg.CategorySum(travelCategories...)
	travelCount := agg.CategoryCount(travelCategories...)

	var reasons []string

	statusScore := statusLadder(view.Customer.Status)
	if statusScore > 0.7 {
		reasons = append(reasons, "Подходящий статус клиента для карты путешествий")
	}

	balanceScore := balanceLadder(balance, floor)
	if balanceScore > 0.5 {
		reasons = append(reasons, "Достаточный баланс для карты")
	}

	travelScore := 0.0
	if travelCount > 0 {
		travelScore = shareLadder(agg.CategoryShare(travelCategories...))
	}
	if travelScore > 0.3 {
		reasons = append(reasons, "Активные траты на путешествия и транспорт")
	}

	regularityScore := 0.0
	if travelCount > 0 {
		regularityScore = agg.Regularity(travelCategories...)
	}
	if regularityScore > 0.5 {
		reasons = append(reasons, "Регулярные поездки")
	}

	score := clamp01(statusScore*0.20 + balanceScore*0.25 + travelScore*0.40 + regularityScore*0.15)

	if travelScore < 0.1 {
		score *= 0.3
		reasons = append(reasons, "Низкая активность в путешествиях")
	}
	if travelSum.GreaterThan(decimalFromInt(100_000)) {
		score = boost(score, 1.2)
		reasons = append(reasons, "Высокие траты на путешествия")
	}
	score = round3(score)

	cashback := mulRate(travelSum, 0.04)
	base := cashback.Add(mulRate(balance, 0.02))

	return Result{
		Score:   score,
		Benefit: scaleBenefit(base, score),
		Reasons: reasons,
		Facts: map[string]any{
			FactBalance:   balance,
			FactTripCount: travelCount,
			FactTravelSum: travelSum,
			FactCashback:  cashback,
		},
	}
}
