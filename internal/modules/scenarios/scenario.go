// Package scenarios holds the product scoring strategies. Each scenario
// is a pure function over one customer's view and aggregates, returning
// a score in [0,1], an expected yearly benefit in KZT, ordered Russian
// reasons, and the facts the notification renderer interpolates.
package scenarios

import (
	"github.com/shopspring/decimal"

	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/domain"
)

// Result is one scenario's verdict for one customer
type Result struct {
	Score   float64
	Benefit decimal.Decimal
	Reasons []string
	Facts   map[string]any
}

// Scenario scores one product against a customer. Analyze must be
// deterministic, total, and O(T+U) over the input cardinalities.
type Scenario interface {
	ProductName() string
	TemplateKey() string
	Analyze(view domain.CustomerView, agg *analytics.Aggregates) Result
}

// Fact keys consumed by the renderer. Values are decimal.Decimal for
// money, int for counts, string otherwise.
const (
	FactBalance        = "balance"
	FactTripCount      = "trip_count"
	FactTravelSum      = "travel_sum"
	FactCashback       = "cashback"
	FactMonthlySpend   = "monthly_spend"
	FactOnlineSum      = "online_sum"
	FactOnlineCashback = "online_cashback"
	FactTopCategories  = "top_categories"
	FactPercent        = "percent"
	FactFXSum          = "fx_sum"
	FactFXCount        = "fx_count"
	FactFXCurrency     = "fx_curr"
	FactSavings        = "savings"
	FactMonths         = "months"
	FactMinBalance     = "min_balance"
	FactCreditLimit    = "limit"
	FactCreditTerms    = "terms"
)

// Registry returns the closed scenario set in stable product order.
// The ranker's final tie-break follows this order.
func Registry() []Scenario {
	return []Scenario{
		NewTravelCard(),
		NewPremiumCard(),
		NewCreditCard(),
		NewCurrencyExchange(),
		NewSavingsDeposit(),
		NewAccumulationDeposit(),
		NewMultiCurrencyDeposit(),
		NewInvestments(),
		NewGoldBars(),
		NewCashCredit(),
	}
}

// FastSet returns the restricted set used on the batch export path
func FastSet() []Scenario {
	return []Scenario{
		NewTravelCard(),
		NewCreditCard(),
		NewInvestments(),
		NewPremiumCard(),
		NewCashCredit(),
	}
}

// ProductOrder maps product names onto their registry position
func ProductOrder() map[string]int {
	order := make(map[string]int)
	for i, s := range Registry() {
		order[s.ProductName()] = i
	}
	return order
}

// noData is the total-function fallback when the view is empty
func noData() Result {
	return Result{
		Score:   0,
		Benefit: decimal.Zero,
		Reasons: []string{"нет данных"},
		Facts:   map[string]any{},
	}
}

func emptyView(view domain.CustomerView) bool {
	return len(view.Transactions) == 0 &&
		len(view.Transfers) == 0 &&
		view.Customer.AvgBalance.IsZero()
}
