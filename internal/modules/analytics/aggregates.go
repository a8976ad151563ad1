// Package analytics derives per-customer aggregates consumed by the
// product scenarios. Construction is a single pass over the transaction
// list and a single pass over the transfer list; scenarios never touch
// the raw lists again.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/pushlab/push-analytics/internal/domain"
)

// OtherCategory is the bucket for categories outside the controlled list
const OtherCategory = "Другое"

// knownCategories is the controlled transaction vocabulary. Anything
// else buckets under OtherCategory but still counts in grand totals.
var knownCategories = map[string]struct{}{
	"Такси":                  {},
	"Отели":                  {},
	"Путешествия":            {},
	"Кафе и рестораны":       {},
	"Продукты питания":       {},
	"Одежда и обувь":         {},
	"Развлечения":            {},
	"Кино":                   {},
	"Играем дома":            {},
	"Смотрим дома":           {},
	"Косметика и Парфюмерия": {},
	"Спорт":                  {},
	"Медицина":               {},
	"Авто":                   {},
	"АЗС":                    {},
	"Подарки":                {},
	"Ювелирные украшения":    {},
}

// fxTypes are FX-class transfers regardless of direction
var fxTypes = map[domain.TransferType]struct{}{
	domain.TransferFXBuy:             {},
	domain.TransferFXSell:            {},
	domain.TransferDepositFXTopupOut: {},
	domain.TransferDepositFXWithdraw: {},
}

// accumulationTypes signal intent to set money aside
var accumulationTypes = map[domain.TransferType]struct{}{
	domain.TransferDepositTopupOut:   {},
	domain.TransferDepositFXTopupOut: {},
	domain.TransferInvestIn:          {},
}

// creditActivityTypes signal existing credit obligations
var creditActivityTypes = map[domain.TransferType]struct{}{
	domain.TransferLoanPaymentOut: {},
	domain.TransferCCRepaymentOut: {},
	domain.TransferInstallmentOut: {},
}

// CategoryTotal is one entry of a top-categories list
type CategoryTotal struct {
	Category string
	Sum      decimal.Decimal
	Count    int
}

// Aggregates holds the precomputed, immutable derivatives of one
// CustomerView. All monetary sums are decimal; float64 appears only in
// the dispersion statistic.
type Aggregates struct {
	TotalSpend      decimal.Decimal
	ByCategorySum   map[string]decimal.Decimal
	ByCategoryCount map[string]int
	TopByAmount     []CategoryTotal
	TopByCount      []CategoryTotal

	MonthlySpend   map[string]decimal.Decimal // keyed yyyy-mm
	MonthlyDeposit map[string]decimal.Decimal
	MonthsObserved int

	ByTransferTypeSum   map[domain.TransferType]decimal.Decimal
	ByTransferTypeCount map[domain.TransferType]int
	InSum               decimal.Decimal
	OutSum              decimal.Decimal

	FXCount             int
	FXSum               decimal.Decimal
	FXMonths            int // distinct months holding at least one FX transfer
	AccumulationCount   int
	AccumulationSum     decimal.Decimal
	CreditActivityCount int
	SalaryInTotal       decimal.Decimal
	SalaryInCount       int

	// Operations carried in a currency other than KZT, across both lists
	NonKZTTransactions int
	NonKZTTransfers    int

	// MonthlySpendStdDev measures how uneven the customer's monthly
	// spend is, in KZT.
	MonthlySpendStdDev float64

	monthsWithCategory map[string]map[string]struct{}
}

// New builds the aggregates from one customer view. O(T+U) over the
// transaction and transfer counts.
func New(view domain.CustomerView) *Aggregates {
	agg := &Aggregates{
		ByCategorySum:       make(map[string]decimal.Decimal),
		ByCategoryCount:     make(map[string]int),
		MonthlySpend:        make(map[string]decimal.Decimal),
		MonthlyDeposit:      make(map[string]decimal.Decimal),
		ByTransferTypeSum:   make(map[domain.TransferType]decimal.Decimal),
		ByTransferTypeCount: make(map[domain.TransferType]int),
		monthsWithCategory:  make(map[string]map[string]struct{}),
	}

	fxMonths := make(map[string]struct{})

	for _, tx := range view.Transactions {
		if tx.Currency != "" && tx.Currency != domain.CurrencyKZT {
			agg.NonKZTTransactions++
		}
		cat := tx.Category
		if _, known := knownCategories[cat]; !known {
			cat = OtherCategory
		}
		month := tx.Date.Format("2006-01")

		agg.TotalSpend = agg.TotalSpend.Add(tx.Amount)
		agg.ByCategorySum[cat] = agg.ByCategorySum[cat].Add(tx.Amount)
		agg.ByCategoryCount[cat]++
		agg.MonthlySpend[month] = agg.MonthlySpend[month].Add(tx.Amount)

		months, ok := agg.monthsWithCategory[cat]
		if !ok {
			months = make(map[string]struct{})
			agg.monthsWithCategory[cat] = months
		}
		months[month] = struct{}{}
	}

	for _, tr := range view.Transfers {
		agg.ByTransferTypeSum[tr.Type] = agg.ByTransferTypeSum[tr.Type].Add(tr.Amount)
		agg.ByTransferTypeCount[tr.Type]++

		switch tr.Direction {
		case domain.DirectionIn:
			agg.InSum = agg.InSum.Add(tr.Amount)
		case domain.DirectionOut:
			agg.OutSum = agg.OutSum.Add(tr.Amount)
		}

		if tr.Currency != "" && tr.Currency != domain.CurrencyKZT {
			agg.NonKZTTransfers++
		}
		if _, ok := fxTypes[tr.Type]; ok {
			agg.FXCount++
			agg.FXSum = agg.FXSum.Add(tr.Amount)
			fxMonths[tr.Date.Format("2006-01")] = struct{}{}
		}
		if _, ok := accumulationTypes[tr.Type]; ok {
			agg.AccumulationCount++
			agg.AccumulationSum = agg.AccumulationSum.Add(tr.Amount)
			month := tr.Date.Format("2006-01")
			agg.MonthlyDeposit[month] = agg.MonthlyDeposit[month].Add(tr.Amount)
		}
		if _, ok := creditActivityTypes[tr.Type]; ok {
			agg.CreditActivityCount++
		}
		if tr.Type == domain.TransferSalaryIn {
			agg.SalaryInCount++
			agg.SalaryInTotal = agg.SalaryInTotal.Add(tr.Amount)
		}
	}

	agg.FXMonths = len(fxMonths)
	agg.MonthsObserved = monthsInWindow(view.WindowDays)
	agg.TopByAmount = topCategories(agg, byAmount)
	agg.TopByCount = topCategories(agg, byCount)
	agg.MonthlySpendStdDev = monthlyStdDev(agg.MonthlySpend)

	return agg
}

// CategorySum sums spend over the given categories
func (a *Aggregates) CategorySum(categories ...string) decimal.Decimal {
	var sum decimal.Decimal
	for _, cat := range categories {
		sum = sum.Add(a.ByCategorySum[cat])
	}
	return sum
}

// CategoryCount counts transactions over the given categories
func (a *Aggregates) CategoryCount(categories ...string) int {
	n := 0
	for _, cat := range categories {
		n += a.ByCategoryCount[cat]
	}
	return n
}

// CategoryShare returns categorySum / totalSpend as a float in [0,1].
// Zero total spend yields zero share.
func (a *Aggregates) CategoryShare(categories ...string) float64 {
	if a.TotalSpend.IsZero() {
		return 0
	}
	share, _ := a.CategorySum(categories...).Div(a.TotalSpend).Float64()
	return share
}

// MonthsWithAny counts the distinct months holding at least one
// transaction in any of the given categories.
func (a *Aggregates) MonthsWithAny(categories ...string) int {
	seen := make(map[string]struct{})
	for _, cat := range categories {
		for month := range a.monthsWithCategory[cat] {
			seen[month] = struct{}{}
		}
	}
	return len(seen)
}

// Regularity is the fraction of window months containing at least one
// matching transaction.
func (a *Aggregates) Regularity(categories ...string) float64 {
	if a.MonthsObserved == 0 {
		return 0
	}
	return float64(a.MonthsWithAny(categories...)) / float64(a.MonthsObserved)
}

// AvgMonthlySpend is totalSpend spread over the observed months
func (a *Aggregates) AvgMonthlySpend() decimal.Decimal {
	if a.MonthsObserved == 0 {
		return decimal.Zero
	}
	return a.TotalSpend.Div(decimal.NewFromInt(int64(a.MonthsObserved)))
}

// TransferCount sums counts over the given transfer types
func (a *Aggregates) TransferCount(types ...domain.TransferType) int {
	n := 0
	for _, t := range types {
		n += a.ByTransferTypeCount[t]
	}
	return n
}

// TransferSum sums amounts over the given transfer types
func (a *Aggregates) TransferSum(types ...domain.TransferType) decimal.Decimal {
	var sum decimal.Decimal
	for _, t := range types {
		sum = sum.Add(a.ByTransferTypeSum[t])
	}
	return sum
}

// monthsInWindow converts a day window into whole months, minimum one.
// The default 90-day window observes three months.
func monthsInWindow(windowDays int) int {
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}
	months := windowDays / 30
	if months < 1 {
		months = 1
	}
	return months
}

type topOrder int

const (
	byAmount topOrder = iota
	byCount
)

func topCategories(a *Aggregates, order topOrder) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(a.ByCategorySum))
	for cat, sum := range a.ByCategorySum {
		out = append(out, CategoryTotal{
			Category: cat,
			Sum:      sum,
			Count:    a.ByCategoryCount[cat],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		switch order {
		case byCount:
			if out[i].Count != out[j].Count {
				return out[i].Count > out[j].Count
			}
		default:
			if cmp := out[i].Sum.Cmp(out[j].Sum); cmp != 0 {
				return cmp > 0
			}
		}
		// Stable order for equal keys
		return out[i].Category < out[j].Category
	})
	return out
}

// monthlyStdDev computes the sample dispersion of monthly spend.
// Fewer than two months means no dispersion signal.
func monthlyStdDev(monthly map[string]decimal.Decimal) float64 {
	if len(monthly) < 2 {
		return 0
	}
	values := make([]float64, 0, len(monthly))
	for _, sum := range monthly {
		v, _ := sum.Float64()
		values = append(values, v)
	}
	return stat.StdDev(values, nil)
}
