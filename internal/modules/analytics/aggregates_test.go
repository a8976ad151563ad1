package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushlab/push-analytics/internal/domain"
)

func day(offset int) time.Time {
	base := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, -offset)
}

func tx(offsetDays int, category string, amount int64) domain.Transaction {
	return domain.Transaction{
		CustomerCode: 1,
		Date:         day(offsetDays),
		Category:     category,
		Amount:       decimal.NewFromInt(amount),
		Currency:     domain.CurrencyKZT,
	}
}

func tr(offsetDays int, typ domain.TransferType, dir domain.TransferDirection, amount int64) domain.Transfer {
	return domain.Transfer{
		CustomerCode: 1,
		Date:         day(offsetDays),
		Type:         typ,
		Direction:    dir,
		Amount:       decimal.NewFromInt(amount),
		Currency:     domain.CurrencyKZT,
	}
}

func TestNew_CategoryTotals(t *testing.T) {
	view := domain.CustomerView{
		Transactions: []domain.Transaction{
			tx(1, "Такси", 5000),
			tx(2, "Такси", 7000),
			tx(35, "Отели", 90000),
			tx(3, "Неведомая категория", 1000),
		},
		WindowDays: domain.DefaultWindowDays,
	}

	agg := New(view)

	assert.True(t, agg.TotalSpend.Equal(decimal.NewFromInt(103000)))
	assert.True(t, agg.ByCategorySum["Такси"].Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, 2, agg.ByCategoryCount["Такси"])

	// Unknown category buckets under "Другое" but counts in the total
	assert.True(t, agg.ByCategorySum[OtherCategory].Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, agg.ByCategoryCount[OtherCategory])
}

func TestNew_TopByAmountOrder(t *testing.T) {
	view := domain.CustomerView{
		Transactions: []domain.Transaction{
			tx(1, "Такси", 5000),
			tx(2, "Такси", 5000),
			tx(3, "Такси", 5000),
			tx(4, "Отели", 90000),
			tx(5, "Продукты питания", 20000),
		},
		WindowDays: domain.DefaultWindowDays,
	}

	agg := New(view)

	require.Len(t, agg.TopByAmount, 3)
	assert.Equal(t, "Отели", agg.TopByAmount[0].Category)
	assert.Equal(t, "Продукты питания", agg.TopByAmount[1].Category)
	assert.Equal(t, "Такси", agg.TopByAmount[2].Category)

	require.Len(t, agg.TopByCount, 3)
	assert.Equal(t, "Такси", agg.TopByCount[0].Category)
}

func TestNew_TransferClasses(t *testing.T) {
	view := domain.CustomerView{
		Transfers: []domain.Transfer{
			tr(1, domain.TransferSalaryIn, domain.DirectionIn, 320000),
			tr(2, domain.TransferFXBuy, domain.DirectionOut, 200000),
			tr(3, domain.TransferFXSell, domain.DirectionIn, 150000),
			tr(4, domain.TransferDepositTopupOut, domain.DirectionOut, 50000),
			tr(5, domain.TransferInvestIn, domain.DirectionOut, 30000),
			tr(6, domain.TransferLoanPaymentOut, domain.DirectionOut, 40000),
		},
		WindowDays: domain.DefaultWindowDays,
	}

	agg := New(view)

	assert.Equal(t, 2, agg.FXCount)
	assert.True(t, agg.FXSum.Equal(decimal.NewFromInt(350000)))
	assert.Equal(t, 2, agg.AccumulationCount)
	assert.True(t, agg.AccumulationSum.Equal(decimal.NewFromInt(80000)))
	assert.Equal(t, 1, agg.CreditActivityCount)
	assert.Equal(t, 1, agg.SalaryInCount)
	assert.True(t, agg.SalaryInTotal.Equal(decimal.NewFromInt(320000)))
	assert.True(t, agg.InSum.Equal(decimal.NewFromInt(470000)))
	assert.True(t, agg.OutSum.Equal(decimal.NewFromInt(320000)))
}

func TestRegularity(t *testing.T) {
	tests := []struct {
		name         string
		transactions []domain.Transaction
		categories   []string
		want         float64
	}{
		{
			name: "every month has taxi",
			transactions: []domain.Transaction{
				tx(5, "Такси", 1000),
				tx(40, "Такси", 1000),
				tx(75, "Такси", 1000),
			},
			categories: []string{"Такси"},
			want:       1.0,
		},
		{
			name: "one month out of three",
			transactions: []domain.Transaction{
				tx(5, "Отели", 1000),
			},
			categories: []string{"Отели"},
			want:       1.0 / 3.0,
		},
		{
			name:         "no matching events",
			transactions: []domain.Transaction{tx(5, "АЗС", 1000)},
			categories:   []string{"Кино"},
			want:         0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := New(domain.CustomerView{
				Transactions: tt.transactions,
				WindowDays:   domain.DefaultWindowDays,
			})
			assert.InDelta(t, tt.want, agg.Regularity(tt.categories...), 1e-9)
		})
	}
}

func TestCategoryShare(t *testing.T) {
	view := domain.CustomerView{
		Transactions: []domain.Transaction{
			tx(1, "Такси", 30000),
			tx(2, "Продукты питания", 70000),
		},
		WindowDays: domain.DefaultWindowDays,
	}

	agg := New(view)

	assert.InDelta(t, 0.3, agg.CategoryShare("Такси"), 1e-9)
	assert.InDelta(t, 1.0, agg.CategoryShare("Такси", "Продукты питания"), 1e-9)
}

func TestCategoryShare_ZeroSpend(t *testing.T) {
	agg := New(domain.CustomerView{WindowDays: domain.DefaultWindowDays})
	assert.Zero(t, agg.CategoryShare("Такси"))
}

func TestMonthlySpendStdDev(t *testing.T) {
	flat := New(domain.CustomerView{
		Transactions: []domain.Transaction{
			tx(5, "Такси", 10000),
			tx(40, "Такси", 10000),
			tx(75, "Такси", 10000),
		},
		WindowDays: domain.DefaultWindowDays,
	})
	assert.InDelta(t, 0, flat.MonthlySpendStdDev, 1e-9)

	uneven := New(domain.CustomerView{
		Transactions: []domain.Transaction{
			tx(5, "Такси", 1000),
			tx(40, "Такси", 100000),
		},
		WindowDays: domain.DefaultWindowDays,
	})
	assert.Greater(t, uneven.MonthlySpendStdDev, 0.0)

	single := New(domain.CustomerView{
		Transactions: []domain.Transaction{tx(5, "Такси", 1000)},
		WindowDays:   domain.DefaultWindowDays,
	})
	assert.Zero(t, single.MonthlySpendStdDev)
}

func TestMonthsInWindow(t *testing.T) {
	assert.Equal(t, 3, monthsInWindow(90))
	assert.Equal(t, 1, monthsInWindow(15))
	assert.Equal(t, 3, monthsInWindow(0))
}
