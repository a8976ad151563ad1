package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushlab/push-analytics/internal/domain"
	"github.com/pushlab/push-analytics/internal/store"
)

func travelHeavyStore() *store.InlineStore {
	day := func(offset int) time.Time { return time.Now().AddDate(0, 0, -offset) }

	txs := []domain.Transaction{}
	for i := 0; i < 8; i++ {
		txs = append(txs, domain.Transaction{
			CustomerCode: 1, Date: day(3 + i*9), Category: "Такси",
			Amount: decimal.NewFromInt(7_500), Currency: domain.CurrencyKZT,
		})
	}
	txs = append(txs,
		domain.Transaction{CustomerCode: 1, Date: day(12), Category: "Отели", Amount: decimal.NewFromInt(90_000), Currency: domain.CurrencyKZT},
		domain.Transaction{CustomerCode: 1, Date: day(50), Category: "Отели", Amount: decimal.NewFromInt(90_000), Currency: domain.CurrencyKZT},
	)
	for i := 0; i < 10; i++ {
		txs = append(txs, domain.Transaction{
			CustomerCode: 1, Date: day(4 + i*8), Category: "Продукты питания",
			Amount: decimal.NewFromInt(14_000), Currency: domain.CurrencyKZT,
		})
	}

	return store.NewInlineStoreFromView(domain.CustomerView{
		Customer: domain.Customer{
			Code: 1, Name: "Айгерим", Status: domain.StatusSalary,
			City: "Алматы", AvgBalance: decimal.NewFromInt(240_000),
		},
		Transactions: txs,
		Transfers: []domain.Transfer{
			{CustomerCode: 1, Date: day(10), Type: domain.TransferSalaryIn, Direction: domain.DirectionIn, Amount: decimal.NewFromInt(320_000), Currency: domain.CurrencyKZT},
		},
		WindowDays: domain.DefaultWindowDays,
	})
}

func TestRecommend_TravelHeavyClient(t *testing.T) {
	svc := NewService(travelHeavyStore(), zerolog.Nop())

	recs, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recs, 10)

	top := recs[0]
	assert.Equal(t, "Карта для путешествий", top.Product)
	assert.Contains(t, top.Push, "такси")
	assert.Contains(t, top.Push, "₸")

	n := len([]rune(top.Push))
	assert.GreaterOrEqual(t, n, 50)
	assert.LessOrEqual(t, n, 220)
}

func TestRecommend_Deterministic(t *testing.T) {
	svc := NewService(travelHeavyStore(), zerolog.Nop())

	first, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Product, second[i].Product)
		assert.Equal(t, first[i].Score, second[i].Score)
		assert.Equal(t, first[i].Priority, second[i].Priority)
	}
}

func TestRecommendFast_FiveResults(t *testing.T) {
	svc := NewService(travelHeavyStore(), zerolog.Nop())

	recs, err := svc.RecommendFast(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}

func TestRecommend_UnknownCustomer(t *testing.T) {
	svc := NewService(travelHeavyStore(), zerolog.Nop())

	_, err := svc.Recommend(context.Background(), 404)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTop(t *testing.T) {
	recs := []domain.Recommendation{{Product: "a"}, {Product: "b"}, {Product: "c"}}

	assert.Len(t, Top(recs, 1), 1)
	assert.Len(t, Top(recs, 5), 3)
	assert.Empty(t, Top(recs, 0))
}
