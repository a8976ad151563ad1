package evaluation

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/modules/scenarios"
	"github.com/pushlab/push-analytics/internal/domain"
	"github.com/pushlab/push-analytics/internal/store"
)

func seededStore() *store.InlineStore {
	return store.NewInlineStoreFromView(domain.CustomerView{
		Customer: domain.Customer{
			Code:       42,
			Name:       "Данияр",
			Status:     domain.StatusSalary,
			City:       "Астана",
			AvgBalance: decimal.NewFromInt(500_000),
		},
		Transactions: []domain.Transaction{
			{CustomerCode: 42, Date: time.Now().AddDate(0, 0, -5), Category: "Такси", Amount: decimal.NewFromInt(4000), Currency: domain.CurrencyKZT},
			{CustomerCode: 42, Date: time.Now().AddDate(0, 0, -15), Category: "Продукты питания", Amount: decimal.NewFromInt(30000), Currency: domain.CurrencyKZT},
		},
		Transfers: []domain.Transfer{
			{CustomerCode: 42, Date: time.Now().AddDate(0, 0, -10), Type: domain.TransferSalaryIn, Direction: domain.DirectionIn, Amount: decimal.NewFromInt(400_000), Currency: domain.CurrencyKZT},
		},
		WindowDays: domain.DefaultWindowDays,
	})
}

func TestEvaluate_AllScenariosComplete(t *testing.T) {
	ev := New(seededStore(), zerolog.Nop())

	res, err := ev.Evaluate(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 10)

	assert.Equal(t, 42, res.View.Customer.Code)
	assert.Equal(t, domain.DefaultWindowDays, res.View.WindowDays)
	for _, out := range res.Outcomes {
		require.NotNil(t, out.Scenario)
		assert.GreaterOrEqual(t, out.Result.Score, 0.0)
		assert.LessOrEqual(t, out.Result.Score, 1.0)
	}
}

func TestEvaluateFast_ReducedSet(t *testing.T) {
	ev := New(seededStore(), zerolog.Nop())

	res, err := ev.EvaluateFast(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, res.Outcomes, 5)
}

func TestEvaluate_UnknownCustomer(t *testing.T) {
	ev := New(seededStore(), zerolog.Nop())

	_, err := ev.Evaluate(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// slowScenario blocks until released
type slowScenario struct {
	release chan struct{}
}

func (s *slowScenario) ProductName() string { return "slow" }
func (s *slowScenario) TemplateKey() string { return "generic" }
func (s *slowScenario) Analyze(domain.CustomerView, *analytics.Aggregates) scenarios.Result {
	<-s.release
	return scenarios.Result{Score: 0.5}
}

// panicScenario always panics inside Analyze
type panicScenario struct{}

func (s *panicScenario) ProductName() string { return "panic" }
func (s *panicScenario) TemplateKey() string { return "generic" }
func (s *panicScenario) Analyze(domain.CustomerView, *analytics.Aggregates) scenarios.Result {
	panic("scenario blew up")
}

func TestRun_DeadlineDropsUnfinished(t *testing.T) {
	ev := New(seededStore(), zerolog.Nop())

	slow := &slowScenario{release: make(chan struct{})}
	defer close(slow.release)
	set := []scenarios.Scenario{scenarios.NewTravelCard(), slow}

	res, err := ev.run(context.Background(), 42, set, 100*time.Millisecond)
	require.NoError(t, err)

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "Карта для путешествий", res.Outcomes[0].Scenario.ProductName())
}

func TestRun_AllStarved_EmptyNotError(t *testing.T) {
	ev := New(seededStore(), zerolog.Nop())

	slow := &slowScenario{release: make(chan struct{})}
	defer close(slow.release)

	res, err := ev.run(context.Background(), 42, []scenarios.Scenario{slow}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, res.Outcomes)
}

// blockedStore holds every transfer read until the caller's context
// gives up.
type blockedStore struct {
	*store.InlineStore
}

func (s *blockedStore) ListTransfers(ctx context.Context, code, sinceDays int) ([]domain.Transfer, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRun_DeadlineCoversStoreReads(t *testing.T) {
	ev := New(&blockedStore{InlineStore: seededStore()}, zerolog.Nop())

	start := time.Now()
	res, err := ev.run(context.Background(), 42, scenarios.Registry(), 100*time.Millisecond)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Empty(t, res.Outcomes)
}

func TestRun_PanicRecovered(t *testing.T) {
	ev := New(seededStore(), zerolog.Nop())

	set := []scenarios.Scenario{&panicScenario{}, scenarios.NewCashCredit()}

	res, err := ev.run(context.Background(), 42, set, 5*time.Second)
	require.NoError(t, err)

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "Кредит наличными", res.Outcomes[0].Scenario.ProductName())
}
