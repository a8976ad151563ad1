// Package evaluation materializes one customer's view and fans the
// scoring scenarios out concurrently under a deadline. Scenarios that
// do not finish in time are dropped rather than failing the customer.
package evaluation

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pushlab/push-analytics/internal/modules/analytics"
	"github.com/pushlab/push-analytics/internal/modules/scenarios"
	"github.com/pushlab/push-analytics/internal/domain"
	"github.com/pushlab/push-analytics/internal/store"
)

const (
	// fullDeadline bounds a complete ten-scenario pass
	fullDeadline = 30 * time.Second

	// fastDeadline bounds the reduced set used by latency-sensitive callers
	fastDeadline = 15 * time.Second
)

// Outcome pairs a scenario with its computed result
type Outcome struct {
	Scenario scenarios.Scenario
	Result   scenarios.Result
}

// Evaluation is the product of one customer pass: the materialized view
// and every scenario outcome that completed before the deadline.
type Evaluation struct {
	View     domain.CustomerView
	Outcomes []Outcome
}

// Evaluator loads customer data and runs scenario sets against it
type Evaluator struct {
	store store.CustomerStore
	log   zerolog.Logger
}

func New(st store.CustomerStore, log zerolog.Logger) *Evaluator {
	return &Evaluator{
		store: st,
		log:   log.With().Str("component", "evaluator").Logger(),
	}
}

// Evaluate runs the full scenario registry for one customer
func (e *Evaluator) Evaluate(ctx context.Context, code int) (*Evaluation, error) {
	return e.run(ctx, code, scenarios.Registry(), fullDeadline)
}

// EvaluateFast runs the reduced scenario set under a tighter deadline
func (e *Evaluator) EvaluateFast(ctx context.Context, code int) (*Evaluation, error) {
	return e.run(ctx, code, scenarios.FastSet(), fastDeadline)
}

func (e *Evaluator) run(ctx context.Context, code int, set []scenarios.Scenario, deadline time.Duration) (*Evaluation, error) {
	// the budget covers the store reads as well as the scenario fan-out
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	view, err := e.materialize(ctx, code)
	if err != nil {
		// a deadline hit while loading data degrades to an empty
		// result; completed work would have been returned the same way
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			e.log.Warn().Int("client_code", code).Msg("deadline expired while loading customer data")
			return &Evaluation{View: view}, nil
		}
		return nil, err
	}

	agg := analytics.New(view)

	results := make(chan Outcome, len(set))
	for _, s := range set {
		go e.analyzeOne(s, view, agg, results)
	}

	outcomes := make([]Outcome, 0, len(set))
collect:
	for range set {
		select {
		case out := <-results:
			if out.Scenario == nil {
				continue
			}
			outcomes = append(outcomes, out)
		case <-ctx.Done():
			e.log.Warn().
				Int("client_code", code).
				Int("completed", len(outcomes)).
				Int("expected", len(set)).
				Msg("evaluation deadline expired, dropping unfinished scenarios")
			break collect
		}
	}

	return &Evaluation{View: view, Outcomes: outcomes}, nil
}

// analyzeOne runs a single scenario and shields the batch from its
// panics. A panicking scenario reports a zero outcome, which the
// collector discards.
func (e *Evaluator) analyzeOne(s scenarios.Scenario, view domain.CustomerView, agg *analytics.Aggregates, results chan<- Outcome) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().
				Str("product", s.ProductName()).
				Interface("panic", r).
				Msg("scenario panicked")
			results <- Outcome{}
		}
	}()
	results <- Outcome{Scenario: s, Result: s.Analyze(view, agg)}
}

// materialize issues the three reads that compose a customer view
func (e *Evaluator) materialize(ctx context.Context, code int) (domain.CustomerView, error) {
	customer, err := e.store.GetCustomer(ctx, code)
	if err != nil {
		return domain.CustomerView{}, err
	}

	transactions, err := e.store.ListTransactions(ctx, code, domain.DefaultWindowDays)
	if err != nil {
		return domain.CustomerView{}, err
	}

	transfers, err := e.store.ListTransfers(ctx, code, domain.DefaultWindowDays)
	if err != nil {
		return domain.CustomerView{}, err
	}

	return domain.CustomerView{
		Customer:     customer,
		Transactions: transactions,
		Transfers:    transfers,
		WindowDays:   domain.DefaultWindowDays,
	}, nil
}
