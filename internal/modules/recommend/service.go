// Package recommend glues the pipeline together: materialized view →
// scenario evaluation → ranking → rendered push text. Both the HTTP
// handlers and the batch exporter run customers through this service.
package recommend

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pushlab/push-analytics/internal/modules/evaluation"
	"github.com/pushlab/push-analytics/internal/modules/notify"
	"github.com/pushlab/push-analytics/internal/modules/ranking"
	"github.com/pushlab/push-analytics/internal/domain"
	"github.com/pushlab/push-analytics/internal/store"
)

// NoProductsMessage is the push text used when the pipeline produces
// nothing for a customer.
const NoProductsMessage = "Нет подходящих продуктов"

// Service runs the recommendation pipeline for one customer at a time
type Service struct {
	evaluator *evaluation.Evaluator
	renderer  *notify.Renderer
	log       zerolog.Logger
}

func NewService(st store.CustomerStore, log zerolog.Logger) *Service {
	return &Service{
		evaluator: evaluation.New(st, log),
		renderer:  notify.NewRenderer(log),
		log:       log.With().Str("component", "recommend").Logger(),
	}
}

// Recommend runs the full scenario set and returns every ranked
// recommendation, best first. Callers slice to their top-N.
func (s *Service) Recommend(ctx context.Context, code int) ([]domain.Recommendation, error) {
	ev, err := s.evaluator.Evaluate(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.assemble(ev), nil
}

// RecommendFast runs the reduced scenario set under the tighter deadline
func (s *Service) RecommendFast(ctx context.Context, code int) ([]domain.Recommendation, error) {
	ev, err := s.evaluator.EvaluateFast(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.assemble(ev), nil
}

func (s *Service) assemble(ev *evaluation.Evaluation) []domain.Recommendation {
	ranked := ranking.Rank(ev.Outcomes)

	recs := make([]domain.Recommendation, 0, len(ranked))
	for _, r := range ranked {
		push := s.renderer.Render(
			ev.View.Customer.Name,
			r.Outcome.Scenario.TemplateKey(),
			r.Outcome.Result,
		)
		recs = append(recs, domain.Recommendation{
			Product:         r.Outcome.Scenario.ProductName(),
			Push:            push,
			Score:           r.Outcome.Result.Score,
			ExpectedBenefit: r.Outcome.Result.Benefit,
			Priority:        r.Priority,
		})
	}
	return recs
}

// Top truncates a recommendation list to at most n entries
func Top(recs []domain.Recommendation, n int) []domain.Recommendation {
	if n < 0 {
		n = 0
	}
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
