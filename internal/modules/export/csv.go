// Package export streams batch recommendation runs as CSV. One
// customer is in flight at a time, so memory stays flat no matter how
// many rows the batch covers.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pushlab/push-analytics/internal/modules/recommend"
	"github.com/pushlab/push-analytics/internal/domain"
	"github.com/pushlab/push-analytics/internal/store"
)

// MaxBatchCustomers caps the HTTP export path
const MaxBatchCustomers = 50

// Diagnostic products written instead of a recommendation row
const (
	ProductNone  = "Нет подходящих продуктов"
	ProductError = "Ошибка анализа"
)

var header = []string{"client_code", "product", "push_notification"}

// BatchExporter runs the fast pipeline per customer and writes one CSV
// row each.
type BatchExporter struct {
	store store.CustomerStore
	svc   *recommend.Service
	log   zerolog.Logger
}

func NewBatchExporter(st store.CustomerStore, svc *recommend.Service, log zerolog.Logger) *BatchExporter {
	return &BatchExporter{
		store: st,
		svc:   svc,
		log:   log.With().Str("component", "exporter").Logger(),
	}
}

// ExportAll streams up to limit customers from the store. Customers
// that vanish between listing and reading are skipped silently.
func (e *BatchExporter) ExportAll(ctx context.Context, w io.Writer, limit int) error {
	if limit <= 0 || limit > MaxBatchCustomers {
		limit = MaxBatchCustomers
	}

	codes, err := e.store.ListCustomerCodes(ctx, limit)
	if err != nil {
		return err
	}
	return e.export(ctx, w, codes, true)
}

// ExportCodes streams exactly the given codes in order. A missing or
// failing customer still produces a row, so the output row count always
// matches the input.
func (e *BatchExporter) ExportCodes(ctx context.Context, w io.Writer, codes []int) error {
	return e.export(ctx, w, codes, false)
}

// ExportCustomer streams a single-customer CSV with up to three
// recommendation rows. NotFound propagates so the HTTP layer can
// answer 400.
func (e *BatchExporter) ExportCustomer(ctx context.Context, w io.Writer, code int) error {
	recs, err := e.svc.RecommendFast(ctx, code)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return err
	}

	if len(recs) == 0 {
		if err := cw.Write([]string{strconv.Itoa(code), ProductNone, ""}); err != nil {
			return err
		}
	}
	for _, rec := range recommend.Top(recs, 3) {
		if err := cw.Write([]string{strconv.Itoa(code), rec.Product, rec.Push}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *BatchExporter) export(ctx context.Context, w io.Writer, codes []int, skipMissing bool) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return err
		}

		recs, err := e.svc.RecommendFast(ctx, code)
		switch {
		case errors.Is(err, store.ErrNotFound) && skipMissing:
			continue
		case err != nil:
			e.log.Warn().Int("client_code", code).Err(err).Msg("customer failed, writing diagnostic row")
			if werr := cw.Write([]string{strconv.Itoa(code), ProductError, ""}); werr != nil {
				return werr
			}
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
			continue
		}

		if err := cw.Write(e.row(code, recs)); err != nil {
			return err
		}
		// flush per customer to keep the stream moving
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (e *BatchExporter) row(code int, recs []domain.Recommendation) []string {
	if len(recs) == 0 {
		return []string{strconv.Itoa(code), ProductNone, ""}
	}
	top := recs[0]
	return []string{strconv.Itoa(code), top.Product, top.Push}
}
