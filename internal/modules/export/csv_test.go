package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushlab/push-analytics/internal/modules/recommend"
	"github.com/pushlab/push-analytics/internal/domain"
	"github.com/pushlab/push-analytics/internal/store"
)

func seedCustomer(st *store.InlineStore, code int, balance int64) {
	day := func(offset int) time.Time { return time.Now().AddDate(0, 0, -offset) }
	st.Put(domain.CustomerView{
		Customer: domain.Customer{
			Code: code, Name: "Клиент", Status: domain.StatusSalary,
			AvgBalance: decimal.NewFromInt(balance),
		},
		Transactions: []domain.Transaction{
			{CustomerCode: code, Date: day(5), Category: "Такси", Amount: decimal.NewFromInt(8_000), Currency: domain.CurrencyKZT},
			{CustomerCode: code, Date: day(20), Category: "Продукты питания", Amount: decimal.NewFromInt(25_000), Currency: domain.CurrencyKZT},
		},
		WindowDays: domain.DefaultWindowDays,
	})
}

func newExporter(st *store.InlineStore) *BatchExporter {
	svc := recommend.NewService(st, zerolog.Nop())
	return NewBatchExporter(st, svc, zerolog.Nop())
}

func TestExportCodes_MissingCustomerGetsDiagnosticRow(t *testing.T) {
	st := store.NewInlineStore()
	seedCustomer(st, 1, 300_000)
	seedCustomer(st, 3, 900_000)
	exp := newExporter(st)

	var buf bytes.Buffer
	require.NoError(t, exp.ExportCodes(context.Background(), &buf, []int{1, 2, 3}))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"client_code", "product", "push_notification"}, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, []string{"2", ProductError, ""}, records[2])
	assert.Equal(t, "3", records[3][0])

	for _, rec := range records[1:] {
		require.Len(t, rec, 3)
	}
}

// chunkWriter records each Write call so tests can observe flush
// boundaries.
type chunkWriter struct {
	chunks []string
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.chunks = append(w.chunks, string(p))
	return len(p), nil
}

func TestExportCodes_DiagnosticRowFlushedImmediately(t *testing.T) {
	st := store.NewInlineStore()
	seedCustomer(st, 2, 300_000)
	exp := newExporter(st)

	var w chunkWriter
	require.NoError(t, exp.ExportCodes(context.Background(), &w, []int{1, 2}))

	// the diagnostic row reaches the wire before customer 2 is analyzed
	require.Len(t, w.chunks, 2)
	assert.Contains(t, w.chunks[0], ProductError)
	assert.True(t, strings.HasPrefix(w.chunks[1], "2,"))
}

func TestExportAll_SkipsNothingWhenAllPresent(t *testing.T) {
	st := store.NewInlineStore()
	seedCustomer(st, 10, 200_000)
	seedCustomer(st, 11, 400_000)
	exp := newExporter(st)

	var buf bytes.Buffer
	require.NoError(t, exp.ExportAll(context.Background(), &buf, 0))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestExport_CRLFLineEndings(t *testing.T) {
	st := store.NewInlineStore()
	seedCustomer(st, 1, 300_000)
	exp := newExporter(st)

	var buf bytes.Buffer
	require.NoError(t, exp.ExportCustomer(context.Background(), &buf, 1))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\r\n"))
	assert.NotContains(t, out, "\uFEFF")
}

func TestExportCustomer_NotFound(t *testing.T) {
	exp := newExporter(store.NewInlineStore())

	var buf bytes.Buffer
	err := exp.ExportCustomer(context.Background(), &buf, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestExport_RoundTripPreservesPushText(t *testing.T) {
	st := store.NewInlineStore()
	seedCustomer(st, 7, 500_000)
	exp := newExporter(st)

	var buf bytes.Buffer
	require.NoError(t, exp.ExportCustomer(context.Background(), &buf, 7))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus the top three rows")

	push := records[1][2]
	n := len([]rune(push))
	assert.GreaterOrEqual(t, n, 50)
	assert.LessOrEqual(t, n, 220)
}
