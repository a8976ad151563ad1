package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushlab/push-analytics/internal/modules/export"
	"github.com/pushlab/push-analytics/internal/modules/recommend"
	"github.com/pushlab/push-analytics/internal/domain"
	"github.com/pushlab/push-analytics/internal/store"
)

func seededStore() *store.InlineStore {
	day := func(offset int) time.Time { return time.Now().AddDate(0, 0, -offset) }

	st := store.NewInlineStore()
	st.Put(domain.CustomerView{
		Customer: domain.Customer{
			Code: 1, Name: "Айгерим", Status: domain.StatusSalary,
			City: "Алматы", AvgBalance: decimal.NewFromInt(240_000),
		},
		Transactions: []domain.Transaction{
			{CustomerCode: 1, Date: day(5), Category: "Такси", Amount: decimal.NewFromInt(15_000), Currency: domain.CurrencyKZT},
			{CustomerCode: 1, Date: day(25), Category: "Отели", Amount: decimal.NewFromInt(90_000), Currency: domain.CurrencyKZT},
			{CustomerCode: 1, Date: day(40), Category: "Продукты питания", Amount: decimal.NewFromInt(30_000), Currency: domain.CurrencyKZT},
		},
		Transfers: []domain.Transfer{
			{CustomerCode: 1, Date: day(10), Type: domain.TransferSalaryIn, Direction: domain.DirectionIn, Amount: decimal.NewFromInt(320_000), Currency: domain.CurrencyKZT},
		},
		WindowDays: domain.DefaultWindowDays,
	})
	return st
}

func newTestServer(st store.CustomerStore) *Server {
	log := zerolog.Nop()
	svc := recommend.NewService(st, log)
	return New(Config{
		Port:      0,
		Log:       log,
		Store:     st,
		Recommend: svc,
		Exporter:  export.NewBatchExporter(st, svc, log),
		DevMode:   true,
	})
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(seededStore())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "push_analytics", body["service"])
}

func TestAnalyze_InlinePayload(t *testing.T) {
	s := newTestServer(store.NewInlineStore())

	payload := `{
		"client_code": 7,
		"name": "Данияр",
		"status": "Salary",
		"avg_monthly_balance_KZT": 300000,
		"transactions": [
			{"client_code": 7, "date": "2025-08-01T00:00:00Z", "category": "Такси", "amount": 12000, "currency": "KZT"}
		],
		"transfers": []
	}`

	rec := doRequest(t, s, http.MethodPost, "/api/v1/analyze", []byte(payload))
	require.Equal(t, http.StatusOK, rec.Code)

	var body analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 7, body.ClientCode)
	assert.NotEmpty(t, body.Product)
	assert.NotEqual(t, recommend.NoProductsMessage, body.Product)
	assert.NotEmpty(t, body.Push)
}

func TestAnalyze_MissingFieldNamed(t *testing.T) {
	s := newTestServer(store.NewInlineStore())

	rec := doRequest(t, s, http.MethodPost, "/api/v1/analyze", []byte(`{"name":"Данияр"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "client_code")

	rec = doRequest(t, s, http.MethodPost, "/api/v1/analyze", []byte(`{"client_code":7}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name")
}

func TestAnalyzeAll_TopFour(t *testing.T) {
	s := newTestServer(store.NewInlineStore())

	payload := `{
		"client_code": 7,
		"name": "Данияр",
		"status": "Premium",
		"avg_monthly_balance_KZT": 8000000,
		"transactions": [
			{"client_code": 7, "date": "2025-08-01T00:00:00Z", "category": "Кафе и рестораны", "amount": 500000, "currency": "KZT"}
		],
		"transfers": []
	}`

	rec := doRequest(t, s, http.MethodPost, "/api/v1/analyze/all", []byte(payload))
	require.Equal(t, http.StatusOK, rec.Code)

	var body analyzeAllResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Recommendations, 4)
}

func TestTestClient_KnownCustomer(t *testing.T) {
	s := newTestServer(seededStore())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/test/client/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body analyzeAllResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.ClientCode)
	assert.Len(t, body.Recommendations, 3)
}

func TestTestClient_UnknownIs400(t *testing.T) {
	s := newTestServer(seededStore())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/test/client/999", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTestClient_BadCodeIs400(t *testing.T) {
	s := newTestServer(seededStore())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/test/client/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTestRandom(t *testing.T) {
	s := newTestServer(seededStore())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/test/random", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body analyzeAllResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.ClientCode)
	assert.NotEmpty(t, body.Recommendations)
}

func TestDBStatus(t *testing.T) {
	s := newTestServer(seededStore())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/test/db-status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body DBStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "connected", body.Status)
	assert.Equal(t, int64(1), body.Clients)
	assert.Equal(t, int64(3), body.Transactions)
	assert.Equal(t, int64(1), body.Transfers)
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(seededStore())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/export/csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"client_code", "product", "push_notification"}, records[0])
	assert.Equal(t, "1", records[1][0])
}

func TestExportCSVClient_Unknown(t *testing.T) {
	s := newTestServer(seededStore())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/export/csv/client/42", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// starvingStore delegates reads to the inline store but never returns
// transfers before the caller's deadline.
type starvingStore struct {
	*store.InlineStore
}

func (s *starvingStore) ListTransfers(ctx context.Context, code, sinceDays int) ([]domain.Transfer, error) {
	select {
	case <-time.After(10 * time.Second):
		return s.InlineStore.ListTransfers(ctx, code, sinceDays)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestTestClient_DeadlineStarvation(t *testing.T) {
	s := newTestServer(&starvingStore{InlineStore: seededStore()})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test/client/1", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body analyzeAllResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Recommendations)
}
