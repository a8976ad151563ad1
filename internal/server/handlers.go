package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pushlab/push-analytics/internal/modules/recommend"
	"github.com/pushlab/push-analytics/internal/domain"
	"github.com/pushlab/push-analytics/internal/store"
)

// handleHealth is the liveness probe
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "push_analytics",
	})
}

// analyzeRequest is one inline customer view posted to the analyze
// endpoints.
type analyzeRequest struct {
	ClientCode   int                  `json:"client_code"`
	Name         string               `json:"name"`
	Status       string               `json:"status"`
	City         string               `json:"city"`
	AvgBalance   decimal.Decimal      `json:"avg_monthly_balance_KZT"`
	Transactions []domain.Transaction `json:"transactions"`
	Transfers    []domain.Transfer    `json:"transfers"`
}

// validate reports the first missing required field
func (req *analyzeRequest) validate() string {
	if req.ClientCode == 0 {
		return "client_code"
	}
	if req.Name == "" {
		return "name"
	}
	return ""
}

func (req *analyzeRequest) view() domain.CustomerView {
	return domain.CustomerView{
		Customer: domain.Customer{
			Code:       req.ClientCode,
			Name:       req.Name,
			Status:     domain.ParseStatus(req.Status),
			City:       req.City,
			AvgBalance: req.AvgBalance,
		},
		Transactions: req.Transactions,
		Transfers:    req.Transfers,
		WindowDays:   domain.DefaultWindowDays,
	}
}

type analyzeResponse struct {
	ClientCode int    `json:"client_code"`
	Product    string `json:"product"`
	Push       string `json:"push_notification"`
}

type analyzeAllResponse struct {
	ClientCode      int                     `json:"client_code"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// handleAnalyze runs the full pipeline on an inline payload and
// answers with the single best product.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	recs, err := s.analyzeInline(r, req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := analyzeResponse{ClientCode: req.ClientCode}
	if len(recs) == 0 {
		resp.Product = recommend.NoProductsMessage
	} else {
		resp.Product = recs[0].Product
		resp.Push = recs[0].Push
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleAnalyzeAll answers with up to four ranked recommendations
func (s *Server) handleAnalyzeAll(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	recs, err := s.analyzeInline(r, req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, analyzeAllResponse{
		ClientCode:      req.ClientCode,
		Recommendations: recommend.Top(recs, 4),
	})
}

func (s *Server) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (*analyzeRequest, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if field := req.validate(); field != "" {
		s.writeError(w, http.StatusBadRequest, "missing required field: "+field)
		return nil, false
	}
	return &req, true
}

// analyzeInline runs the pipeline against a one-customer in-memory
// store built from the request payload.
func (s *Server) analyzeInline(r *http.Request, req *analyzeRequest) ([]domain.Recommendation, error) {
	inline := store.NewInlineStoreFromView(req.view())
	svc := recommend.NewService(inline, s.log)
	return svc.Recommend(r.Context(), req.ClientCode)
}

// handleTestRandom picks a stored customer and runs the full pipeline
func (s *Server) handleTestRandom(w http.ResponseWriter, r *http.Request) {
	code, err := s.store.RandomCustomerCode(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrEmpty) {
			s.writeError(w, http.StatusInternalServerError, "no customers in store")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	recs, err := s.recommend.Recommend(r.Context(), code)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, analyzeAllResponse{
		ClientCode:      code,
		Recommendations: recommend.Top(recs, 3),
	})
}

// handleTestClient runs the full pipeline for one stored customer
func (s *Server) handleTestClient(w http.ResponseWriter, r *http.Request) {
	code, ok := s.pathCode(w, r)
	if !ok {
		return
	}

	recs, err := s.recommend.Recommend(r.Context(), code)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, analyzeAllResponse{
		ClientCode:      code,
		Recommendations: recommend.Top(recs, 3),
	})
}

// handleExportCSV streams the batch export for up to 50 customers
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="push_notifications.csv"`)

	if err := s.exporter.ExportAll(r.Context(), w, 0); err != nil {
		// headers are out by now; log and cut the stream
		s.log.Error().Err(err).Msg("batch export failed mid-stream")
	}
}

// handleExportCSVClient streams one customer's top recommendations
func (s *Server) handleExportCSVClient(w http.ResponseWriter, r *http.Request) {
	code, ok := s.pathCode(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := s.exporter.ExportCustomer(r.Context(), w, code); err != nil {
		w.Header().Del("Content-Type")
		s.writeStoreError(w, err)
	}
}

func (s *Server) pathCode(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "code")
	code, err := strconv.Atoi(raw)
	if err != nil || code <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid client code: "+raw)
		return 0, false
	}
	return code, true
}

// writeStoreError maps store failures onto HTTP statuses: unknown
// customers are a caller mistake, everything else is on us.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusBadRequest, "client not found")
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
