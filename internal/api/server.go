// Package api exposes the calculators, the portfolio valuation, and the
// rate table as a JSON HTTP service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/solomio312/ManuX/internal/calculation"
	"github.com/solomio312/ManuX/internal/domain"
	"github.com/solomio312/ManuX/internal/portfolio"
	"github.com/solomio312/ManuX/internal/rates"
)

// Server holds the handler dependencies. All of them are safe for
// concurrent use, so one Server serves all requests.
type Server struct {
	engine   *calculation.Engine
	rates    *rates.Service
	valuator *portfolio.Valuator
	book     *portfolio.Book
	log      *logrus.Logger
}

// NewServer wires the handlers. The rate service, valuator, and book may be
// nil; their endpoints then answer 503.
func NewServer(engine *calculation.Engine, rateSvc *rates.Service, valuator *portfolio.Valuator, book *portfolio.Book, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{engine: engine, rates: rateSvc, valuator: valuator, book: book, log: log}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogging)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)
	v1.HandleFunc("/montecarlo", s.handleMonteCarlo).Methods(http.MethodPost)
	v1.HandleFunc("/tax", s.handleTax).Methods(http.MethodPost)
	v1.HandleFunc("/realestate", s.handleRealEstate).Methods(http.MethodPost)
	v1.HandleFunc("/rebalance", s.handleRebalance).Methods(http.MethodPost)
	v1.HandleFunc("/rates", s.handleRates).Methods(http.MethodGet)
	v1.HandleFunc("/portfolio", s.handlePortfolio).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

// writeError maps invalid input onto 400 and everything else onto 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidPlan) {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "malformed request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var plan domain.PlanParameters
	if !s.decode(w, r, &plan) {
		return
	}
	res, err := s.engine.Accumulator.Simulate(&plan)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, res)
}

type monteCarloRequest struct {
	Plan                    domain.PlanParameters `json:"plan"`
	AnnualVolatilityPercent decimal.Decimal       `json:"annualVolatilityPercent"`
	Simulations             int                   `json:"simulations"`
}

func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req monteCarloRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.engine.MonteCarlo.Run(&req.Plan, req.AnnualVolatilityPercent, req.Simulations)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, res)
}

type taxRequest struct {
	Plan        domain.PlanParameters `json:"plan"`
	RatePercent decimal.Decimal       `json:"ratePercent"`
	Mode        string                `json:"mode"`
}

type taxResponse struct {
	Simulation *domain.SimulationResult `json:"simulation"`
	Impact     *domain.TaxImpact        `json:"impact"`
}

func (s *Server) handleTax(w http.ResponseWriter, r *http.Request) {
	var req taxRequest
	if !s.decode(w, r, &req) {
		return
	}
	mode := domain.TaxAtDisposal
	if req.Mode != "" {
		var err error
		if mode, err = domain.ParseTaxMode(req.Mode); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
	}
	res, err := s.engine.Accumulator.Simulate(&req.Plan)
	if err != nil {
		s.writeError(w, err)
		return
	}
	impact, err := s.engine.TaxCalc.Apply(res, req.RatePercent, mode)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, taxResponse{Simulation: res, Impact: impact})
}

func (s *Server) handleRealEstate(w http.ResponseWriter, r *http.Request) {
	var in domain.RealEstateInputs
	if !s.decode(w, r, &in) {
		return
	}
	out, err := s.engine.RealEstate.Underwrite(&in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, out)
}

type rebalanceRequest struct {
	Assets  []domain.RebalanceTarget `json:"assets"`
	NewCash decimal.Decimal          `json:"newCash"`
}

func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	var req rebalanceRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, map[string]any{
		"actions": s.engine.Rebalancer.Rebalance(req.Assets, req.NewCash),
	})
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	if s.rates == nil {
		http.Error(w, "rate service not configured", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, s.rates.Table())
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if s.valuator == nil || s.book == nil {
		http.Error(w, "portfolio not configured", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, s.valuator.Revalue(r.Context(), s.book.Positions()))
}
