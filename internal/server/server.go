// Package server exposes scans, the sport catalogue, the originator
// probability helpers and Prometheus metrics over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/XavierBriggs/Titanium/internal/ledger"
	"github.com/XavierBriggs/Titanium/internal/registry"
	"github.com/XavierBriggs/Titanium/internal/scanner"
	"github.com/XavierBriggs/Titanium/pkg/oddsmath"
)

const (
	// BreakEven is the win rate needed to profit at -110
	BreakEven = 0.524

	// NuclearEdge is the edge above which an originator line is flagged
	NuclearEdge = 0.05

	defaultTimeout = 30 * time.Second
)

// Server holds the HTTP handlers
type Server struct {
	scanner  *scanner.Scanner
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	origins  []string
	timeout  time.Duration
}

// Option configures a Server
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCORSOrigins sets the allowed origins; all origins are allowed when unset
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a server. gatherer backs /metrics and may be nil.
func New(sc *scanner.Scanner, gatherer prometheus.Gatherer, opts ...Option) *Server {
	s := &Server{
		scanner:  sc,
		gatherer: gatherer,
		logger:   slog.Default(),
		origins:  []string{"*"},
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")
	return s
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sports", s.sports)
		r.Get("/scan/{sport}", s.scan)

		r.Route("/originator", func(r chi.Router) {
			r.Get("/trinity", s.trinity)
			r.Get("/poisson", s.poisson)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "titanium",
	})
}

type sportInfo struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Featured []string `json:"featured_markets"`
	Props    []string `json:"props_markets"`
}

func (s *Server) sports(w http.ResponseWriter, r *http.Request) {
	evaluators := s.scanner.Registry().GetAll()
	out := make([]sportInfo, 0, len(evaluators))
	for _, e := range evaluators {
		out = append(out, sportInfo{
			Key:      e.GetSportKey(),
			Name:     e.GetDisplayName(),
			Featured: e.GetFeaturedMarkets(),
			Props:    e.GetPropsMarkets(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sports": out,
		"count":  len(out),
	})
}

// scan runs one scan. Query params: cap, format (json|csv)
func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	sport := chi.URLParam(r, "sport")

	limit, err := intParam(r, "cap", 0)
	if err != nil || limit < 0 {
		respondError(w, s.logger, http.StatusBadRequest, "cap must be a non-negative integer", nil)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		respondError(w, s.logger, http.StatusBadRequest, "format must be json or csv", nil)
		return
	}

	result, err := s.scanner.Scan(r.Context(), sport, limit)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownSport) {
			respondError(w, s.logger, http.StatusNotFound, "unknown sport: "+sport, nil)
			return
		}
		respondError(w, s.logger, http.StatusBadGateway, "scan failed", err)
		return
	}

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+sport+`.csv"`)
		w.WriteHeader(http.StatusOK)
		if err := ledger.WriteCSV(w, result.Ledger); err != nil {
			s.logger.Error("csv_write_failed", "scan_id", result.ScanID, "error", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// trinity returns the scenario-weighted probability of clearing a line.
// Query params: mean, sd, line
func (s *Server) trinity(w http.ResponseWriter, r *http.Request) {
	mean, err1 := floatParam(r, "mean")
	sd, err2 := floatParam(r, "sd")
	line, err3 := floatParam(r, "line")
	if err := errors.Join(err1, err2, err3); err != nil {
		respondError(w, s.logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	prob, err := oddsmath.TrinityProbability(mean, sd, line)
	if err != nil {
		respondError(w, s.logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	edge := prob - BreakEven
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"mean":        mean,
		"sd":          sd,
		"line":        line,
		"probability": prob,
		"edge":        edge,
		"nuclear":     edge > NuclearEdge,
	})
}

// poisson returns 1X2 probabilities. Query params: home_xg, away_xg
func (s *Server) poisson(w http.ResponseWriter, r *http.Request) {
	homeXG, err1 := floatParam(r, "home_xg")
	awayXG, err2 := floatParam(r, "away_xg")
	if err := errors.Join(err1, err2); err != nil {
		respondError(w, s.logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	home, draw, away, err := oddsmath.PoissonMatrix(homeXG, awayXG)
	if err != nil {
		respondError(w, s.logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"home_xg": homeXG,
		"away_xg": awayXG,
		"home":    home,
		"draw":    draw,
		"away":    away,
	})
}

// requestLogger logs one line per request
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("http_request",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string, err error) {
	if err != nil {
		logger.Error("request_failed", "message", message, "error", err)
	}
	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func floatParam(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, errors.New(name + " is required")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(name + " must be a number")
	}
	return f, nil
}
