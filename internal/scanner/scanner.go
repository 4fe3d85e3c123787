// Package scanner runs one scan: fetch payloads, normalize, evaluate every
// event with the sport's evaluator, select and assemble the ledger.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/XavierBriggs/Titanium/internal/ledger"
	"github.com/XavierBriggs/Titanium/internal/normalizer"
	"github.com/XavierBriggs/Titanium/internal/profiles"
	"github.com/XavierBriggs/Titanium/internal/registry"
	"github.com/XavierBriggs/Titanium/internal/selector"
	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

const (
	DefaultCap         = 8
	DefaultConcurrency = 4
)

var errPanic = errors.New("evaluator panic")

// Recorder receives scan metrics. instrumentation.Metrics implements it.
type Recorder interface {
	RecordScan(sport, status string, latencyMs float64)
	RecordCandidate(sport, category string)
	RecordSelected(sport, category string)
	RecordEventSkipped(sport, reason string)
	RecordDropped(sport, kind string, n int)
	RecordRequestsRemaining(n int)
}

// Result is the outcome of one scan
type Result struct {
	ScanID        string                `json:"scan_id"`
	Sport         string                `json:"sport"`
	Events        int                   `json:"events"`
	Emitted       int                   `json:"emitted"`
	SkippedEvents int                   `json:"skipped_events"`
	ProfileSource string                `json:"profile_source,omitempty"`
	Candidates    []models.CandidateBet `json:"candidates"`
	Ledger        []models.LedgerRow    `json:"ledger"`
}

// Scanner wires the vendor adapter to the evaluation core
type Scanner struct {
	adapter     contracts.VendorAdapter
	registry    *registry.SportRegistry
	rules       models.RuleConfig
	profiles    map[string]profiles.Source
	assembler   *ledger.Assembler
	regions     []string
	concurrency int
	defaultCap  int
	logger      *slog.Logger
	metrics     Recorder
}

// Option configures a Scanner
type Option func(*Scanner)

// WithProfiles attaches a profile source for one sport
func WithProfiles(sport string, src profiles.Source) Option {
	return func(s *Scanner) {
		s.profiles[sport] = src
	}
}

func WithRegions(regions []string) Option {
	return func(s *Scanner) {
		if len(regions) > 0 {
			s.regions = regions
		}
	}
}

func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithDefaultCap(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.defaultCap = n
		}
	}
}

func WithAssembler(a *ledger.Assembler) Option {
	return func(s *Scanner) {
		s.assembler = a
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

func WithMetrics(m Recorder) Option {
	return func(s *Scanner) {
		s.metrics = m
	}
}

// New creates a scanner. rules are copied and read-only for every scan.
func New(adapter contracts.VendorAdapter, reg *registry.SportRegistry, rules models.RuleConfig, opts ...Option) *Scanner {
	s := &Scanner{
		adapter:     adapter,
		registry:    reg,
		rules:       rules,
		profiles:    make(map[string]profiles.Source),
		assembler:   ledger.NewAssembler(),
		regions:     []string{"us"},
		concurrency: DefaultConcurrency,
		defaultCap:  DefaultCap,
		logger:      slog.Default(),
		metrics:     nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "scanner")
	return s
}

// Rules returns the rule set scans run with
func (s *Scanner) Rules() models.RuleConfig {
	return s.rules
}

// DefaultCap returns the cap used when a caller passes limit <= 0
func (s *Scanner) DefaultCap() int {
	return s.defaultCap
}

// Registry returns the evaluator registry
func (s *Scanner) Registry() *registry.SportRegistry {
	return s.registry
}

// Scan fetches and evaluates one sport. It only fails when the sport is
// unknown or the main odds fetch fails; everything past the fetch degrades
// to fewer candidates.
func (s *Scanner) Scan(ctx context.Context, sport string, limit int) (*Result, error) {
	start := time.Now()

	evaluator, err := s.registry.Lookup(sport)
	if err != nil {
		return nil, err
	}

	scanID := uuid.NewString()
	logger := s.logger.With("scan_id", scanID, "sport", sport)

	payloads, err := s.fetch(ctx, logger, sport, evaluator)
	if err != nil {
		s.metrics.RecordScan(sport, "fetch_error", msSince(start))
		return nil, err
	}

	var lookup contracts.ProfileLookup
	profileSource := ""
	if src, ok := s.profiles[evaluator.GetSportKey()]; ok && src != nil {
		snap := src.Get(ctx)
		lookup = snap
		profileSource = snap.Source()
	}

	result := s.run(logger, sport, evaluator, payloads, lookup, limit)
	result.ScanID = scanID
	result.ProfileSource = profileSource

	s.metrics.RecordScan(sport, "ok", msSince(start))
	logger.Info("scan_complete",
		"events", result.Events,
		"emitted", result.Emitted,
		"selected", len(result.Candidates),
		"skipped_events", result.SkippedEvents,
		"profile_source", profileSource,
		"duration", time.Since(start),
	)

	return result, nil
}

// Run is the pure core: payloads in, ledger out. Past the registry lookup
// it cannot fail; malformed data and failing events only shrink the result.
func (s *Scanner) Run(sport string, payloads [][]byte, lookup contracts.ProfileLookup, limit int) (*Result, error) {
	evaluator, err := s.registry.Lookup(sport)
	if err != nil {
		return nil, err
	}
	return s.run(s.logger.With("sport", sport), sport, evaluator, payloads, lookup, limit), nil
}

func (s *Scanner) run(logger *slog.Logger, sport string, evaluator contracts.SportEvaluator, payloads [][]byte, lookup contracts.ProfileLookup, limit int) *Result {
	if limit <= 0 {
		limit = s.defaultCap
	}

	norm := normalizer.New(s.rules.BookPreference, logger)
	events, stats := norm.NormalizeWithStats(payloads...)
	s.metrics.RecordDropped(sport, "event", stats.DroppedEvents)
	s.metrics.RecordDropped(sport, "quote", stats.DroppedQuotes)

	result := &Result{Sport: sport, Events: len(events)}

	var candidates []models.CandidateBet
	for _, event := range events {
		if event.Sport == "" {
			event.Sport = sport
		}

		out, err := s.evaluate(evaluator, event, lookup)
		if err != nil {
			reason := "error"
			if errors.Is(err, errPanic) {
				reason = "panic"
			}
			result.SkippedEvents++
			s.metrics.RecordEventSkipped(sport, reason)
			logger.Warn("event_skipped", "event_id", event.ID, "matchup", event.Matchup(), "reason", reason, "error", err)
			continue
		}

		for _, c := range out {
			s.metrics.RecordCandidate(sport, c.Category)
		}
		candidates = append(candidates, out...)
	}

	result.Emitted = len(candidates)
	result.Candidates = selector.Select(candidates, limit)
	for _, c := range result.Candidates {
		s.metrics.RecordSelected(sport, c.Category)
	}
	result.Ledger = s.assembler.Assemble(result.Candidates)

	return result
}

// evaluate contains a failing evaluator to the event it was scoring
func (s *Scanner) evaluate(evaluator contracts.SportEvaluator, event models.Event, lookup contracts.ProfileLookup) (out []models.CandidateBet, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return evaluator.Evaluate(event, s.rules, lookup)
}

// fetch pulls the featured payload, then each event's props in parallel.
// A failed props fetch is logged and skipped. Payloads are returned in
// event order so the scan does not depend on completion order.
func (s *Scanner) fetch(ctx context.Context, logger *slog.Logger, sport string, evaluator contracts.SportEvaluator) ([][]byte, error) {
	featured, err := s.adapter.FetchOdds(ctx, &models.FetchOddsOptions{
		Sport:   sport,
		Regions: s.regions,
		Markets: evaluator.GetFeaturedMarkets(),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch odds: %w", err)
	}
	defer func() {
		s.metrics.RecordRequestsRemaining(s.adapter.GetRateLimits().RequestsRemaining)
	}()

	propsMarkets := evaluator.GetPropsMarkets()
	if len(propsMarkets) == 0 {
		return [][]byte{featured}, nil
	}

	events := normalizer.New(nil, logger).Normalize(featured)
	props := make([][]byte, len(events))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, event := range events {
		if event.ID == "" {
			continue
		}
		i, event := i, event
		g.Go(func() error {
			payload, err := s.adapter.FetchEventOdds(ctx, &models.FetchEventOddsOptions{
				Sport:   sport,
				EventID: event.ID,
				Regions: s.regions,
				Markets: propsMarkets,
			})
			if err != nil {
				logger.Warn("props_fetch_failed", "event_id", event.ID, "error", err)
				return nil
			}
			props[i] = payload
			return nil
		})
	}
	_ = g.Wait()

	payloads := [][]byte{featured}
	for _, p := range props {
		if p != nil {
			payloads = append(payloads, p)
		}
	}
	return payloads, nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}

type nopRecorder struct{}

func (nopRecorder) RecordScan(string, string, float64) {}
func (nopRecorder) RecordCandidate(string, string) {}
func (nopRecorder) RecordSelected(string, string) {}
func (nopRecorder) RecordEventSkipped(string, string) {}
func (nopRecorder) RecordDropped(string, string, int) {}
func (nopRecorder) RecordRequestsRemaining(int) {}
