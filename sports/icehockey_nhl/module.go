package icehockey_nhl

import (
	"fmt"
	"math"

	"github.com/XavierBriggs/Titanium/internal/guard"
	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

// FeaturedMarkets returns the markets the safety valve needs: alternate
// spreads supply puck lines for heavy favorites.
func FeaturedMarkets() []string {
	return []string{"h2h", "spreads", "totals", "alternate_spreads"}
}

// Module implements the SportEvaluator interface for NHL Hockey
type Module struct{}

var _ contracts.SportEvaluator = (*Module)(nil)

// NewModule creates a new NHL sport module
func NewModule() *Module {
	return &Module{}
}

// GetSportKey returns the sport identifier
func (m *Module) GetSportKey() string {
	return models.SportNHL
}

// GetDisplayName returns the human-readable name
func (m *Module) GetDisplayName() string {
	return "NHL Hockey"
}

// GetFeaturedMarkets returns the featured markets to fetch
func (m *Module) GetFeaturedMarkets() []string {
	return FeaturedMarkets()
}

// GetPropsMarkets returns the per-event prop markets to fetch
func (m *Module) GetPropsMarkets() []string {
	return nil
}

// Evaluate scores moneylines by the golden zone and swaps heavy favorites
// for their puck line. Spread quotes only surface through that swap.
func (m *Module) Evaluate(event models.Event, rules models.RuleConfig, _ contracts.ProfileLookup) ([]models.CandidateBet, error) {
	if guard.Banned(event, rules.BannedTeams) {
		return nil, nil
	}

	nhl := rules.NHL
	var candidates []models.CandidateBet

	// Moneylines are read before the collar so a heavy favorite still
	// triggers the swap.
	for _, q := range event.QuotesOf(models.MarketMoneyline) {
		if q.Price < nhl.SafetyThreshold {
			if c, ok := puckLine(event, q, rules); ok {
				candidates = append(candidates, c)
			}
			continue
		}
		if !rules.InCollar(q.Price) {
			continue
		}
		score, zone := moneylineScore(q.Price, nhl)
		rationale := fmt.Sprintf("%s, %s", zone, guard.Implied(q.Price))
		candidates = append(candidates, guard.NewCandidate(event, q, models.CategoryMoneyline, score, rationale))
	}

	for _, q := range guard.FilterCollar(event.QuotesOf(models.MarketTotal), rules) {
		rationale := fmt.Sprintf("Total %.1f, baseline", guard.Line(q))
		candidates = append(candidates, guard.NewCandidate(event, q, models.CategoryTotal, nhl.BaselineScore, rationale))
	}

	return candidates, nil
}

// puckLine picks the team's best-priced spread inside the collar and the
// puck-line cap. No qualifying line means nothing for that side.
func puckLine(event models.Event, ml models.MarketQuote, rules models.RuleConfig) (models.CandidateBet, bool) {
	nhl := rules.NHL

	var best *models.MarketQuote
	for _, q := range event.QuotesOf(models.MarketSpread) {
		if q.Outcome != ml.Outcome || q.Line == nil {
			continue
		}
		if !rules.InCollar(q.Price) || math.Abs(*q.Line) > nhl.MaxPuckLine {
			continue
		}
		if best == nil || q.Price > best.Price {
			q := q
			best = &q
		}
	}

	if best == nil {
		return models.CandidateBet{}, false
	}

	score, _ := moneylineScore(best.Price, nhl)
	rationale := fmt.Sprintf("Moneyline %+d past safety threshold %d, puck line %+.1f instead", ml.Price, nhl.SafetyThreshold, *best.Line)
	return guard.NewCandidate(event, *best, models.CategoryPuckLine, score, rationale), true
}

func moneylineScore(price int, nhl models.NHLRules) (float64, string) {
	if price >= nhl.GoldenZoneMin && price <= nhl.GoldenZoneMax {
		return nhl.GoldenZoneScore, "golden zone"
	}
	return nhl.BaselineScore, "outside golden zone"
}
