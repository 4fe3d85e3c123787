package americanfootball_nfl

import (
	"fmt"
	"math"

	"github.com/XavierBriggs/Titanium/internal/guard"
	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

// Module implements the SportEvaluator interface for NFL Football
type Module struct{}

var _ contracts.SportEvaluator = (*Module)(nil)

// NewModule creates a new NFL sport module
func NewModule() *Module {
	return &Module{}
}

// GetSportKey returns the sport identifier
func (m *Module) GetSportKey() string {
	return models.SportNFL
}

// GetDisplayName returns the human-readable name
func (m *Module) GetDisplayName() string {
	return "NFL Football"
}

// GetFeaturedMarkets returns the featured markets to fetch
func (m *Module) GetFeaturedMarkets() []string {
	return FeaturedMarkets()
}

// GetPropsMarkets returns the per-event prop markets to fetch
func (m *Module) GetPropsMarkets() []string {
	return PropsMarkets()
}

// Evaluate boosts spreads landing on key numbers and filters volume props
// by a starter threshold. Profiles are not used.
func (m *Module) Evaluate(event models.Event, rules models.RuleConfig, _ contracts.ProfileLookup) ([]models.CandidateBet, error) {
	if guard.Banned(event, rules.BannedTeams) {
		return nil, nil
	}

	nfl := rules.NFL
	gameSpread, hasSpread := homeSpread(event)
	blowoutGame := hasSpread && guard.IsBlowout(gameSpread, nfl.BlowoutSpread)

	var candidates []models.CandidateBet
	for _, q := range guard.FilterCollar(event.Quotes(), rules) {
		switch q.Kind {
		case models.MarketSpread:
			score, rationale := SpreadScore(guard.Line(q), nfl)
			candidates = append(candidates, guard.NewCandidate(event, q, models.CategorySpread, score, rationale))

		case models.MarketTotal:
			rationale := fmt.Sprintf("Total %.1f, baseline", guard.Line(q))
			candidates = append(candidates, guard.NewCandidate(event, q, models.CategoryTotal, nfl.BaselineScore, rationale))

		case models.MarketMoneyline:
			candidates = append(candidates, guard.NewCandidate(event, q, models.CategoryMoneyline, nfl.BaselineScore, guard.Implied(q.Price)))

		case models.MarketPlayerProp:
			if c, ok := propCandidate(event, q, nfl, blowoutGame, gameSpread); ok {
				candidates = append(candidates, c)
			}
		}
	}

	return candidates, nil
}

// SpreadScore scores a spread by key-number proximity. Spreads beyond the
// blowout cutoff keep their score but are down-weighted.
func SpreadScore(line float64, nfl models.NFLRules) (float64, string) {
	abs := math.Abs(line)
	score := nfl.BaselineScore
	rationale := fmt.Sprintf("Spread %+.1f", line)

	for _, key := range nfl.KeyNumbers {
		switch abs {
		case key:
			score += nfl.KeyNumberBoost
			rationale = fmt.Sprintf("Spread %+.1f on key number %g", line, key)
		case key - 0.5, key + 0.5:
			score += nfl.HalfPointBoost
			rationale = fmt.Sprintf("Spread %+.1f half a point off key number %g", line, key)
		}
	}

	if guard.IsBlowout(line, nfl.BlowoutSpread) {
		score *= nfl.BlowoutWeight
		rationale += ", blowout risk"
	}

	return score, rationale
}

func propCandidate(event models.Event, q models.MarketQuote, nfl models.NFLRules, blowoutGame bool, gameSpread float64) (models.CandidateBet, bool) {
	minLine := nfl.PropMinLine
	if override, ok := nfl.PropMinLines[q.MarketKey]; ok {
		minLine = override
	}

	line := guard.Line(q)
	if math.Abs(line) < minLine {
		return models.CandidateBet{}, false
	}

	switch {
	case blowoutGame && q.Outcome == models.OutcomeOver:
		// Garbage time caps starter volume
		return models.CandidateBet{}, false
	case blowoutGame && q.Outcome == models.OutcomeUnder:
		rationale := fmt.Sprintf("Line %.1f clears starter floor %.1f; spread %.1f risks garbage time", line, minLine, math.Abs(gameSpread))
		return guard.NewCandidate(event, q, models.CategoryProp, nfl.BaselineScore+nfl.UnderBoost, rationale), true
	default:
		rationale := fmt.Sprintf("Line %.1f clears starter floor %.1f", line, minLine)
		return guard.NewCandidate(event, q, models.CategoryProp, nfl.BaselineScore, rationale), true
	}
}

// homeSpread returns the first posted home spread regardless of collar
func homeSpread(event models.Event) (float64, bool) {
	for _, q := range event.QuotesOf(models.MarketSpread) {
		if q.Outcome == event.HomeTeam && q.Line != nil {
			return *q.Line, true
		}
	}
	return 0, false
}
