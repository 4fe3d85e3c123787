package basketball_ncaab

import (
	"fmt"
	"math"

	"github.com/XavierBriggs/Titanium/internal/guard"
	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

// FeaturedMarkets returns the list of featured (mainline) markets for NCAAB
func FeaturedMarkets() []string {
	return []string{"h2h", "spreads", "totals"}
}

// Module implements the SportEvaluator interface for college basketball
type Module struct{}

var _ contracts.SportEvaluator = (*Module)(nil)

// NewModule creates a new NCAAB sport module
func NewModule() *Module {
	return &Module{}
}

// GetSportKey returns the sport identifier
func (m *Module) GetSportKey() string {
	return models.SportNCAAB
}

// GetDisplayName returns the human-readable name
func (m *Module) GetDisplayName() string {
	return "NCAA Basketball"
}

// GetFeaturedMarkets returns the featured markets to fetch
func (m *Module) GetFeaturedMarkets() []string {
	return FeaturedMarkets()
}

// GetPropsMarkets returns the per-event prop markets to fetch
func (m *Module) GetPropsMarkets() []string {
	return nil
}

// Evaluate scores spreads by team role and totals by distance from
// typical tempo.
func (m *Module) Evaluate(event models.Event, rules models.RuleConfig, _ contracts.ProfileLookup) ([]models.CandidateBet, error) {
	if guard.Banned(event, rules.BannedTeams) {
		return nil, nil
	}

	ncaab := rules.NCAAB
	var candidates []models.CandidateBet

	for _, q := range guard.FilterCollar(event.Quotes(), rules) {
		switch q.Kind {
		case models.MarketSpread:
			score, rationale, ok := SpreadScore(guard.SideOf(event, q.Outcome), guard.Line(q), ncaab)
			if !ok {
				continue
			}
			candidates = append(candidates, guard.NewCandidate(event, q, models.CategorySpread, score, rationale))

		case models.MarketTotal:
			side, score, ok := TotalScore(guard.Line(q), ncaab)
			if !ok || q.Outcome != side {
				continue
			}
			rationale := fmt.Sprintf("Total %.1f outside typical tempo %.0f-%.0f", guard.Line(q), ncaab.TempoLow, ncaab.TempoHigh)
			candidates = append(candidates, guard.NewCandidate(event, q, models.CategoryTotal, score, rationale))

		case models.MarketMoneyline:
			candidates = append(candidates, guard.NewCandidate(event, q, models.CategoryMoneyline, ncaab.BaselineScore, guard.Implied(q.Price)))
		}
	}

	return candidates, nil
}

// SpreadScore assigns the role tier for a spread. side is "home" or "away".
// Favorites beyond HeavyFavMax are discarded.
func SpreadScore(side string, line float64, ncaab models.NCAABRules) (float64, string, bool) {
	favBy := -line

	switch {
	case side == "home" && line > 0:
		return ncaab.HomeDogScore, fmt.Sprintf("Home underdog %+.1f", line), true
	case favBy > ncaab.HeavyFavMax:
		return 0, "", false
	case favBy >= ncaab.HeavyFavMin:
		return ncaab.HeavyFavScore, fmt.Sprintf("Favorite %+.1f, quality gap", line), true
	case side == "away" && favBy > 0 && favBy <= ncaab.ShortRoadFavMax:
		return ncaab.TrapScore, fmt.Sprintf("Short road favorite %+.1f, trap risk", line), true
	default:
		return ncaab.BaselineScore, fmt.Sprintf("Spread %+.1f", line), true
	}
}

// TotalScore scores a total by its distance from the tempo midpoint and
// returns the side pointing back toward it. A total on the midpoint has
// no side.
func TotalScore(total float64, ncaab models.NCAABRules) (string, float64, bool) {
	mid := (ncaab.TempoLow + ncaab.TempoHigh) / 2
	half := (ncaab.TempoHigh - ncaab.TempoLow) / 2
	if half <= 0 || total == mid {
		return "", 0, false
	}

	score := 1 + math.Abs(total-mid)/half
	if total < mid {
		return models.OutcomeOver, score, true
	}
	return models.OutcomeUnder, score, true
}
