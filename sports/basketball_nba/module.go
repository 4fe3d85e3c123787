package basketball_nba

import (
	"fmt"
	"math"
	"strings"

	"github.com/XavierBriggs/Titanium/internal/guard"
	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

// Module implements the SportEvaluator interface for NBA Basketball
type Module struct {
	config *Config
}

var _ contracts.SportEvaluator = (*Module)(nil)

// NewModule creates a new NBA sport module
func NewModule() *Module {
	return &Module{
		config: DefaultConfig(),
	}
}

// GetSportKey returns the sport identifier
func (m *Module) GetSportKey() string {
	return m.config.SportKey
}

// GetDisplayName returns the human-readable name
func (m *Module) GetDisplayName() string {
	return m.config.DisplayName
}

// GetFeaturedMarkets returns the featured markets to fetch
func (m *Module) GetFeaturedMarkets() []string {
	return m.config.Featured
}

// GetPropsMarkets returns the per-event prop markets to fetch
func (m *Module) GetPropsMarkets() []string {
	return m.config.Props
}

// GetRegions returns the regions to request
func (m *Module) GetRegions() []string {
	return m.config.Regions
}

// Evaluate projects the margin from net rating and pace and surfaces the
// edge side's spread and moneyline, plus volume props in soft matchups.
// Without both team profiles no edge is computable and nothing is emitted.
func (m *Module) Evaluate(event models.Event, rules models.RuleConfig, profiles contracts.ProfileLookup) ([]models.CandidateBet, error) {
	if guard.Banned(event, rules.BannedTeams) {
		return nil, nil
	}

	if err := ValidateEvent(event); err != nil {
		return nil, err
	}

	if profiles == nil {
		return nil, nil
	}

	home, ok := profiles.Lookup(event.HomeTeam)
	if !ok {
		return nil, nil
	}
	away, ok := profiles.Lookup(event.AwayTeam)
	if !ok {
		return nil, nil
	}

	nba := rules.NBA
	proj := Project(*home, *away, nba)
	quotes := guard.FilterCollar(event.Quotes(), rules)

	var candidates []models.CandidateBet

	if math.Abs(proj.Margin) > nba.EdgeThreshold {
		edgeTeam := event.HomeTeam
		if proj.Margin < 0 {
			edgeTeam = event.AwayTeam
		}
		candidates = append(candidates, m.sideCandidates(event, quotes, proj, edgeTeam, nba)...)
	}

	candidates = append(candidates, m.propCandidates(event, quotes, *home, *away, nba)...)

	return candidates, nil
}

func (m *Module) sideCandidates(event models.Event, quotes []models.MarketQuote, proj Projection, edgeTeam string, nba models.NBARules) []models.CandidateBet {
	var out []models.CandidateBet
	margin := math.Abs(proj.Margin)

	for _, q := range quotes {
		if q.Outcome != edgeTeam {
			continue
		}

		switch q.Kind {
		case models.MarketSpread:
			line := guard.Line(q)
			// Blowout shield: discard
			if guard.IsBlowout(line, nba.BlowoutSpread) {
				continue
			}
			score := margin - math.Abs(line)
			if score <= 0 {
				continue
			}
			rationale := fmt.Sprintf("Projected margin %.1f vs line %+.1f, edge %.1f pts", margin, line, score)
			out = append(out, guard.NewCandidate(event, q, models.CategorySpread, score, rationale))

		case models.MarketMoneyline:
			if q.Price < nba.MoneylineValueFloor {
				continue
			}
			score := margin - nba.EdgeThreshold
			rationale := fmt.Sprintf("Projected margin %.1f favors %s, %s", margin, edgeTeam, guard.Implied(q.Price))
			out = append(out, guard.NewCandidate(event, q, models.CategoryMoneyline, score, rationale))
		}
	}

	return out
}

// propCandidates surfaces Over volume props when either defense is weak or
// the combined pace is high. The player's team is not known, so either
// defense qualifies the game.
func (m *Module) propCandidates(event models.Event, quotes []models.MarketQuote, home, away models.TeamStatProfile, nba models.NBARules) []models.CandidateBet {
	if len(nba.PropMarkets) == 0 {
		return nil
	}

	var reasons []string
	for _, team := range []models.TeamStatProfile{home, away} {
		if team.DefensiveRating > nba.WeakDefenseRating {
			reasons = append(reasons, fmt.Sprintf("%s weak defense (DRtg %.1f)", team.Team, team.DefensiveRating))
		}
	}
	if pace := home.Pace + away.Pace; pace > nba.CombinedPaceThreshold {
		reasons = append(reasons, fmt.Sprintf("combined pace %.1f", pace))
	}
	if len(reasons) == 0 {
		return nil
	}

	score := float64(len(reasons))
	rationale := strings.Join(reasons, "; ")

	var out []models.CandidateBet
	for _, q := range quotes {
		if q.Kind != models.MarketPlayerProp || q.Outcome != models.OutcomeOver {
			continue
		}
		if !IsPropsMarket(q.MarketKey, nba.PropMarkets) {
			continue
		}
		out = append(out, guard.NewCandidate(event, q, models.CategoryProp, score, rationale))
	}
	return out
}
