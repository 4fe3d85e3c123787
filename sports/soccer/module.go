package soccer

import (
	"fmt"

	"github.com/XavierBriggs/Titanium/internal/guard"
	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

// FeaturedMarkets returns the list of featured markets for soccer.
// The vendor's h2h market is already three-way for soccer.
func FeaturedMarkets() []string {
	return []string{"h2h", "spreads", "totals"}
}

// Module implements the SportEvaluator interface for soccer leagues.
// One module serves every soccer_* sport key.
type Module struct {
	sportKey string
}

var _ contracts.SportEvaluator = (*Module)(nil)

// NewModule creates a soccer module registered under sportKey
func NewModule(sportKey string) *Module {
	if sportKey == "" {
		sportKey = models.SportSoccer
	}
	return &Module{sportKey: sportKey}
}

// GetSportKey returns the sport identifier
func (m *Module) GetSportKey() string {
	return m.sportKey
}

// GetDisplayName returns the human-readable name
func (m *Module) GetDisplayName() string {
	return "Soccer"
}

// GetFeaturedMarkets returns the featured markets to fetch
func (m *Module) GetFeaturedMarkets() []string {
	return FeaturedMarkets()
}

// GetPropsMarkets returns the per-event prop markets to fetch
func (m *Module) GetPropsMarkets() []string {
	return nil
}

// Evaluate ranks draws above favorites above underdogs in the three-way
// market. Handicaps beyond MaxHandicap are discarded.
func (m *Module) Evaluate(event models.Event, rules models.RuleConfig, _ contracts.ProfileLookup) ([]models.CandidateBet, error) {
	if guard.Banned(event, rules.BannedTeams) {
		return nil, nil
	}

	s := rules.Soccer
	favorite := favoriteOf(event)

	var candidates []models.CandidateBet
	for _, q := range guard.FilterCollar(event.Quotes(), rules) {
		switch q.Kind {
		case models.MarketMoneyline:
			score, role := s.UnderdogScore, "underdog"
			switch {
			case q.Outcome == models.OutcomeDraw:
				score, role = s.DrawScore, "draw"
			case q.Outcome == favorite:
				score, role = s.FavoriteScore, "favorite"
			}
			rationale := fmt.Sprintf("Three-way %s, %s", role, guard.Implied(q.Price))
			candidates = append(candidates, guard.NewCandidate(event, q, models.CategoryThreeWay, score, rationale))

		case models.MarketSpread:
			line := guard.Line(q)
			if guard.IsBlowout(line, s.MaxHandicap) {
				continue
			}
			rationale := fmt.Sprintf("Handicap %+.1f", line)
			candidates = append(candidates, guard.NewCandidate(event, q, models.CategorySpread, s.BaselineScore, rationale))

		case models.MarketTotal:
			rationale := fmt.Sprintf("Total %.1f, baseline", guard.Line(q))
			candidates = append(candidates, guard.NewCandidate(event, q, models.CategoryTotal, s.BaselineScore, rationale))
		}
	}

	return candidates, nil
}

// favoriteOf returns the team with the strictly lower moneyline price,
// read before the collar. Level prices have no favorite.
func favoriteOf(event models.Event) string {
	home, away := 0, 0
	for _, q := range event.QuotesOf(models.MarketMoneyline) {
		switch q.Outcome {
		case event.HomeTeam:
			if home == 0 {
				home = q.Price
			}
		case event.AwayTeam:
			if away == 0 {
				away = q.Price
			}
		}
	}

	switch {
	case home == 0 || away == 0:
		if home != 0 {
			return event.HomeTeam
		}
		if away != 0 {
			return event.AwayTeam
		}
		return ""
	case home < away:
		return event.HomeTeam
	case away < home:
		return event.AwayTeam
	}
	return ""
}
