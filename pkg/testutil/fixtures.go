package testutil

import (
	"time"

	"github.com/XavierBriggs/Titanium/pkg/models"
)

// FixedStart is the start time used by fixture events
var FixedStart = time.Date(2026, 11, 2, 0, 30, 0, 0, time.UTC)

// NewTestEvent creates an event with a single DraftKings book
func NewTestEvent(eventID, sport, homeTeam, awayTeam string, quotes ...models.MarketQuote) models.Event {
	for i := range quotes {
		if quotes[i].Book == "" {
			quotes[i].Book = "draftkings"
			quotes[i].BookTitle = "DraftKings"
		}
	}
	return models.Event{
		ID:        eventID,
		Sport:     sport,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		StartTime: FixedStart,
		Books: []models.Book{
			{Key: "draftkings", Title: "DraftKings", Quotes: quotes},
		},
	}
}

// Moneyline creates an h2h quote
func Moneyline(outcome string, price int) models.MarketQuote {
	return models.MarketQuote{Kind: models.MarketMoneyline, MarketKey: "h2h", Outcome: outcome, Price: price}
}

// Spread creates a spreads quote
func Spread(outcome string, line float64, price int) models.MarketQuote {
	return models.MarketQuote{Kind: models.MarketSpread, MarketKey: "spreads", Outcome: outcome, Line: Ptr(line), Price: price}
}

// AltSpread creates an alternate_spreads quote
func AltSpread(outcome string, line float64, price int) models.MarketQuote {
	q := Spread(outcome, line, price)
	q.MarketKey = "alternate_spreads"
	return q
}

// Total creates a totals quote for Over or Under
func Total(side string, line float64, price int) models.MarketQuote {
	return models.MarketQuote{Kind: models.MarketTotal, MarketKey: "totals", Outcome: side, Line: Ptr(line), Price: price}
}

// Prop creates a player prop quote
func Prop(market, player, side string, line float64, price int) models.MarketQuote {
	return models.MarketQuote{Kind: models.MarketPlayerProp, MarketKey: market, Outcome: side, Participant: player, Line: Ptr(line), Price: price}
}

// Profile creates a team profile with the fields the evaluators read
func Profile(team string, netRating, pace, defRating float64) models.TeamStatProfile {
	return models.TeamStatProfile{Team: team, NetRating: netRating, Pace: pace, DefensiveRating: defRating}
}

// Profiles is a map-backed contracts.ProfileLookup with exact matching
type Profiles map[string]models.TeamStatProfile

func (p Profiles) Lookup(team string) (*models.TeamStatProfile, bool) {
	profile, ok := p[team]
	if !ok {
		return nil, false
	}
	return &profile, true
}

// Ptr returns a pointer to f
func Ptr(f float64) *float64 {
	return &f
}

// OutsideCollar returns the candidates priced outside the collar
func OutsideCollar(candidates []models.CandidateBet, rules models.RuleConfig) []models.CandidateBet {
	var out []models.CandidateBet
	for _, c := range candidates {
		if !rules.InCollar(c.Price) {
			out = append(out, c)
		}
	}
	return out
}
