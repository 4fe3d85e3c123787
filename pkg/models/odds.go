package models

import (
	"fmt"
	"strings"
	"time"
)

// Sport keys understood by the evaluator registry
const (
	SportNBA    = "basketball_nba"
	SportNFL    = "americanfootball_nfl"
	SportNHL    = "icehockey_nhl"
	SportNCAAB  = "basketball_ncaab"
	SportSoccer = "soccer_epl"
)

// MarketKind classifies a quote independent of the vendor's market key
type MarketKind string

const (
	MarketMoneyline  MarketKind = "moneyline"
	MarketSpread     MarketKind = "spread"
	MarketTotal      MarketKind = "total"
	MarketPlayerProp MarketKind = "player_prop"
)

// Outcome labels with fixed meaning across vendors
const (
	OutcomeOver  = "Over"
	OutcomeUnder = "Under"
	OutcomeDraw  = "Draw"
)

// MarketQuote is one bookmaker's price for one outcome of one market
type MarketQuote struct {
	Kind        MarketKind
	MarketKey   string   // vendor key, e.g. "spreads" or "player_points"
	Outcome     string   // team name, Over/Under, Draw
	Participant string   // player name for props
	Line        *float64 // nil for moneylines
	Price       int      // American odds
	Book        string
	BookTitle   string
}

// Book groups the quotes a single bookmaker posted for an event
type Book struct {
	Key    string
	Title  string
	Quotes []MarketQuote
}

// Event is one scheduled or live matchup
type Event struct {
	ID        string
	Sport     string
	HomeTeam  string
	AwayTeam  string
	StartTime time.Time
	Books     []Book
}

// Quotes flattens all book groups in order
func (e Event) Quotes() []MarketQuote {
	var quotes []MarketQuote
	for _, book := range e.Books {
		quotes = append(quotes, book.Quotes...)
	}
	return quotes
}

// Matchup returns the conventional "Away @ Home" label
func (e Event) Matchup() string {
	return fmt.Sprintf("%s @ %s", e.AwayTeam, e.HomeTeam)
}

// QuotesOf returns the quotes of a single market kind
func (e Event) QuotesOf(kind MarketKind) []MarketQuote {
	var quotes []MarketQuote
	for _, q := range e.Quotes() {
		if q.Kind == kind {
			quotes = append(quotes, q)
		}
	}
	return quotes
}

// TeamStatProfile is a team's efficiency snapshot. Shared read-only across evaluators.
type TeamStatProfile struct {
	Team            string  `json:"team"`
	NetRating       float64 `json:"net_rating"`
	Pace            float64 `json:"pace"`
	DefensiveRating float64 `json:"defensive_rating"`
	FreeThrowPct    float64 `json:"ft_pct"`
	TurnoverPct     float64 `json:"tov_pct"`
}

// KindForMarketKey maps a vendor market key onto a MarketKind.
// The second return value is false for markets the engine ignores.
func KindForMarketKey(key string) (MarketKind, bool) {
	switch key {
	case "h2h", "h2h_3_way":
		return MarketMoneyline, true
	case "spreads", "alternate_spreads":
		return MarketSpread, true
	case "totals", "alternate_totals":
		return MarketTotal, true
	}
	if strings.HasPrefix(key, "player_") {
		return MarketPlayerProp, true
	}
	return "", false
}
