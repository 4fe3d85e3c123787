// Package guard holds the checks every sport evaluator applies before
// its own rules: the ban list, the odds collar and the blowout shield.
package guard

import (
	"fmt"
	"math"
	"strings"

	"github.com/XavierBriggs/Titanium/pkg/models"
	"github.com/XavierBriggs/Titanium/pkg/oddsmath"
)

// Banned reports whether either team matches a banned substring (case-insensitive).
// A banned game is vetoed outright.
func Banned(event models.Event, banned []string) bool {
	home := strings.ToLower(event.HomeTeam)
	away := strings.ToLower(event.AwayTeam)

	for _, b := range banned {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if strings.Contains(home, b) || strings.Contains(away, b) {
			return true
		}
	}
	return false
}

// InCollar reports whether a price sits inside [CollarMin, CollarMax]
func InCollar(price int, rules models.RuleConfig) bool {
	return rules.InCollar(price)
}

// FilterCollar returns the quotes priced inside the collar, in input order
func FilterCollar(quotes []models.MarketQuote, rules models.RuleConfig) []models.MarketQuote {
	kept := make([]models.MarketQuote, 0, len(quotes))
	for _, q := range quotes {
		if rules.InCollar(q.Price) {
			kept = append(kept, q)
		}
	}
	return kept
}

// IsBlowout reports whether |line| exceeds the cutoff
func IsBlowout(line, cutoff float64) bool {
	return math.Abs(line) > cutoff
}

// NewCandidate builds a candidate from the quote it prices
func NewCandidate(event models.Event, q models.MarketQuote, category string, score float64, rationale string) models.CandidateBet {
	c := models.CandidateBet{
		Sport:     event.Sport,
		EventID:   event.ID,
		Matchup:   event.Matchup(),
		StartTime: event.StartTime,
		Category:  category,
		Target:    q.Outcome,
		Price:     q.Price,
		Book:      bookLabel(q),
		Rationale: rationale,
		EdgeScore: score,
	}

	if q.Line != nil {
		line := *q.Line
		c.Line = &line
	}

	switch q.Kind {
	case models.MarketTotal:
		c.Side = q.Outcome
		c.Target = event.Matchup()
	case models.MarketPlayerProp:
		c.Side = q.Outcome
		c.Target = q.Participant
		if c.Target == "" {
			c.Target = q.Outcome
		}
	}

	return c
}

// SideOf returns "home", "away", or "" for a quote's outcome
func SideOf(event models.Event, outcome string) string {
	switch outcome {
	case event.HomeTeam:
		return "home"
	case event.AwayTeam:
		return "away"
	}
	return ""
}

// Line dereferences a quote line, zero when absent
func Line(q models.MarketQuote) float64 {
	if q.Line == nil {
		return 0
	}
	return *q.Line
}

// Implied renders a price's implied probability for rationale text
func Implied(price int) string {
	p, err := oddsmath.AmericanToImpliedProbability(price)
	if err != nil {
		return "implied n/a"
	}
	return fmt.Sprintf("implied %.1f%%", p*100)
}

func bookLabel(q models.MarketQuote) string {
	if q.BookTitle != "" {
		return q.BookTitle
	}
	return q.Book
}
