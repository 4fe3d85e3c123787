package models

import "time"

// Bet categories as evaluators label them. Sport-specific labels
// (Puck Line, Run Line, 3-Way) are folded into the base categories
// by the selector.
const (
	CategorySpread    = "Spread"
	CategoryMoneyline = "Moneyline"
	CategoryTotal     = "Total"
	CategoryProp      = "Prop"
	CategoryPuckLine  = "Puck Line"
	CategoryRunLine   = "Run Line"
	CategoryThreeWay  = "3-Way"
)

// CandidateBet is the engine's output unit.
// EdgeScore is only comparable within one sport's scan.
type CandidateBet struct {
	Sport     string    `json:"sport"`
	EventID   string    `json:"event_id"`
	Matchup   string    `json:"matchup"`
	StartTime time.Time `json:"start_time"`
	Category  string    `json:"category"`
	Side      string    `json:"side,omitempty"` // Over/Under for totals and props
	Target    string    `json:"target"`
	Line      *float64  `json:"line,omitempty"`
	Price     int       `json:"price"`
	Book      string    `json:"sportsbook"`
	Rationale string    `json:"rationale"`
	EdgeScore float64   `json:"-"`
}

// LedgerRow is a CandidateBet rendered into the fixed display schema
type LedgerRow struct {
	Time       string `json:"time"`
	Matchup    string `json:"matchup"`
	Type       string `json:"type"`
	Target     string `json:"target"`
	Line       string `json:"line"`
	Price      string `json:"price"`
	Sportsbook string `json:"sportsbook"`
	Rationale  string `json:"rationale"`
}
