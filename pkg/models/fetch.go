package models

import "time"

// FetchOddsOptions contains parameters for fetching odds
type FetchOddsOptions struct {
	Sport   string
	Regions []string
	Markets []string
}

// FetchEventOddsOptions contains parameters for fetching event-specific odds (props)
type FetchEventOddsOptions struct {
	Sport   string
	EventID string
	Regions []string
	Markets []string
}

// RateLimits contains rate limiting information
type RateLimits struct {
	RequestsRemaining int
	RequestsUsed      int
	ResetTime         time.Time
}
