package contracts

import (
	"github.com/XavierBriggs/Titanium/pkg/models"
)

// SportEvaluator defines the interface for sport-specific candidate rules
// Each sport ships one stateless implementation registered by sport key
type SportEvaluator interface {
	// GetSportKey returns the unique identifier for this sport (e.g., "basketball_nba")
	GetSportKey() string

	// GetDisplayName returns the human-readable name (e.g., "NBA Basketball")
	GetDisplayName() string

	// GetFeaturedMarkets returns the vendor markets the evaluator consumes
	GetFeaturedMarkets() []string

	// GetPropsMarkets returns per-event prop markets to fetch, empty if none
	GetPropsMarkets() []string

	// Evaluate scores one event. Profiles may be nil for sports that do not use them.
	// Rules are read-only.
	Evaluate(event models.Event, rules models.RuleConfig, profiles ProfileLookup) ([]models.CandidateBet, error)
}

// ProfileLookup resolves a team name to its efficiency snapshot
type ProfileLookup interface {
	Lookup(team string) (*models.TeamStatProfile, bool)
}
