package contracts

import (
	"context"

	"github.com/XavierBriggs/Titanium/pkg/models"
)

// VendorAdapter fetches raw odds payloads from an external vendor.
// Parsing is left to the normalizer so the engine only depends on JSON shape.
type VendorAdapter interface {
	// FetchOdds retrieves the batched multi-game payload for featured markets
	FetchOdds(ctx context.Context, opts *models.FetchOddsOptions) ([]byte, error)

	// FetchEventOdds retrieves the per-game payload for a single event (props)
	FetchEventOdds(ctx context.Context, opts *models.FetchEventOddsOptions) ([]byte, error)

	// GetRateLimits returns current rate limit information
	GetRateLimits() models.RateLimits
}

// ProfileProvider supplies live team efficiency metrics for a sport
type ProfileProvider interface {
	FetchProfiles(ctx context.Context, sport string) (map[string]models.TeamStatProfile, error)
}
