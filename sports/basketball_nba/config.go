package basketball_nba

import "github.com/XavierBriggs/Titanium/pkg/models"

// Config contains the NBA fetch settings
type Config struct {
	// Sport identification
	SportKey    string
	DisplayName string

	// Regions to request from the vendor
	Regions []string

	// Featured markets requested in the batched fetch
	Featured []string

	// Props markets fetched per event
	Props []string
}

// DefaultConfig returns the NBA configuration
func DefaultConfig() *Config {
	return &Config{
		SportKey:    models.SportNBA,
		DisplayName: "NBA Basketball",
		Regions:     []string{"us", "us2"},
		Featured:    FeaturedMarkets(),
		Props:       PropsMarkets(),
	}
}

// Projection is the net-rating model's view of one game
type Projection struct {
	HomeScore float64
	AwayScore float64
	Margin    float64 // positive favors home
}

// Project computes pace-adjusted team strength and the projected margin
func Project(home, away models.TeamStatProfile, rules models.NBARules) Projection {
	homeScore := home.NetRating*(home.Pace/100) + rules.HomeCourtBonus
	awayScore := away.NetRating * (away.Pace / 100)
	return Projection{
		HomeScore: homeScore,
		AwayScore: awayScore,
		Margin:    homeScore - awayScore,
	}
}
