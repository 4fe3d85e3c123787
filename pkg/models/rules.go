package models

import (
	"errors"
	"fmt"
)

// RuleConfig is the read-only rule set for one scan.
// Evaluators receive it by value and must not modify its slices or maps.
type RuleConfig struct {
	// Odds collar: prices outside [CollarMin, CollarMax] are never surfaced
	CollarMin int `yaml:"collar_min"`
	CollarMax int `yaml:"collar_max"`

	// Teams vetoed outright (case-insensitive substring match)
	BannedTeams []string `yaml:"banned_teams"`

	// Bookmaker keys in order of preference; first present wins
	BookPreference []string `yaml:"book_preference"`

	NBA    NBARules    `yaml:"nba"`
	NFL    NFLRules    `yaml:"nfl"`
	NHL    NHLRules    `yaml:"nhl"`
	NCAAB  NCAABRules  `yaml:"ncaab"`
	Soccer SoccerRules `yaml:"soccer"`
}

// NBARules drives the net-rating projection evaluator
type NBARules struct {
	HomeCourtBonus float64 `yaml:"home_court_bonus"`

	// Minimum |projected margin| for a directional edge
	EdgeThreshold float64 `yaml:"edge_threshold"`

	// Spreads beyond this magnitude are discarded
	BlowoutSpread float64 `yaml:"blowout_spread"`

	// Edge-side moneylines priced below this are poor value
	MoneylineValueFloor int `yaml:"moneyline_value_floor"`

	WeakDefenseRating     float64  `yaml:"weak_defense_rating"`
	CombinedPaceThreshold float64  `yaml:"combined_pace_threshold"`
	PropMarkets           []string `yaml:"prop_markets"`
}

// NFLRules drives the key-number evaluator
type NFLRules struct {
	BaselineScore  float64   `yaml:"baseline_score"`
	KeyNumbers     []float64 `yaml:"key_numbers"`
	KeyNumberBoost float64   `yaml:"key_number_boost"`
	HalfPointBoost float64   `yaml:"half_point_boost"`

	// Spreads beyond the cutoff are down-weighted by BlowoutWeight
	BlowoutSpread float64 `yaml:"blowout_spread"`
	BlowoutWeight float64 `yaml:"blowout_weight"`

	PropMinLine  float64            `yaml:"prop_min_line"`
	PropMinLines map[string]float64 `yaml:"prop_min_lines"`
	UnderBoost   float64            `yaml:"under_boost"`
}

// NHLRules drives the safety-valve evaluator
type NHLRules struct {
	// Moneylines priced below this are swapped for the puck line
	SafetyThreshold int `yaml:"safety_threshold"`

	GoldenZoneMin   int     `yaml:"golden_zone_min"`
	GoldenZoneMax   int     `yaml:"golden_zone_max"`
	GoldenZoneScore float64 `yaml:"golden_zone_score"`
	BaselineScore   float64 `yaml:"baseline_score"`

	// Puck lines beyond this magnitude are discarded
	MaxPuckLine float64 `yaml:"max_puck_line"`
}

// NCAABRules drives the team-role evaluator
type NCAABRules struct {
	HomeDogScore    float64 `yaml:"home_dog_score"`
	HeavyFavMin     float64 `yaml:"heavy_fav_min"`
	HeavyFavMax     float64 `yaml:"heavy_fav_max"`
	HeavyFavScore   float64 `yaml:"heavy_fav_score"`
	ShortRoadFavMax float64 `yaml:"short_road_fav_max"`
	TrapScore       float64 `yaml:"trap_score"`
	BaselineScore   float64 `yaml:"baseline_score"`
	TempoLow        float64 `yaml:"tempo_low"`
	TempoHigh       float64 `yaml:"tempo_high"`
}

// SoccerRules drives the three-way evaluator
type SoccerRules struct {
	DrawScore     float64 `yaml:"draw_score"`
	FavoriteScore float64 `yaml:"favorite_score"`
	UnderdogScore float64 `yaml:"underdog_score"`
	BaselineScore float64 `yaml:"baseline_score"`
	MaxHandicap   float64 `yaml:"max_handicap"`
}

// DefaultRuleConfig returns the built-in rule set
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		CollarMin:      -180,
		CollarMax:      150,
		BannedTeams:    []string{},
		BookPreference: []string{"draftkings", "fanduel", "betmgm"},

		NBA: NBARules{
			HomeCourtBonus:        1.5,
			EdgeThreshold:         3.0,
			BlowoutSpread:         13.5,
			MoneylineValueFloor:   -150,
			WeakDefenseRating:     116.0,
			CombinedPaceThreshold: 202.0,
			PropMarkets: []string{
				"player_points",
				"player_rebounds",
				"player_assists",
				"player_points_rebounds_assists",
			},
		},

		NFL: NFLRules{
			BaselineScore:  1.0,
			KeyNumbers:     []float64{3, 7},
			KeyNumberBoost: 2.0,
			HalfPointBoost: 1.0,
			BlowoutSpread:  10.5,
			BlowoutWeight:  0.5,
			PropMinLine:    20.0,
			PropMinLines: map[string]float64{
				"player_pass_yds":      180.5,
				"player_rush_yds":      40.5,
				"player_reception_yds": 30.5,
				"player_receptions":    3.5,
				"player_pass_attempts": 25.5,
			},
			UnderBoost: 1.0,
		},

		NHL: NHLRules{
			SafetyThreshold: -200,
			GoldenZoneMin:   -150,
			GoldenZoneMax:   130,
			GoldenZoneScore: 2.0,
			BaselineScore:   1.0,
			MaxPuckLine:     1.5,
		},

		NCAAB: NCAABRules{
			HomeDogScore:    3.0,
			HeavyFavMin:     10.0,
			HeavyFavMax:     20.0,
			HeavyFavScore:   2.5,
			ShortRoadFavMax: 4.5,
			TrapScore:       0.5,
			BaselineScore:   1.0,
			TempoLow:        130.0,
			TempoHigh:       155.0,
		},

		Soccer: SoccerRules{
			DrawScore:     3.0,
			FavoriteScore: 2.0,
			UnderdogScore: 1.0,
			BaselineScore: 1.0,
			MaxHandicap:   1.5,
		},
	}
}

// Validate reports configurations that cannot produce sane candidates
func (r RuleConfig) Validate() error {
	var errs []error

	if r.CollarMin >= r.CollarMax {
		errs = append(errs, fmt.Errorf("collar_min %d must be below collar_max %d", r.CollarMin, r.CollarMax))
	}
	if r.NBA.EdgeThreshold < 0 {
		errs = append(errs, fmt.Errorf("nba.edge_threshold cannot be negative"))
	}
	if r.NBA.BlowoutSpread <= 0 || r.NFL.BlowoutSpread <= 0 {
		errs = append(errs, fmt.Errorf("blowout_spread must be positive"))
	}
	if r.NHL.GoldenZoneMin > r.NHL.GoldenZoneMax {
		errs = append(errs, fmt.Errorf("nhl golden zone is inverted"))
	}
	if r.NCAAB.TempoLow >= r.NCAAB.TempoHigh {
		errs = append(errs, fmt.Errorf("ncaab tempo_low must be below tempo_high"))
	}
	if r.NCAAB.HeavyFavMin > r.NCAAB.HeavyFavMax {
		errs = append(errs, fmt.Errorf("ncaab heavy favorite band is inverted"))
	}

	return errors.Join(errs...)
}

// InCollar reports whether a price sits inside the odds collar
func (r RuleConfig) InCollar(price int) bool {
	return price >= r.CollarMin && price <= r.CollarMax
}
