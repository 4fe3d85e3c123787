package registry

import (
	"github.com/XavierBriggs/Titanium/sports/americanfootball_nfl"
	"github.com/XavierBriggs/Titanium/sports/basketball_nba"
	"github.com/XavierBriggs/Titanium/sports/basketball_ncaab"
	"github.com/XavierBriggs/Titanium/sports/icehockey_nhl"
	"github.com/XavierBriggs/Titanium/sports/soccer"
)

// NewDefault returns a registry holding every built-in evaluator
func NewDefault() *SportRegistry {
	r := NewSportRegistry()

	// Keys are distinct, registration cannot fail
	_ = r.Register(basketball_nba.NewModule())
	_ = r.Register(americanfootball_nfl.NewModule())
	_ = r.Register(icehockey_nhl.NewModule())
	_ = r.Register(basketball_ncaab.NewModule())
	_ = r.Register(soccer.NewModule(""))

	return r
}
