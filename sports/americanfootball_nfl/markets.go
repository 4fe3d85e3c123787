package americanfootball_nfl

// FeaturedMarkets returns the list of featured (mainline) markets for NFL
func FeaturedMarkets() []string {
	return []string{"h2h", "spreads", "totals"}
}

// PropsMarkets returns the volume props with a starter threshold
func PropsMarkets() []string {
	return []string{
		"player_pass_yds",
		"player_pass_attempts",
		"player_rush_yds",
		"player_reception_yds",
		"player_receptions",
	}
}
