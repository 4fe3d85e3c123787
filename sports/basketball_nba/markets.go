package basketball_nba

// FeaturedMarkets returns the list of featured (mainline) markets for NBA
func FeaturedMarkets() []string {
	return []string{"h2h", "spreads", "totals"}
}

// PropsMarkets returns the volume props the evaluator can surface
func PropsMarkets() []string {
	return []string{
		"player_points",
		"player_rebounds",
		"player_assists",
		"player_points_rebounds_assists",
	}
}

// IsPropsMarket reports whether marketKey is one of the configured prop markets
func IsPropsMarket(marketKey string, configured []string) bool {
	for _, m := range configured {
		if m == marketKey {
			return true
		}
	}
	return false
}
