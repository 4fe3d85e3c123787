package profiles

import "github.com/XavierBriggs/Titanium/pkg/models"

// Fallback returns the built-in NBA snapshot used whenever the live source
// is unreachable or returns too few teams.
func Fallback() map[string]models.TeamStatProfile {
	rows := []models.TeamStatProfile{
		{Team: "Atlanta Hawks", NetRating: -1.2, Pace: 101.8, DefensiveRating: 117.9, FreeThrowPct: 0.794, TurnoverPct: 12.9},
		{Team: "Boston Celtics", NetRating: 9.5, Pace: 98.5, DefensiveRating: 110.6, FreeThrowPct: 0.822, TurnoverPct: 11.4},
		{Team: "Brooklyn Nets", NetRating: -7.8, Pace: 97.2, DefensiveRating: 117.4, FreeThrowPct: 0.781, TurnoverPct: 14.1},
		{Team: "Charlotte Hornets", NetRating: -8.9, Pace: 98.9, DefensiveRating: 118.2, FreeThrowPct: 0.768, TurnoverPct: 13.6},
		{Team: "Chicago Bulls", NetRating: -2.1, Pace: 102.4, DefensiveRating: 116.9, FreeThrowPct: 0.801, TurnoverPct: 12.7},
		{Team: "Cleveland Cavaliers", NetRating: 9.9, Pace: 100.1, DefensiveRating: 109.8, FreeThrowPct: 0.787, TurnoverPct: 12.1},
		{Team: "Dallas Mavericks", NetRating: 1.4, Pace: 100.0, DefensiveRating: 113.9, FreeThrowPct: 0.772, TurnoverPct: 12.4},
		{Team: "Denver Nuggets", NetRating: 4.9, Pace: 99.8, DefensiveRating: 114.2, FreeThrowPct: 0.773, TurnoverPct: 12.0},
		{Team: "Detroit Pistons", NetRating: 2.1, Pace: 100.6, DefensiveRating: 112.9, FreeThrowPct: 0.770, TurnoverPct: 14.2},
		{Team: "Golden State Warriors", NetRating: 2.8, Pace: 99.5, DefensiveRating: 111.7, FreeThrowPct: 0.795, TurnoverPct: 13.1},
		{Team: "Houston Rockets", NetRating: 4.5, Pace: 98.8, DefensiveRating: 110.4, FreeThrowPct: 0.748, TurnoverPct: 12.8},
		{Team: "Indiana Pacers", NetRating: 2.0, Pace: 101.9, DefensiveRating: 115.1, FreeThrowPct: 0.791, TurnoverPct: 12.3},
		{Team: "Los Angeles Clippers", NetRating: 3.4, Pace: 97.9, DefensiveRating: 109.9, FreeThrowPct: 0.786, TurnoverPct: 13.0},
		{Team: "Los Angeles Lakers", NetRating: 1.1, Pace: 99.1, DefensiveRating: 113.6, FreeThrowPct: 0.801, TurnoverPct: 12.6},
		{Team: "Memphis Grizzlies", NetRating: 4.1, Pace: 103.5, DefensiveRating: 112.1, FreeThrowPct: 0.771, TurnoverPct: 13.3},
		{Team: "Miami Heat", NetRating: 0.2, Pace: 97.3, DefensiveRating: 112.8, FreeThrowPct: 0.812, TurnoverPct: 12.2},
		{Team: "Milwaukee Bucks", NetRating: 1.9, Pace: 99.4, DefensiveRating: 113.2, FreeThrowPct: 0.784, TurnoverPct: 12.5},
		{Team: "Minnesota Timberwolves", NetRating: 3.9, Pace: 97.6, DefensiveRating: 110.9, FreeThrowPct: 0.779, TurnoverPct: 13.4},
		{Team: "New Orleans Pelicans", NetRating: -9.4, Pace: 99.9, DefensiveRating: 119.1, FreeThrowPct: 0.760, TurnoverPct: 13.9},
		{Team: "New York Knicks", NetRating: 4.6, Pace: 97.1, DefensiveRating: 113.5, FreeThrowPct: 0.790, TurnoverPct: 11.6},
		{Team: "Oklahoma City Thunder", NetRating: 12.7, Pace: 100.4, DefensiveRating: 106.6, FreeThrowPct: 0.826, TurnoverPct: 10.9},
		{Team: "Orlando Magic", NetRating: 1.0, Pace: 97.0, DefensiveRating: 108.9, FreeThrowPct: 0.758, TurnoverPct: 13.2},
		{Team: "Philadelphia 76ers", NetRating: -5.6, Pace: 98.2, DefensiveRating: 116.7, FreeThrowPct: 0.803, TurnoverPct: 13.5},
		{Team: "Phoenix Suns", NetRating: -1.5, Pace: 98.6, DefensiveRating: 116.3, FreeThrowPct: 0.807, TurnoverPct: 13.0},
		{Team: "Portland Trail Blazers", NetRating: -4.2, Pace: 99.3, DefensiveRating: 115.4, FreeThrowPct: 0.774, TurnoverPct: 14.4},
		{Team: "Sacramento Kings", NetRating: -0.4, Pace: 99.6, DefensiveRating: 115.8, FreeThrowPct: 0.798, TurnoverPct: 11.9},
		{Team: "San Antonio Spurs", NetRating: -2.8, Pace: 100.8, DefensiveRating: 115.2, FreeThrowPct: 0.769, TurnoverPct: 13.8},
		{Team: "Toronto Raptors", NetRating: -5.1, Pace: 100.2, DefensiveRating: 116.6, FreeThrowPct: 0.765, TurnoverPct: 13.7},
		{Team: "Utah Jazz", NetRating: -9.9, Pace: 100.7, DefensiveRating: 119.8, FreeThrowPct: 0.776, TurnoverPct: 15.0},
		{Team: "Washington Wizards", NetRating: -12.3, Pace: 102.0, DefensiveRating: 120.4, FreeThrowPct: 0.771, TurnoverPct: 14.6},
	}

	table := make(map[string]models.TeamStatProfile, len(rows))
	for _, row := range rows {
		table[row.Team] = row
	}
	return table
}
