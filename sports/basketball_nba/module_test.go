package basketball_nba

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/Titanium/pkg/models"
	"github.com/XavierBriggs/Titanium/pkg/testutil"
)

const (
	celtics = "Boston Celtics"
	suns    = "Phoenix Suns"
)

func workedProfiles() testutil.Profiles {
	return testutil.Profiles{
		celtics: testutil.Profile(celtics, 9.5, 98.5, 110.6),
		suns:    testutil.Profile(suns, -1.5, 102.0, 112.0),
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "basketball_nba", config.SportKey)
	assert.Len(t, config.Regions, 2)
	assert.Equal(t, []string{"h2h", "spreads", "totals"}, config.Featured)
	assert.Len(t, config.Props, 4)
}

func TestProject_WorkedExample(t *testing.T) {
	rules := models.DefaultRuleConfig()
	proj := Project(workedProfiles()[celtics], workedProfiles()[suns], rules.NBA)

	assert.InDelta(t, 10.86, proj.HomeScore, 0.01)
	assert.InDelta(t, -1.53, proj.AwayScore, 0.01)
	assert.InDelta(t, 12.39, proj.Margin, 0.01)
}

func TestEvaluate_WorkedExample(t *testing.T) {
	rules := models.DefaultRuleConfig()
	event := testutil.NewTestEvent("nba-1", models.SportNBA, celtics, suns,
		testutil.Spread(celtics, -10.5, -150),
		testutil.Spread(suns, 10.5, 125),
		testutil.Moneyline(celtics, -600),
		testutil.Moneyline(suns, 450),
	)

	candidates, err := NewModule().Evaluate(event, rules, workedProfiles())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, models.CategorySpread, c.Category)
	assert.Equal(t, celtics, c.Target)
	assert.Equal(t, -150, c.Price)
	require.NotNil(t, c.Line)
	assert.Equal(t, -10.5, *c.Line)
	assert.InDelta(t, 1.9, c.EdgeScore, 0.02)

	proj := Project(workedProfiles()[celtics], workedProfiles()[suns], rules.NBA)
	assert.InDelta(t, math.Abs(proj.Margin)-10.5, c.EdgeScore, 1e-9)
}

func TestEvaluate_AwayEdgeAndMoneylineFloor(t *testing.T) {
	rules := models.DefaultRuleConfig()
	profiles := testutil.Profiles{
		"Washington Wizards": testutil.Profile("Washington Wizards", -12.3, 100, 112),
		"Denver Nuggets":     testutil.Profile("Denver Nuggets", 4.9, 100, 112),
	}
	// home -12.3 + 1.5 = -10.8, away 4.9 → margin -15.7, edge side Denver
	event := testutil.NewTestEvent("nba-2", models.SportNBA, "Washington Wizards", "Denver Nuggets",
		testutil.Spread("Denver Nuggets", -9.5, -110),
		testutil.Spread("Washington Wizards", 9.5, -110),
		testutil.Moneyline("Denver Nuggets", -160),
	)

	candidates, err := NewModule().Evaluate(event, rules, profiles)
	require.NoError(t, err)
	require.Len(t, candidates, 1, "moneyline below the value floor is skipped")
	assert.Equal(t, "Denver Nuggets", candidates[0].Target)
	assert.InDelta(t, 15.7-9.5, candidates[0].EdgeScore, 1e-9)

	event.Books[0].Quotes[2].Price = -140
	candidates, err = NewModule().Evaluate(event, rules, profiles)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, models.CategoryMoneyline, candidates[1].Category)
	assert.InDelta(t, 15.7-rules.NBA.EdgeThreshold, candidates[1].EdgeScore, 1e-9)
}

func TestEvaluate_SpreadFilters(t *testing.T) {
	rules := models.DefaultRuleConfig()
	profiles := workedProfiles()

	tests := []struct {
		name string
		line float64
	}{
		{"blowout spread discarded", -14.0},
		{"market prices more than the model", -13.0},
		{"line just past the projection", -12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := testutil.NewTestEvent("nba-3", models.SportNBA, celtics, suns,
				testutil.Spread(celtics, tt.line, -110),
			)
			candidates, err := NewModule().Evaluate(event, rules, profiles)
			require.NoError(t, err)
			assert.Empty(t, candidates)
		})
	}
}

func TestEvaluate_NoDirectionalEdge(t *testing.T) {
	rules := models.DefaultRuleConfig()
	profiles := testutil.Profiles{
		"A": testutil.Profile("A", 1, 100, 110),
		"B": testutil.Profile("B", 0, 100, 110),
	}
	event := testutil.NewTestEvent("nba-4", models.SportNBA, "A", "B",
		testutil.Spread("A", -1.5, -110),
		testutil.Moneyline("A", -130),
	)

	candidates, err := NewModule().Evaluate(event, rules, profiles)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestEvaluate_MissingProfiles(t *testing.T) {
	rules := models.DefaultRuleConfig()
	event := testutil.NewTestEvent("nba-5", models.SportNBA, celtics, "Unknown Team",
		testutil.Spread(celtics, -3.5, -110),
	)

	candidates, err := NewModule().Evaluate(event, rules, workedProfiles())
	require.NoError(t, err)
	assert.Empty(t, candidates)

	candidates, err = NewModule().Evaluate(event, rules, nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestEvaluate_BannedTeam(t *testing.T) {
	rules := models.DefaultRuleConfig()
	rules.BannedTeams = []string{"suns"}

	event := testutil.NewTestEvent("nba-6", models.SportNBA, celtics, suns,
		testutil.Spread(celtics, -10.5, -150),
	)

	candidates, err := NewModule().Evaluate(event, rules, workedProfiles())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestEvaluate_Props(t *testing.T) {
	rules := models.DefaultRuleConfig()
	profiles := testutil.Profiles{
		"Utah Jazz":      testutil.Profile("Utah Jazz", 0, 100.7, 119.8),
		"Boston Celtics": testutil.Profile("Boston Celtics", 0.5, 98.5, 110.6),
	}
	event := testutil.NewTestEvent("nba-7", models.SportNBA, "Utah Jazz", "Boston Celtics",
		testutil.Prop("player_points", "Jayson Tatum", models.OutcomeOver, 27.5, -115),
		testutil.Prop("player_points", "Jayson Tatum", models.OutcomeUnder, 27.5, -105),
		testutil.Prop("player_threes", "Jayson Tatum", models.OutcomeOver, 3.5, 120),
		testutil.Prop("player_rebounds", "Lauri Markkanen", models.OutcomeOver, 8.5, -250),
	)

	candidates, err := NewModule().Evaluate(event, rules, profiles)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, models.CategoryProp, c.Category)
	assert.Equal(t, "Jayson Tatum", c.Target)
	assert.Equal(t, models.OutcomeOver, c.Side)
	assert.Contains(t, c.Rationale, "Utah Jazz weak defense")
}

func TestEvaluate_PropsNeedSoftMatchup(t *testing.T) {
	rules := models.DefaultRuleConfig()
	event := testutil.NewTestEvent("nba-8", models.SportNBA, celtics, suns,
		testutil.Prop("player_points", "Devin Booker", models.OutcomeOver, 26.5, -110),
	)

	candidates, err := NewModule().Evaluate(event, rules, workedProfiles())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestEvaluate_InvalidEvent(t *testing.T) {
	event := testutil.NewTestEvent("nba-9", models.SportNBA, celtics, celtics)
	_, err := NewModule().Evaluate(event, models.DefaultRuleConfig(), workedProfiles())
	assert.Error(t, err)
}

func TestEvaluate_CollarHolds(t *testing.T) {
	rules := models.DefaultRuleConfig()
	event := testutil.NewTestEvent("nba-10", models.SportNBA, celtics, suns,
		testutil.Spread(celtics, -4.5, -190),
		testutil.Spread(celtics, -5.5, -120),
		testutil.Moneyline(celtics, 160),
		testutil.Moneyline(celtics, -145),
	)

	candidates, err := NewModule().Evaluate(event, rules, workedProfiles())
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	assert.Empty(t, testutil.OutsideCollar(candidates, rules))
}

func TestIsPropsMarket(t *testing.T) {
	assert.True(t, IsPropsMarket("player_points", PropsMarkets()))
	assert.False(t, IsPropsMarket("player_threes", PropsMarkets()))
}
