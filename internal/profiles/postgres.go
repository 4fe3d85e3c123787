package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

// ErrRatingsUnavailable means the ratings table does not exist yet
var ErrRatingsUnavailable = errors.New("team ratings table unavailable")

// PostgresProvider reads the latest team ratings from Alexandria
type PostgresProvider struct {
	db *sql.DB
}

var _ contracts.ProfileProvider = (*PostgresProvider)(nil)

// NewPostgresProvider creates a provider over an open Alexandria connection
func NewPostgresProvider(db *sql.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

const latestRatingsQuery = `
	SELECT team_name, net_rating, pace, defensive_rating, ft_pct, tov_pct
	FROM team_ratings
	WHERE sport_key = ANY($1)
	  AND as_of = (SELECT MAX(as_of) FROM team_ratings WHERE sport_key = ANY($1))
	ORDER BY team_name
`

// FetchProfiles returns the most recent ratings snapshot for a sport.
// Rows may be keyed by the vendor sport key or the short league code.
func (p *PostgresProvider) FetchProfiles(ctx context.Context, sport string) (map[string]models.TeamStatProfile, error) {
	rows, err := p.db.QueryContext(ctx, latestRatingsQuery, pq.Array(sportKeys(sport)))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P01" { // undefined_table
			return nil, fmt.Errorf("%w: %s", ErrRatingsUnavailable, pqErr.Message)
		}
		return nil, fmt.Errorf("query team ratings: %w", err)
	}
	defer rows.Close()

	teams := make(map[string]models.TeamStatProfile)
	for rows.Next() {
		var (
			row    models.TeamStatProfile
			ftPct  sql.NullFloat64
			tovPct sql.NullFloat64
		)
		if err := rows.Scan(&row.Team, &row.NetRating, &row.Pace, &row.DefensiveRating, &ftPct, &tovPct); err != nil {
			return nil, fmt.Errorf("scan team rating: %w", err)
		}
		row.FreeThrowPct = ftPct.Float64
		row.TurnoverPct = tovPct.Float64
		teams[row.Team] = row
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return teams, nil
}

// sportKeys expands basketball_nba into [basketball_nba nba]
func sportKeys(sport string) []string {
	keys := []string{sport}
	if _, league, ok := strings.Cut(sport, "_"); ok && league != "" {
		keys = append(keys, league)
	}
	return keys
}
