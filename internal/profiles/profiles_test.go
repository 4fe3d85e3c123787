package profiles

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/Titanium/pkg/models"
)

type countingProvider struct {
	calls int32
	teams map[string]models.TeamStatProfile
	err   error
}

func (p *countingProvider) FetchProfiles(context.Context, string) (map[string]models.TeamStatProfile, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.err != nil {
		return nil, p.err
	}
	return p.teams, nil
}

type recorder struct {
	reasons []string
}

func (r *recorder) RecordProfileFallback(_, reason string) {
	r.reasons = append(r.reasons, reason)
}

func liveTable(n int) map[string]models.TeamStatProfile {
	teams := make(map[string]models.TeamStatProfile, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Team %02d Live", i)
		teams[name] = models.TeamStatProfile{Team: name, NetRating: float64(i), Pace: 100}
	}
	return teams
}

func TestSnapshotLookup(t *testing.T) {
	snap := NewSnapshot(Fallback(), DefaultAliases(), SourceStatic)

	t.Run("exact", func(t *testing.T) {
		p, ok := snap.Lookup("Boston Celtics")
		require.True(t, ok)
		assert.Equal(t, 9.5, p.NetRating)
	})

	t.Run("alias", func(t *testing.T) {
		p, ok := snap.Lookup("LA Clippers")
		require.True(t, ok)
		assert.Equal(t, "Los Angeles Clippers", p.Team)
	})

	t.Run("mascot fallback", func(t *testing.T) {
		p, ok := snap.Lookup("Golden St. Warriors")
		require.True(t, ok)
		assert.Equal(t, "Golden State Warriors", p.Team)
	})

	t.Run("unknown", func(t *testing.T) {
		p, ok := snap.Lookup("Seattle SuperSonics")
		assert.False(t, ok)
		assert.Nil(t, p)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := snap.Lookup("")
		assert.False(t, ok)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		var nilSnap *Snapshot
		_, ok := nilSnap.Lookup("Boston Celtics")
		assert.False(t, ok)
	})
}

func TestSnapshotLookup_SharedMascotIsFirstSortedMatch(t *testing.T) {
	teams := map[string]models.TeamStatProfile{
		"Zeta Kings":  {NetRating: 2},
		"Alpha Kings": {NetRating: 1},
	}

	snap := NewSnapshot(teams, map[string]string{"Z Kings": "Zeta Kings"}, SourceStatic)

	p, ok := snap.Lookup("Sacramento Kings")
	require.True(t, ok)
	assert.Equal(t, "Alpha Kings", p.Team)

	// Pinned aliases win over the mascot fallback
	p, ok = snap.Lookup("Z Kings")
	require.True(t, ok)
	assert.Equal(t, "Zeta Kings", p.Team)
}

func TestSnapshotIsImmutable(t *testing.T) {
	teams := map[string]models.TeamStatProfile{"Boston Celtics": {NetRating: 9.5}}
	snap := NewSnapshot(teams, nil, SourceStatic)

	teams["Boston Celtics"] = models.TeamStatProfile{NetRating: -50}
	p, ok := snap.Lookup("Boston Celtics")
	require.True(t, ok)
	assert.Equal(t, 9.5, p.NetRating)
}

func TestCache_LiveRefreshAndTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	provider := &countingProvider{teams: liveTable(25)}

	cache := NewCache(provider, models.SportNBA,
		WithTTL(time.Hour),
		WithClock(func() time.Time { return now }),
	)

	first := cache.Get(context.Background())
	assert.Equal(t, SourceLive, first.Source())
	assert.Equal(t, 25, first.Len())

	now = now.Add(30 * time.Minute)
	second := cache.Get(context.Background())
	assert.Same(t, first, second, "same snapshot within the window")
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))

	now = now.Add(31 * time.Minute)
	third := cache.Get(context.Background())
	assert.NotSame(t, first, third)
	assert.Equal(t, int32(2), atomic.LoadInt32(&provider.calls))
}

func TestCache_FallbackOnError(t *testing.T) {
	rec := &recorder{}
	provider := &countingProvider{err: errors.New("connection refused")}

	cache := NewCache(provider, models.SportNBA, WithRecorder(rec))
	snap := cache.Get(context.Background())

	assert.Equal(t, SourceFallback, snap.Source())
	assert.Equal(t, 30, snap.Len())
	assert.Equal(t, []string{"fetch_error"}, rec.reasons)

	// Fallback is cached for the window too
	cache.Get(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))
}

// ctxProvider honours cancellation the way the Postgres and Redis providers do
type ctxProvider struct {
	calls int32
	teams map[string]models.TeamStatProfile
	block bool
}

func (p *ctxProvider) FetchProfiles(ctx context.Context, _ string) (map[string]models.TeamStatProfile, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.block {
		<-ctx.Done()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.teams, nil
}

func TestCache_CancelledCallerDoesNotPinFallback(t *testing.T) {
	provider := &ctxProvider{teams: liveTable(25)}
	cache := NewCache(provider, models.SportNBA)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := cache.Get(ctx)
	assert.Equal(t, SourceLive, first.Source())

	second := cache.Get(context.Background())
	assert.Equal(t, SourceLive, second.Source())
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))
}

func TestCache_FetchTimeout(t *testing.T) {
	rec := &recorder{}
	provider := &ctxProvider{teams: liveTable(25), block: true}
	cache := NewCache(provider, models.SportNBA,
		WithFetchTimeout(20*time.Millisecond),
		WithRecorder(rec),
	)

	start := time.Now()
	snap := cache.Get(context.Background())

	assert.Equal(t, SourceFallback, snap.Source())
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, []string{"fetch_error"}, rec.reasons)
}

func TestCache_FallbackRetriesSooner(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	provider := &countingProvider{err: errors.New("connection refused")}

	cache := NewCache(provider, models.SportNBA,
		WithTTL(time.Hour),
		WithFallbackTTL(time.Minute),
		WithClock(func() time.Time { return now }),
	)

	assert.Equal(t, SourceFallback, cache.Get(context.Background()).Source())

	// Provider recovers; the fallback is still served inside the retry window
	provider.err = nil
	provider.teams = liveTable(25)
	now = now.Add(30 * time.Second)
	assert.Equal(t, SourceFallback, cache.Get(context.Background()).Source())
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))

	now = now.Add(31 * time.Second)
	live := cache.Get(context.Background())
	assert.Equal(t, SourceLive, live.Source())
	assert.Equal(t, int32(2), atomic.LoadInt32(&provider.calls))

	// Live snapshots keep the full window
	now = now.Add(50 * time.Minute)
	assert.Same(t, live, cache.Get(context.Background()))
}

func TestCache_FallbackOnInsufficientCoverage(t *testing.T) {
	rec := &recorder{}
	provider := &countingProvider{teams: liveTable(5)}

	cache := NewCache(provider, models.SportNBA, WithMinTeams(20), WithRecorder(rec))
	snap := cache.Get(context.Background())

	assert.Equal(t, SourceFallback, snap.Source())
	_, ok := snap.Lookup("Team 01 Live")
	assert.False(t, ok, "partial live tables are never served")
	assert.Equal(t, []string{"insufficient_coverage"}, rec.reasons)
}

func TestCache_NoProvider(t *testing.T) {
	cache := NewCache(nil, models.SportNBA)
	assert.Equal(t, SourceFallback, cache.Get(context.Background()).Source())
}

func TestCache_Invalidate(t *testing.T) {
	provider := &countingProvider{teams: liveTable(21)}
	cache := NewCache(provider, models.SportNBA)

	first := cache.Get(context.Background())
	cache.Invalidate()
	second := cache.Get(context.Background())

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&provider.calls))

	// The old snapshot remains usable
	_, ok := first.Lookup("Team 03 Live")
	assert.True(t, ok)
}

func TestCache_ConcurrentCallersShareSnapshot(t *testing.T) {
	provider := &countingProvider{teams: liveTable(22)}
	cache := NewCache(provider, models.SportNBA)

	const workers = 16
	results := make([]*Snapshot, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Get(context.Background())
		}(i)
	}
	wg.Wait()

	for _, snap := range results {
		assert.Same(t, results[0], snap)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))
}

func TestStatic(t *testing.T) {
	static := NewStatic(map[string]models.TeamStatProfile{"Boston Celtics": {NetRating: 1}})
	static.Invalidate()

	snap := static.Get(context.Background())
	assert.Equal(t, SourceStatic, snap.Source())
	assert.Equal(t, 1, snap.Len())
}

func TestPostgresProvider_FetchProfiles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"team_name", "net_rating", "pace", "defensive_rating", "ft_pct", "tov_pct"}).
		AddRow("Boston Celtics", 9.5, 98.5, 110.6, 0.822, 11.4).
		AddRow("Utah Jazz", -9.9, 100.7, 119.8, nil, nil)

	mock.ExpectQuery(`SELECT team_name, net_rating, pace, defensive_rating, ft_pct, tov_pct\s+FROM team_ratings`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	provider := NewPostgresProvider(db)
	teams, err := provider.FetchProfiles(context.Background(), models.SportNBA)
	require.NoError(t, err)
	require.Len(t, teams, 2)

	assert.Equal(t, 98.5, teams["Boston Celtics"].Pace)
	assert.Equal(t, 0.822, teams["Boston Celtics"].FreeThrowPct)
	assert.Equal(t, 0.0, teams["Utah Jazz"].FreeThrowPct, "NULL columns read as zero")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProvider_MissingTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM team_ratings`).
		WillReturnError(&pq.Error{Code: "42P01", Message: `relation "team_ratings" does not exist`})

	_, err = NewPostgresProvider(db).FetchProfiles(context.Background(), models.SportNBA)
	assert.ErrorIs(t, err, ErrRatingsUnavailable)
}

func TestPostgresProvider_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"team_name", "net_rating", "pace", "defensive_rating", "ft_pct", "tov_pct"}).
		AddRow("Boston Celtics", "not-a-number", 98.5, 110.6, 0.8, 11.0)
	mock.ExpectQuery(`FROM team_ratings`).WillReturnRows(rows)

	_, err = NewPostgresProvider(db).FetchProfiles(context.Background(), models.SportNBA)
	assert.Error(t, err)
}

func TestSportKeys(t *testing.T) {
	assert.Equal(t, []string{"basketball_nba", "nba"}, sportKeys("basketball_nba"))
	assert.Equal(t, []string{"nba"}, sportKeys("nba"))

	v, err := pq.Array(sportKeys("basketball_nba")).(driver.Valuer).Value()
	require.NoError(t, err)
	assert.Equal(t, `{"basketball_nba","nba"}`, v)
}

func TestRedisProvider_ReadThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	upstream := &countingProvider{teams: liveTable(3)}
	provider := NewRedisProvider(client, upstream, 10*time.Minute, nil)

	teams, err := provider.FetchProfiles(context.Background(), models.SportNBA)
	require.NoError(t, err)
	assert.Len(t, teams, 3)
	assert.True(t, mr.Exists("profiles:basketball_nba"))
	assert.Equal(t, 10*time.Minute, mr.TTL("profiles:basketball_nba"))

	// Second read is served from Redis
	teams, err = provider.FetchProfiles(context.Background(), models.SportNBA)
	require.NoError(t, err)
	assert.Len(t, teams, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&upstream.calls))
}

func TestRedisProvider_CorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("profiles:basketball_nba", "{not json"))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	upstream := &countingProvider{teams: liveTable(2)}
	provider := NewRedisProvider(client, upstream, time.Minute, nil)

	teams, err := provider.FetchProfiles(context.Background(), models.SportNBA)
	require.NoError(t, err)
	assert.Len(t, teams, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&upstream.calls))
}

func TestRedisProvider_UpstreamError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	provider := NewRedisProvider(client, &countingProvider{err: errors.New("down")}, time.Minute, nil)
	_, err := provider.FetchProfiles(context.Background(), models.SportNBA)
	assert.Error(t, err)
	assert.False(t, mr.Exists("profiles:basketball_nba"))
}

func TestRedisProvider_RedisDownFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	upstream := &countingProvider{teams: liveTable(4)}
	provider := NewRedisProvider(client, upstream, time.Minute, nil)

	teams, err := provider.FetchProfiles(context.Background(), models.SportNBA)
	require.NoError(t, err)
	assert.Len(t, teams, 4)
}

func TestStaticProvider(t *testing.T) {
	p := &StaticProvider{Teams: liveTable(2)}
	teams, err := p.FetchProfiles(context.Background(), models.SportNBA)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	p.Err = errors.New("boom")
	_, err = p.FetchProfiles(context.Background(), models.SportNBA)
	assert.Error(t, err)
}
