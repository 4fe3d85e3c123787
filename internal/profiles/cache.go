// Package profiles supplies team efficiency snapshots to the evaluators.
//
// The Cache refreshes from a live provider on a time window and falls back
// to a built-in table on any failure. Snapshots are immutable and swapped
// atomically, so concurrent readers never observe a partial table.
package profiles

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

const (
	DefaultTTL          = time.Hour
	DefaultFallbackTTL  = time.Minute
	DefaultFetchTimeout = 10 * time.Second
	DefaultMinTeams     = 20

	SourceLive     = "live"
	SourceFallback = "fallback"
	SourceStatic   = "static"
)

// Source hands out the snapshot for the current scan
type Source interface {
	Get(ctx context.Context) *Snapshot
	Invalidate()
}

// FallbackRecorder is notified whenever the fallback table is served
type FallbackRecorder interface {
	RecordProfileFallback(sport, reason string)
}

type entry struct {
	snapshot *Snapshot
	expires  time.Time
}

// Cache is a TTL cache over a live ProfileProvider
type Cache struct {
	provider contracts.ProfileProvider
	sport    string
	ttl      time.Duration
	retry    time.Duration
	timeout  time.Duration
	minTeams int
	fallback map[string]models.TeamStatProfile
	aliases  map[string]string
	now      func() time.Time
	logger   *slog.Logger
	recorder FallbackRecorder

	current atomic.Pointer[entry]
	group   singleflight.Group
}

var _ Source = (*Cache)(nil)

// Option configures a Cache
type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithFallbackTTL sets how long a fallback snapshot is served before the
// live provider is tried again
func WithFallbackTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.retry = d
		}
	}
}

// WithFetchTimeout bounds a single provider fetch
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithMinTeams(n int) Option {
	return func(c *Cache) {
		c.minTeams = n
	}
}

func WithFallback(table map[string]models.TeamStatProfile) Option {
	return func(c *Cache) {
		c.fallback = table
	}
}

func WithAliases(aliases map[string]string) Option {
	return func(c *Cache) {
		c.aliases = aliases
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

func WithRecorder(r FallbackRecorder) Option {
	return func(c *Cache) {
		c.recorder = r
	}
}

// NewCache creates a cache for one sport's profiles
func NewCache(provider contracts.ProfileProvider, sport string, opts ...Option) *Cache {
	c := &Cache{
		provider: provider,
		sport:    sport,
		ttl:      DefaultTTL,
		retry:    DefaultFallbackTTL,
		timeout:  DefaultFetchTimeout,
		minTeams: DefaultMinTeams,
		fallback: Fallback(),
		aliases:  DefaultAliases(),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry > c.ttl {
		c.retry = c.ttl
	}
	c.logger = c.logger.With("component", "profiles", "sport", sport)
	return c
}

// Get returns the current snapshot, refreshing it when the window expired.
// Concurrent callers share a single refresh and observe the same snapshot.
// The refresh ignores ctx cancellation and is bounded by the fetch timeout
// instead. Fallback snapshots expire after the shorter retry window.
func (c *Cache) Get(ctx context.Context) *Snapshot {
	if e := c.current.Load(); e != nil && c.now().Before(e.expires) {
		return e.snapshot
	}

	v, _, _ := c.group.Do("refresh", func() (interface{}, error) {
		// Another caller may have refreshed while we waited
		if e := c.current.Load(); e != nil && c.now().Before(e.expires) {
			return e.snapshot, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		snap := c.refresh(fetchCtx)
		ttl := c.ttl
		if snap.Source() != SourceLive {
			ttl = c.retry
		}
		c.current.Store(&entry{snapshot: snap, expires: c.now().Add(ttl)})
		return snap, nil
	})

	return v.(*Snapshot)
}

// Invalidate forces the next Get to refresh. The old snapshot stays valid
// for anyone already holding it.
func (c *Cache) Invalidate() {
	c.current.Store(nil)
}

func (c *Cache) refresh(ctx context.Context) *Snapshot {
	if c.provider == nil {
		return c.useFallback("no_provider", "no live provider configured")
	}

	teams, err := c.provider.FetchProfiles(ctx, c.sport)
	if err != nil {
		return c.useFallback("fetch_error", err.Error())
	}

	if len(teams) < c.minTeams {
		return c.useFallback("insufficient_coverage", fmt.Sprintf("%d teams, need %d", len(teams), c.minTeams))
	}

	c.logger.Info("profiles refreshed", "teams", len(teams), "ttl", c.ttl)
	return NewSnapshot(teams, c.aliases, SourceLive)
}

func (c *Cache) useFallback(reason, detail string) *Snapshot {
	c.logger.Warn("using fallback profiles", "reason", reason, "detail", detail)
	if c.recorder != nil {
		c.recorder.RecordProfileFallback(c.sport, reason)
	}
	return NewSnapshot(c.fallback, c.aliases, SourceFallback)
}

// Static serves a fixed snapshot. Used for tests and offline runs.
type Static struct {
	snapshot *Snapshot
}

var _ Source = (*Static)(nil)

// NewStatic wraps a table with the default aliases
func NewStatic(teams map[string]models.TeamStatProfile) *Static {
	return &Static{snapshot: NewSnapshot(teams, DefaultAliases(), SourceStatic)}
}

func (s *Static) Get(context.Context) *Snapshot { return s.snapshot }

func (s *Static) Invalidate() {}
