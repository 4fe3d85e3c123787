package profiles

import (
	"sort"
	"strings"

	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

// Snapshot is an immutable team → profile table with name resolution
type Snapshot struct {
	teams   map[string]models.TeamStatProfile
	keys    []string // sorted, fixes the mascot fallback order
	aliases map[string]string
	source  string
}

var _ contracts.ProfileLookup = (*Snapshot)(nil)

// NewSnapshot copies the table so later mutation of the input is not observed
func NewSnapshot(teams map[string]models.TeamStatProfile, aliases map[string]string, source string) *Snapshot {
	copied := make(map[string]models.TeamStatProfile, len(teams))
	keys := make([]string, 0, len(teams))
	for name, p := range teams {
		if p.Team == "" {
			p.Team = name
		}
		copied[name] = p
		keys = append(keys, name)
	}
	sort.Strings(keys)

	return &Snapshot{
		teams:   copied,
		keys:    keys,
		aliases: aliases,
		source:  source,
	}
}

// Lookup resolves a vendor team name.
//
// Order: exact key, alias map, then the last word of the name (the mascot)
// as a case-insensitive substring of each key in sorted order. The mascot
// fallback returns the first match, so teams sharing a mascot resolve to
// whichever sorts first; pin those through the alias map.
func (s *Snapshot) Lookup(team string) (*models.TeamStatProfile, bool) {
	if s == nil || team == "" {
		return nil, false
	}
	team = strings.TrimSpace(team)

	if p, ok := s.teams[team]; ok {
		return &p, true
	}

	if alias, ok := s.aliases[team]; ok {
		if p, ok := s.teams[alias]; ok {
			return &p, true
		}
	}

	words := strings.Fields(team)
	if len(words) == 0 {
		return nil, false
	}
	mascot := strings.ToLower(words[len(words)-1])
	for _, key := range s.keys {
		if strings.Contains(strings.ToLower(key), mascot) {
			p := s.teams[key]
			return &p, true
		}
	}

	return nil, false
}

// Len returns the number of teams in the snapshot
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.teams)
}

// Source names where the snapshot came from (live, fallback, static)
func (s *Snapshot) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// Teams returns a copy of the underlying table
func (s *Snapshot) Teams() map[string]models.TeamStatProfile {
	out := make(map[string]models.TeamStatProfile, len(s.teams))
	for k, v := range s.teams {
		out[k] = v
	}
	return out
}

// DefaultAliases maps vendor spellings onto canonical NBA names
func DefaultAliases() map[string]string {
	return map[string]string{
		"LA Lakers":        "Los Angeles Lakers",
		"LA Clippers":      "Los Angeles Clippers",
		"L.A. Clippers":    "Los Angeles Clippers",
		"NY Knicks":        "New York Knicks",
		"GS Warriors":      "Golden State Warriors",
		"SA Spurs":         "San Antonio Spurs",
		"OKC Thunder":      "Oklahoma City Thunder",
		"NO Pelicans":      "New Orleans Pelicans",
		"Portland Blazers": "Portland Trail Blazers",
		"Philadelphia":     "Philadelphia 76ers",
		"Sixers":           "Philadelphia 76ers",
	}
}
