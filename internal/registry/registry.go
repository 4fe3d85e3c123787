package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/XavierBriggs/Titanium/pkg/contracts"
	"github.com/XavierBriggs/Titanium/pkg/models"
)

// ErrUnknownSport is returned when no evaluator serves a sport key
var ErrUnknownSport = errors.New("unknown sport")

// SportRegistry manages registered sport evaluators
type SportRegistry struct {
	sports map[string]contracts.SportEvaluator
	mu     sync.RWMutex
}

// NewSportRegistry creates a new sport registry
func NewSportRegistry() *SportRegistry {
	return &SportRegistry{
		sports: make(map[string]contracts.SportEvaluator),
	}
}

// Register adds a sport evaluator to the registry
func (r *SportRegistry) Register(sport contracts.SportEvaluator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sportKey := sport.GetSportKey()
	if _, exists := r.sports[sportKey]; exists {
		return fmt.Errorf("sport %s is already registered", sportKey)
	}

	r.sports[sportKey] = sport
	return nil
}

// Get retrieves a sport evaluator by key. Any soccer_* league without its
// own registration resolves to the registered soccer evaluator.
func (r *SportRegistry) Get(sportKey string) (contracts.SportEvaluator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if sport, exists := r.sports[sportKey]; exists {
		return sport, true
	}

	if strings.HasPrefix(sportKey, "soccer_") {
		sport, exists := r.sports[models.SportSoccer]
		return sport, exists
	}

	return nil, false
}

// Lookup is Get with an ErrUnknownSport error
func (r *SportRegistry) Lookup(sportKey string) (contracts.SportEvaluator, error) {
	sport, ok := r.Get(sportKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSport, sportKey)
	}
	return sport, nil
}

// GetAll returns all registered sports ordered by key
func (r *SportRegistry) GetAll() []contracts.SportEvaluator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sports := make([]contracts.SportEvaluator, 0, len(r.sports))
	for _, sport := range r.sports {
		sports = append(sports, sport)
	}
	sort.Slice(sports, func(i, j int) bool {
		return sports[i].GetSportKey() < sports[j].GetSportKey()
	})
	return sports
}

// Count returns the number of registered sports
func (r *SportRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sports)
}
