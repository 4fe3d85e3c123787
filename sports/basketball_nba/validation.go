package basketball_nba

import (
	"fmt"

	"github.com/XavierBriggs/Titanium/pkg/models"
)

// ValidateEvent checks if an NBA event can be evaluated
func ValidateEvent(event models.Event) error {
	if event.HomeTeam == "" {
		return fmt.Errorf("home team cannot be empty")
	}

	if event.AwayTeam == "" {
		return fmt.Errorf("away team cannot be empty")
	}

	if event.HomeTeam == event.AwayTeam {
		return fmt.Errorf("home and away teams cannot be the same")
	}

	return nil
}
