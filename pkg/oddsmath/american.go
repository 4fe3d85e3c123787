package oddsmath

import (
	"fmt"
	"strconv"
)

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}

	return (100.0 / float64(-american)) + 1.0, nil
}

// AmericanToImpliedProbability converts American odds directly to implied probability
// -110 → 0.5238, +150 → 0.40
func AmericanToImpliedProbability(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}

	return 1.0 / decimal, nil
}

// IsValidAmerican reports whether a price follows the American convention.
// Prices strictly between -100 and +100 do not exist; pick'em is +100.
func IsValidAmerican(american int) bool {
	return american >= 100 || american < -100
}

// NormalizePickem maps -100 onto the canonical +100 pick'em price
func NormalizePickem(american int) int {
	if american == -100 {
		return 100
	}
	return american
}

// FormatAmerican renders a price with an explicit sign: +150, -110
func FormatAmerican(american int) string {
	if american > 0 {
		return "+" + strconv.Itoa(american)
	}
	return strconv.Itoa(american)
}
