package oddsmath

import (
	"fmt"
	"math"
)

// Scenario quantile z-scores for the 10th/90th percentile outcomes
const (
	ceilingZ = 1.2815515655446004
	floorZ   = -1.2815515655446004

	// Ceiling and floor scenarios run with a tighter spread than the median
	scenarioSpread = 0.8

	maxGoals = 10
)

// TrinityProbability blends the probability of clearing a line under three
// scenarios: a ceiling (90th percentile mean), a floor (10th percentile mean)
// and the median, weighted 20/20/60.
//
// Each scenario is evaluated in closed form with the normal CDF rather than by
// sampling, so the result is deterministic.
func TrinityProbability(mean, stdDev, line float64) (float64, error) {
	if stdDev <= 0 {
		return 0, fmt.Errorf("standard deviation must be positive")
	}

	ceiling := mean + ceilingZ*stdDev
	floor := mean + floorZ*stdDev

	pCeiling := probAbove(line, ceiling, stdDev*scenarioSpread)
	pFloor := probAbove(line, floor, stdDev*scenarioSpread)
	pMedian := probAbove(line, mean, stdDev)

	return pCeiling*0.20 + pFloor*0.20 + pMedian*0.60, nil
}

// PoissonMatrix returns home/draw/away probabilities from independent Poisson
// goal models over a 10x10 score grid.
func PoissonMatrix(homeXG, awayXG float64) (home, draw, away float64, err error) {
	if homeXG < 0 || awayXG < 0 {
		return 0, 0, 0, fmt.Errorf("expected goals cannot be negative")
	}

	homeProbs := poissonPMF(homeXG)
	awayProbs := poissonPMF(awayXG)

	for h := 0; h < maxGoals; h++ {
		for a := 0; a < maxGoals; a++ {
			p := homeProbs[h] * awayProbs[a]
			switch {
			case h > a:
				home += p
			case h == a:
				draw += p
			default:
				away += p
			}
		}
	}

	return home, draw, away, nil
}

// probAbove is P(X > line) for X ~ N(mean, sd)
func probAbove(line, mean, sd float64) float64 {
	z := (line - mean) / (sd * math.Sqrt2)
	return 0.5 * math.Erfc(z)
}

func poissonPMF(lambda float64) []float64 {
	probs := make([]float64, maxGoals)
	p := math.Exp(-lambda)
	for k := 0; k < maxGoals; k++ {
		probs[k] = p
		p = p * lambda / float64(k+1)
	}
	return probs
}
