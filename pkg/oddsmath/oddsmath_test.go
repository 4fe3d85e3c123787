package oddsmath_test

import (
	"math"
	"testing"

	"github.com/XavierBriggs/Titanium/pkg/oddsmath"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Even odds +100", 100, 2.0},
		{"Underdog +150", 150, 2.5},
		{"Favorite -110", -110, 1.909090909},
		{"Favorite -150", -150, 1.666666667},
		{"Favorite -200", -200, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.AmericanToDecimal(tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToDecimal(%d) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}

	if _, err := oddsmath.AmericanToDecimal(0); err == nil {
		t.Error("expected error for 0")
	}
}

func TestAmericanToImpliedProbability(t *testing.T) {
	tests := []struct {
		american int
		want     float64
	}{
		{-110, 0.5238},
		{150, 0.40},
		{-150, 0.60},
		{100, 0.50},
	}

	for _, tt := range tests {
		got, err := oddsmath.AmericanToImpliedProbability(tt.american)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("AmericanToImpliedProbability(%d) = %f, want %f", tt.american, got, tt.want)
		}
	}
}

func TestIsValidAmerican(t *testing.T) {
	valid := []int{100, 150, -101, -110, -2000}
	invalid := []int{0, 50, -50, 99, -100}

	for _, p := range valid {
		if !oddsmath.IsValidAmerican(p) {
			t.Errorf("IsValidAmerican(%d) = false, want true", p)
		}
	}
	for _, p := range invalid {
		if oddsmath.IsValidAmerican(p) {
			t.Errorf("IsValidAmerican(%d) = true, want false", p)
		}
	}
	if got := oddsmath.NormalizePickem(-100); got != 100 {
		t.Errorf("NormalizePickem(-100) = %d, want 100", got)
	}
}

func TestFormatAmerican(t *testing.T) {
	if got := oddsmath.FormatAmerican(150); got != "+150" {
		t.Errorf("got %s", got)
	}
	if got := oddsmath.FormatAmerican(-110); got != "-110" {
		t.Errorf("got %s", got)
	}
}

func TestTrinityProbability(t *testing.T) {
	// Line at the mean: the two tails cancel and the median contributes 0.5
	got, err := oddsmath.TrinityProbability(20, 5, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("TrinityProbability at the mean = %f, want 0.5", got)
	}

	got, _ = oddsmath.TrinityProbability(25, 5, 20)
	if math.Abs(got-0.7769) > 0.001 {
		t.Errorf("TrinityProbability(25, 5, 20) = %f, want ~0.7769", got)
	}

	lower, _ := oddsmath.TrinityProbability(25, 5, 22)
	if lower >= got {
		t.Errorf("raising the line should lower the probability: %f >= %f", lower, got)
	}

	if _, err := oddsmath.TrinityProbability(25, 0, 20); err == nil {
		t.Error("expected error for zero standard deviation")
	}
}

func TestPoissonMatrix(t *testing.T) {
	home, draw, away, err := oddsmath.PoissonMatrix(1.8, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum := home + draw + away; math.Abs(sum-1) > 0.001 {
		t.Errorf("probabilities sum to %f", sum)
	}
	if home <= away {
		t.Errorf("stronger side should be favoured: home %f, away %f", home, away)
	}

	// 0-0 is the only outcome when neither side scores
	home, draw, away, _ = oddsmath.PoissonMatrix(0, 0)
	if draw != 1 || home != 0 || away != 0 {
		t.Errorf("PoissonMatrix(0, 0) = %f/%f/%f, want 0/1/0", home, draw, away)
	}

	if _, _, _, err := oddsmath.PoissonMatrix(-1, 1); err == nil {
		t.Error("expected error for negative xG")
	}
}
