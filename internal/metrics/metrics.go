// Package metrics scores evaluation sessions.
//
// Calculate is pure and total. It performs no range checks: rejecting a
// non-positive duration or out-of-range sliders is the caller's job.
package metrics

import (
	"math"
	"strconv"
)

// Input carries the raw evaluation values.
type Input struct {
	RPE        float64
	Duration   float64
	Technique  float64
	Focus      float64
	Confidence float64
	Stress     float64
	Motivation float64
	Attempts   float64
}

// Scores are the derived values snapshotted onto an evaluation when it is saved.
type Scores struct {
	PhysicalLoad  float64 `json:"physicalLoad"`
	TechScore     float64 `json:"techScore"`
	MentalScore   float64 `json:"mentalScore"`
	SessionVolume float64 `json:"sessionVolume"`
}

const (
	mentalScoreMin = 0
	mentalScoreMax = 100
)

// Calculate derives the session scores from input.
//
//	physicalLoad  = round1(rpe * duration / 10)
//	techScore     = technique * 10
//	mentalScore   = round1(clamp(((focus + confidence + motivation) / 3 - stress / 2) * 10, 0, 100))
//	sessionVolume = round1(duration * attempts / 10)
func Calculate(input Input) Scores {
	mentalRaw := (input.Focus+input.Confidence+input.Motivation)/3 - input.Stress/2
	return Scores{
		PhysicalLoad:  Round1(input.RPE * input.Duration / 10),
		TechScore:     input.Technique * 10,
		MentalScore:   Round1(Clamp(mentalRaw*10, mentalScoreMin, mentalScoreMax)),
		SessionVolume: Round1(input.Duration * input.Attempts / 10),
	}
}

// Round1 rounds value to one decimal place.
//
// Rounding looks at the exact decimal expansion of the float64, so 0.35
// (stored as 0.34999...) becomes 0.3. Exact ties, which only occur for odd
// multiples of 0.25, round half away from zero: 2.25 becomes 2.3 and -0.25
// becomes -0.3. Negative zero is normalized to zero. NaN and infinities are
// returned unchanged.
func Round1(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	var rounded float64
	if isQuarterTie(value) {
		rounded = math.Round(value*10) / 10
	} else {
		// FormatFloat rounds the exact binary value correctly; only ties depend on mode.
		rounded, _ = strconv.ParseFloat(strconv.FormatFloat(value, 'f', 1, 64), 64)
	}
	if rounded == 0 {
		return 0
	}
	return rounded
}

func isQuarterTie(value float64) bool {
	quarters := value * 4
	if quarters != math.Trunc(quarters) || math.Abs(quarters) > 1<<52 {
		return false
	}
	return math.Mod(quarters, 2) != 0
}

// Clamp bounds value into [lo, hi]. NaN maps to lo.
func Clamp(value, lo, hi float64) float64 {
	if math.IsNaN(value) || value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
