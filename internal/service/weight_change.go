// internal/service/weight_change.go
package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// WeightChangeThresholdPercent is the weight-change magnitude (in percent)
// that triggers an automatic plan regeneration. Domain policy constant.
const WeightChangeThresholdPercent = 2.0

// ErrZeroBaseline means the prior weight reading was zero, so a percentage
// change cannot be computed.
var ErrZeroBaseline = errors.New("baseline weight is zero, percent change is undefined")

// WeightChange is the outcome of comparing two consecutive weight readings.
type WeightChange struct {
	OldKg     float64
	NewKg     float64
	Percent   float64
	Triggered bool
}

// DetectWeightChange compares a new weight reading against the prior one and
// decides whether the change warrants an automatic plan regeneration.
// Fails with ErrZeroBaseline for a zero prior weight rather than producing
// Inf/NaN.
func DetectWeightChange(oldKg, newKg float64) (WeightChange, error) {
	if oldKg == 0 {
		return WeightChange{}, ErrZeroBaseline
	}
	percent := (newKg - oldKg) / oldKg * 100
	return WeightChange{
		OldKg:     oldKg,
		NewKg:     newKg,
		Percent:   percent,
		Triggered: math.Abs(percent) >= WeightChangeThresholdPercent,
	}, nil
}

// Reason renders the human-readable explanation stored on an automatically
// regenerated plan, e.g.
// "Automatic adjustment due to a +2.5% weight change (from 80kg to 82kg)."
func (c WeightChange) Reason() string {
	return fmt.Sprintf(
		"Automatic adjustment due to a %+.1f%% weight change (from %skg to %skg).",
		c.Percent, formatKg(c.OldKg), formatKg(c.NewKg),
	)
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
