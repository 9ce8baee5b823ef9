package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectWeightChange(t *testing.T) {
	tests := []struct {
		name          string
		oldKg         float64
		newKg         float64
		wantPercent   float64
		wantTriggered bool
	}{
		{name: "gain above threshold", oldKg: 80, newKg: 82, wantPercent: 2.5, wantTriggered: true},
		{name: "loss above threshold", oldKg: 80, newKg: 78, wantPercent: -2.5, wantTriggered: true},
		{name: "gain below threshold", oldKg: 80, newKg: 81, wantPercent: 1.25, wantTriggered: false},
		{name: "exactly at threshold", oldKg: 100, newKg: 102, wantPercent: 2.0, wantTriggered: true},
		{name: "exactly at negative threshold", oldKg: 100, newKg: 98, wantPercent: -2.0, wantTriggered: true},
		{name: "no change", oldKg: 75.5, newKg: 75.5, wantPercent: 0, wantTriggered: false},
		{name: "just under threshold", oldKg: 100, newKg: 101.9, wantPercent: 1.9, wantTriggered: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := DetectWeightChange(tt.oldKg, tt.newKg)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantPercent, change.Percent, 1e-9)
			assert.Equal(t, tt.wantTriggered, change.Triggered)
			assert.Equal(t, tt.oldKg, change.OldKg)
			assert.Equal(t, tt.newKg, change.NewKg)
		})
	}
}

func TestDetectWeightChange_ZeroBaseline(t *testing.T) {
	_, err := DetectWeightChange(0, 82)
	require.ErrorIs(t, err, ErrZeroBaseline)
}

func TestWeightChange_Reason(t *testing.T) {
	change, err := DetectWeightChange(80, 82)
	require.NoError(t, err)
	assert.Equal(t,
		"Automatic adjustment due to a +2.5% weight change (from 80kg to 82kg).",
		change.Reason(),
	)

	change, err = DetectWeightChange(80, 78)
	require.NoError(t, err)
	assert.Equal(t,
		"Automatic adjustment due to a -2.5% weight change (from 80kg to 78kg).",
		change.Reason(),
	)
}

func TestWeightChange_ReasonRounding(t *testing.T) {
	// 1.25 kg on 60 kg is ~2.0833%, rendered to one decimal.
	change, err := DetectWeightChange(60, 61.25)
	require.NoError(t, err)
	assert.Equal(t,
		"Automatic adjustment due to a +2.1% weight change (from 60kg to 61.25kg).",
		change.Reason(),
	)
}
