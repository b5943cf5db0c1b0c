// ABOUTME: Tests for the RTP configuration profile
// ABOUTME: Covers presets, validation, off-total warnings, and field-by-field edits
package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsSumToHundred(t *testing.T) {
	for _, s := range Strategies {
		p, err := PresetProfile(s)
		require.NoError(t, err)
		assert.Equal(t, s, p.Strategy)
		assert.InDelta(t, 100, p.Weightings.Total(), 0.001, string(s))
		assert.Empty(t, p.Warnings(), string(s))
		assert.NoError(t, p.Validate(), string(s))
	}
}

func TestDefaultProfileIsBalanced(t *testing.T) {
	assert.Equal(t, StrategyBalanced, DefaultProfile().Strategy)
}

func TestPresetProfileUnknown(t *testing.T) {
	_, err := PresetProfile("yolo")
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestOffTotalProfileWarnsButValidates(t *testing.T) {
	p := DefaultProfile()
	p.Weightings.DealSize = 10

	assert.NoError(t, p.Validate())
	warnings := p.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "85.0%")
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	p := DefaultProfile()
	p.Weightings.Urgency = 140
	p.Thresholds.MinCloseProbability = -5

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Urgency")
	assert.Contains(t, err.Error(), "MinCloseProbability")
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	p := DefaultProfile()
	p.Strategy = "whatever"
	assert.Error(t, p.Validate())
}

func TestSetMarksCustom(t *testing.T) {
	p := DefaultProfile()

	require.NoError(t, p.Set("weightings.deal_size", "40%"))
	assert.Equal(t, 40.0, p.Weightings.DealSize)
	assert.Equal(t, StrategyCustom, p.Strategy)

	require.NoError(t, p.Set("priorities.near_close", "false"))
	assert.False(t, p.Priorities.NearClose)

	require.NoError(t, p.Set("thresholds.max_days_to_close", "45"))
	assert.Equal(t, 45, p.Thresholds.MaxDaysToClose)
}

func TestSetErrors(t *testing.T) {
	p := DefaultProfile()

	err := p.Set("weightings.vibes", "10")
	assert.True(t, errors.Is(err, ErrUnknownField))
	assert.Error(t, p.Set("weightings.urgency", "lots"))
	assert.Error(t, p.Set("priorities.near_close", "maybe"))
	assert.Equal(t, StrategyBalanced, p.Strategy, "failed edits leave the strategy alone")
}
