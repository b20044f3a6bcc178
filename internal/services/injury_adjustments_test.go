package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/courtsight/nba-dashboard/internal/engine"
)

func TestMinutesRedistributionNoTeammatesOut(t *testing.T) {
	assert.Zero(t, MinutesRedistribution(30, nil, nil))
	assert.Zero(t, MinutesRedistribution(30, []string{}, map[string]float64{}))
}

func TestMinutesRedistributionRoleBands(t *testing.T) {
	// A 30-minute starter is out; survivors absorb a share by their band.
	out := []string{"x"}
	byPlayer := map[string]float64{"x": 30}

	tests := []struct {
		playerMinutes float64
		want          float64
	}{
		{34, 5.4}, // star band: 18% of 30
		{29, 4.2}, // starter band: 14%
		{24, 3.0}, // rotation band: 10%
		{16, 2.4}, // bench band: 8%
		{10, 1.5}, // deep bench: 5%
	}
	for _, tt := range tests {
		got := MinutesRedistribution(tt.playerMinutes, out, byPlayer)
		assert.InDelta(t, tt.want, got, 0.001, "player at %.0f minutes", tt.playerMinutes)
	}
}

func TestMinutesRedistributionCapsPerBand(t *testing.T) {
	// Two stars out vacate 70 minutes; boosts clamp at the band cap.
	out := []string{"a", "b"}
	byPlayer := map[string]float64{"a": 36, "b": 34}

	assert.Equal(t, 6.0, MinutesRedistribution(34, out, byPlayer))
	assert.Equal(t, 5.0, MinutesRedistribution(29, out, byPlayer))
	assert.Equal(t, 8.0, MinutesRedistribution(10, out, byPlayer))
}

func TestUsageBoostStacksAndCaps(t *testing.T) {
	byPlayer := map[string]float64{
		"a": 36, // +0.08
		"b": 31, // +0.05
		"c": 26, // +0.03
		"d": 20, // +0.01
		"e": 12, // no boost
	}

	assert.InDelta(t, 1.08, UsageBoost([]string{"a"}, byPlayer), 0.001)
	assert.InDelta(t, 1.17, UsageBoost([]string{"a", "b", "c", "d", "e"}, byPlayer), 0.001)

	// Four stars out would push past the cap.
	many := map[string]float64{"a": 36, "b": 35, "c": 34, "d": 36}
	assert.Equal(t, 1.25, UsageBoost([]string{"a", "b", "c", "d"}, many))
}

func TestComputeInjuryAdjustmentSplitsUsage(t *testing.T) {
	out := []string{"star"}
	byPlayer := map[string]float64{"star": 36}

	adj := ComputeInjuryAdjustment(30, out, byPlayer)

	assert.InDelta(t, 4.2, adj.MinutesBoost, 0.001)
	// Scoring stats get the full boost, secondary stats half.
	assert.InDelta(t, 1.08, adj.Multipliers[engine.StatPoints], 0.001)
	assert.InDelta(t, 1.08, adj.Multipliers[engine.StatThreesMade], 0.001)
	assert.InDelta(t, 1.04, adj.Multipliers[engine.StatAssists], 0.001)
	assert.InDelta(t, 1.04, adj.Multipliers[engine.StatRebounds], 0.001)
	assert.Equal(t, 1.0, adj.Multipliers[engine.StatSteals])
}

func TestComputeInjuryAdjustmentNoInjuries(t *testing.T) {
	adj := ComputeInjuryAdjustment(30, nil, nil)

	assert.Zero(t, adj.MinutesBoost)
	for stat, mult := range adj.Multipliers {
		assert.Equal(t, 1.0, mult, "stat %s", stat)
	}
}
