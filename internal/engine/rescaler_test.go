package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRescaleDampensMinutesRatio(t *testing.T) {
	s := NewStatline("p1", "Player", SideAway, 30, map[Stat]float64{
		StatPoints:   20,
		StatRebounds: 6,
	})
	s.Minutes = 36 // ratio 1.2 -> factor 1 + 0.2*0.8 = 1.16

	rescaleStats([]*Statline{s})

	assert.InDelta(t, 23.2, s.CurrentStats[StatPoints], 0.001)
	assert.InDelta(t, 6.96, s.CurrentStats[StatRebounds], 0.001)
}

func TestRescaleDampensReductionsToo(t *testing.T) {
	s := NewStatline("p1", "Player", SideAway, 30, map[Stat]float64{
		StatPoints: 20,
	})
	s.Minutes = 15 // ratio 0.5 -> factor 1 - 0.5*0.8 = 0.6

	rescaleStats([]*Statline{s})

	assert.InDelta(t, 12.0, s.CurrentStats[StatPoints], 0.001)
}

func TestRescaleAlwaysStartsFromBaseline(t *testing.T) {
	s := NewStatline("p1", "Player", SideAway, 30, map[Stat]float64{
		StatPoints: 20,
	})
	s.Minutes = 36

	rescaleStats([]*Statline{s})
	first := s.CurrentStats[StatPoints]

	// A second pass at the same minutes must not compound.
	rescaleStats([]*Statline{s})
	assert.Equal(t, first, s.CurrentStats[StatPoints])
}

func TestRescaleZeroMinutesZeroesEverything(t *testing.T) {
	s := NewStatline("p1", "Player", SideAway, 30, map[Stat]float64{
		StatPoints:   20,
		StatRebounds: 6,
		StatAssists:  4,
	})
	s.Minutes = 0

	rescaleStats([]*Statline{s})

	for _, stat := range BoxScoreStats {
		assert.Zero(t, s.CurrentStats[stat], "stat %s", stat)
	}
	for _, stat := range DerivedStatNames {
		assert.Zero(t, s.DerivedStats[stat], "stat %s", stat)
	}
}

func TestRescaleMissingBaselineStatIsZero(t *testing.T) {
	s := NewStatline("p1", "Player", SideAway, 30, map[Stat]float64{
		StatPoints: 20,
	})
	s.Minutes = 30

	rescaleStats([]*Statline{s})

	assert.Zero(t, s.CurrentStats[StatBlocks])
	assert.Equal(t, 20.0, s.CurrentStats[StatPoints])
}

func TestInjuryMultipliersApplyAfterScaling(t *testing.T) {
	s := NewStatline("p1", "Player", SideAway, 30, map[Stat]float64{
		StatPoints: 20,
	})
	s.Minutes = 36
	s.InjuryMultipliers = map[Stat]float64{StatPoints: 1.1}

	rescaleStats([]*Statline{s})

	// 20 * 1.16 * 1.1
	assert.InDelta(t, 25.52, s.CurrentStats[StatPoints], 0.001)
}

func TestInjuryAdjustedMinutesAreTheScalingBaseline(t *testing.T) {
	// The upstream boost already moved minutes from 30 to 34; rescaling
	// from 34 keeps the boost from being counted twice.
	s := NewStatline("p1", "Player", SideAway, 30, map[Stat]float64{
		StatPoints: 20,
	})
	s.InjuryAdjustedMinutes = 34
	s.Minutes = 34

	rescaleStats([]*Statline{s})

	assert.InDelta(t, 20.0, s.CurrentStats[StatPoints], 0.001)
}

func TestDerivedStatsUseUnderdogScoring(t *testing.T) {
	s := NewStatline("p1", "Player", SideAway, 30, map[Stat]float64{
		StatPoints:    20,
		StatRebounds:  10,
		StatAssists:   5,
		StatSteals:    1,
		StatBlocks:    1,
		StatTurnovers: 3,
	})
	s.Minutes = 30

	rescaleStats([]*Statline{s})

	assert.InDelta(t, 35.0, s.DerivedStats[StatPRA], 0.001)
	assert.InDelta(t, 15.0, s.DerivedStats[StatReboundsAst], 0.001)
	// 20 + 10*1.2 + 5*1.5 + 3 + 3 - 3
	assert.InDelta(t, 42.5, s.DerivedStats[StatFantasyPoints], 0.001)
}

func TestScalingBaselinePriority(t *testing.T) {
	s := NewStatline("p1", "Player", SideAway, 28, nil)
	s.InjuryAdjustedMinutes = 33
	assert.Equal(t, 33.0, scalingBaseline(s))

	s.InjuryAdjustedMinutes = 0
	assert.Equal(t, 28.0, scalingBaseline(s))

	s.BaselineMinutes = 0
	s.originalMinutes = 24
	assert.Equal(t, 24.0, scalingBaseline(s))

	s.originalMinutes = 0
	s.Minutes = 18
	assert.Equal(t, 18.0, scalingBaseline(s))
}
