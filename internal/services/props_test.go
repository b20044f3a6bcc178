package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyLean(t *testing.T) {
	tests := []struct {
		diff float64
		want string
	}{
		{2.0, LeanStrongOver},
		{1.5, LeanStrongOver},
		{1.0, LeanOver},
		{0.5, LeanOver},
		{0.4, LeanPush},
		{0, LeanPush},
		{-0.4, LeanPush},
		{-0.5, LeanUnder},
		{-1.4, LeanUnder},
		{-1.5, LeanStrongUnder},
		{-3.0, LeanStrongUnder},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyLean(tt.diff), "diff %.1f", tt.diff)
	}
}

func TestImpliedProbability(t *testing.T) {
	assert.InDelta(t, 52.4, ImpliedProbability(-110), 0.05)
	assert.InDelta(t, 40.0, ImpliedProbability(150), 0.05)
	assert.InDelta(t, 66.7, ImpliedProbability(-200), 0.05)
	assert.Zero(t, ImpliedProbability(0))
}

func TestStatValueChecksBothMaps(t *testing.T) {
	p := &PlayerProjection{
		Stats:        map[string]float64{"PTS": 25.5},
		DerivedStats: map[string]float64{"PRA": 40.1},
	}

	v, ok := statValue(p, "PTS")
	assert.True(t, ok)
	assert.Equal(t, 25.5, v)

	v, ok = statValue(p, "PRA")
	assert.True(t, ok)
	assert.Equal(t, 40.1, v)

	_, ok = statValue(p, "FG3M")
	assert.False(t, ok)
}
