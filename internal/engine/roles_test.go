package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRoleBoundaries(t *testing.T) {
	tests := []struct {
		minutes float64
		want    RoleTier
	}{
		{36.0, RoleStar},
		{32.0, RoleStar},
		{31.9, RoleStarter},
		{28.0, RoleStarter},
		{27.9, RoleRotation},
		{22.0, RoleRotation},
		{21.9, RoleBench},
		{15.0, RoleBench},
		{14.9, RoleDeepBench},
		{0, RoleDeepBench},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRole(tt.minutes), "minutes %.1f", tt.minutes)
	}
}

func TestRoleCaps(t *testing.T) {
	assert.Equal(t, 40.0, RoleStar.Cap())
	assert.Equal(t, 38.0, RoleStarter.Cap())
	assert.Equal(t, 32.0, RoleRotation.Cap())
	assert.Equal(t, 25.0, RoleBench.Cap())
	assert.Equal(t, 12.0, RoleDeepBench.Cap())
}

func TestRolePriorityOrdering(t *testing.T) {
	tiers := []RoleTier{RoleStar, RoleStarter, RoleRotation, RoleBench, RoleDeepBench}
	for i := 0; i < len(tiers)-1; i++ {
		assert.Greater(t, tiers[i].PriorityScore(), tiers[i+1].PriorityScore())
	}
}

func TestFloorMinutes(t *testing.T) {
	// Star floor is the larger of 32 and 85% of baseline.
	floor, ok := RoleStar.floorMinutes(36)
	assert.True(t, ok)
	assert.Equal(t, 32.0, floor)

	floor, ok = RoleStar.floorMinutes(40)
	assert.True(t, ok)
	assert.Equal(t, 34.0, floor)

	// Starter floor is the larger of 26 and 85% of baseline.
	floor, ok = RoleStarter.floorMinutes(28)
	assert.True(t, ok)
	assert.Equal(t, 26.0, floor)

	floor, ok = RoleStarter.floorMinutes(31)
	assert.True(t, ok)
	assert.InDelta(t, 26.35, floor, 0.001)

	// Lower tiers carry no floor.
	for _, tier := range []RoleTier{RoleRotation, RoleBench, RoleDeepBench} {
		_, ok := tier.floorMinutes(20)
		assert.False(t, ok)
	}
}

func TestRoleStrings(t *testing.T) {
	assert.Equal(t, "star", RoleStar.String())
	assert.Equal(t, "starter", RoleStarter.String())
	assert.Equal(t, "rotation", RoleRotation.String())
	assert.Equal(t, "bench", RoleBench.String())
	assert.Equal(t, "deep_bench", RoleDeepBench.String())
}
