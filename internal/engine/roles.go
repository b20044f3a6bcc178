package engine

// RoleTier buckets a player by season-average minutes. Tier boundaries are
// half-open on the low end, so a 32.0 MPG player is a star.
type RoleTier int

const (
	RoleDeepBench RoleTier = iota
	RoleBench
	RoleRotation
	RoleStarter
	RoleStar
)

// Tier boundaries in baseline MPG.
const (
	starMinutesFloor     = 32.0
	starterMinutesFloor  = 28.0
	rotationMinutesFloor = 22.0
	benchMinutesFloor    = 15.0
)

// ClassifyRole maps baseline minutes to a tier. Pure, no failure modes.
func ClassifyRole(baselineMinutes float64) RoleTier {
	switch {
	case baselineMinutes >= starMinutesFloor:
		return RoleStar
	case baselineMinutes >= starterMinutesFloor:
		return RoleStarter
	case baselineMinutes >= rotationMinutesFloor:
		return RoleRotation
	case baselineMinutes >= benchMinutesFloor:
		return RoleBench
	default:
		return RoleDeepBench
	}
}

func (r RoleTier) String() string {
	switch r {
	case RoleStar:
		return "star"
	case RoleStarter:
		return "starter"
	case RoleRotation:
		return "rotation"
	case RoleBench:
		return "bench"
	default:
		return "deep_bench"
	}
}

// Cap is the per-game minutes ceiling enforced for non-overridden players.
func (r RoleTier) Cap() float64 {
	switch r {
	case RoleStar:
		return 40.0
	case RoleStarter:
		return 38.0
	case RoleRotation:
		return 32.0
	case RoleBench:
		return 25.0
	default:
		return 12.0
	}
}

// PriorityScore orders players for top-10 selection and for the
// minimum-rotation refill. Higher is better.
func (r RoleTier) PriorityScore() int {
	switch r {
	case RoleStar:
		return 100
	case RoleStarter:
		return 80
	case RoleRotation:
		return 60
	case RoleBench:
		return 40
	default:
		return 20
	}
}

// floorMinutes returns the allocation floor applied in the floor step, and
// whether the tier carries one. Only stars and starters get floors.
func (r RoleTier) floorMinutes(baselineMinutes float64) (float64, bool) {
	switch r {
	case RoleStar:
		return maxFloat(starMinutesFloor, baselineMinutes*0.85), true
	case RoleStarter:
		return maxFloat(26.0, baselineMinutes*0.85), true
	default:
		return 0, false
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
