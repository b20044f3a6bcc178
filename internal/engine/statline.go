package engine

// Stat identifies a box-score or derived stat category.
type Stat string

const (
	StatPoints     Stat = "PTS"
	StatRebounds   Stat = "REB"
	StatAssists    Stat = "AST"
	StatSteals     Stat = "STL"
	StatBlocks     Stat = "BLK"
	StatTurnovers  Stat = "TOV"
	StatThreesMade Stat = "FG3M"
	StatFTMade     Stat = "FTM"

	StatPRA           Stat = "PRA"
	StatReboundsAst   Stat = "RA"
	StatFantasyPoints Stat = "FPTS"
)

// BoxScoreStats are the categories subject to minutes-based rescaling.
var BoxScoreStats = []Stat{
	StatPoints, StatRebounds, StatAssists, StatSteals,
	StatBlocks, StatTurnovers, StatThreesMade, StatFTMade,
}

// DerivedStatNames are recomputed from the box-score stats after rescaling.
var DerivedStatNames = []Stat{StatPRA, StatReboundsAst, StatFantasyPoints}

// Side selects which of the two 240-minute pools a player draws from.
type Side string

const (
	SideAway Side = "away"
	SideHome Side = "home"
)

const (
	// TargetTeamMinutes is the total each team converges to.
	TargetTeamMinutes = 240.0
	// MinutesTolerance is the absolute tolerance for all comparisons against
	// the target and against role thresholds.
	MinutesTolerance = 0.01
	// MaxActivePlayers is the hard per-team cap on projected players.
	MaxActivePlayers = 10
	// MaxPlayerMinutes bounds any single allocation.
	MaxPlayerMinutes = 48.0

	// placeholderMinutes seeds a player pulled back in to satisfy the
	// minimum rotation size; the allocator normalizes it afterward.
	placeholderMinutes = 5.0

	// statScalingRate dampens stat rescaling to 80% of the direct minutes
	// ratio, reflecting diminishing returns. Tuned empirically; keep as is.
	statScalingRate = 0.8
)

// Statline is the working projection record for one player in one game. It is
// mutated in place through the availability filter, minutes allocator, and
// stat rescaler. BaselineStats is the immutable source for every rescale so
// repeated passes never compound.
type Statline struct {
	PlayerID   string
	PlayerName string
	Side       Side

	// Minutes is the current working allocation, always in [0, 48].
	Minutes float64
	// BaselineMinutes is the season-average MPG: the role-classifier input
	// and the stat-rescaling reference. Immutable once set.
	BaselineMinutes float64
	// BaselineStats maps stat name to the predicted per-game value before
	// any minutes adjustment or injury multiplier. Immutable once set.
	BaselineStats map[Stat]float64
	// InjuryMultipliers optionally adjusts stats for teammate/opponent
	// injuries, applied after minutes-based rescaling.
	InjuryMultipliers map[Stat]float64
	// InjuryAdjustedMinutes is the upstream injury-boosted minutes
	// expectation; when > 0 it becomes the rescaling baseline so the boost
	// is not scaled twice. Zero means unset.
	InjuryAdjustedMinutes float64
	// ManualOverrideMinutes, when non-nil, exempts the player from every
	// automatic scaling, flooring, capping, and redistribution step.
	ManualOverrideMinutes *float64

	// Role is derived from BaselineMinutes at construction and never
	// mutated afterward.
	Role RoleTier

	CurrentStats map[Stat]float64
	DerivedStats map[Stat]float64

	// ExcludedNoGames marks a player with zero game logs this season; such
	// players are never reintroduced by the minimum-rotation refill.
	ExcludedNoGames bool

	// originalMinutes is the role-baseline-derived starting allocation,
	// seeded at the top of each normalization pass.
	originalMinutes float64
}

// NewStatline builds a roster entry from baseline prediction output. The
// initial working minutes equal the baseline minutes; callers with an
// injury-adjusted expectation overwrite Minutes and set
// InjuryAdjustedMinutes before normalizing.
func NewStatline(playerID, playerName string, side Side, baselineMinutes float64, baselineStats map[Stat]float64) *Statline {
	return &Statline{
		PlayerID:        playerID,
		PlayerName:      playerName,
		Side:            side,
		Minutes:         baselineMinutes,
		BaselineMinutes: baselineMinutes,
		BaselineStats:   baselineStats,
		Role:            ClassifyRole(baselineMinutes),
		CurrentStats:    make(map[Stat]float64),
		DerivedStats:    make(map[Stat]float64),
	}
}

// Overridden reports whether the user pinned this player's minutes.
func (s *Statline) Overridden() bool {
	return s.ManualOverrideMinutes != nil
}

// SetManualOverride pins minutes to v, clamped to [0, 48].
func (s *Statline) SetManualOverride(v float64) {
	if v < 0 {
		v = 0
	}
	if v > MaxPlayerMinutes {
		v = MaxPlayerMinutes
	}
	s.ManualOverrideMinutes = &v
}

// ClearManualOverride removes the pin; the next pass reallocates freely.
func (s *Statline) ClearManualOverride() {
	s.ManualOverrideMinutes = nil
}

// Active reports whether the player currently projects to play.
func (s *Statline) Active() bool {
	return s.Minutes > MinutesTolerance
}

func sumMinutes(players []*Statline) float64 {
	total := 0.0
	for _, s := range players {
		total += s.Minutes
	}
	return total
}

func activePlayers(players []*Statline) []*Statline {
	active := make([]*Statline, 0, len(players))
	for _, s := range players {
		if s.Active() {
			active = append(active, s)
		}
	}
	return active
}
