// Package engine implements the minutes-normalization and statline-projection
// core: it selects which players will actually play, converges each team's
// minutes onto exactly 240 under role-based floors and caps, redistributes
// minutes vacated by injured players, and rescales box-score projections
// consistently with each player's minutes change. Manual overrides are ground
// truth throughout.
//
// The engine is pure and synchronous: all data fetching happens upstream and
// arrives as already-resolved inputs. It never returns user-facing errors;
// every edge case degenerates to a safe, fully-determined state.
package engine

// TeamResult summarizes one team side after a normalization pass.
type TeamResult struct {
	Side               Side    `json:"side"`
	TotalMinutes       float64 `json:"total_minutes"`
	ActiveCount        int     `json:"active_count"`
	MinPlayersRequired int     `json:"min_players_required"`
	// NoValidRoster is set when every player filtered out and there was
	// nothing left to allocate. Reportable, never fatal.
	NoValidRoster bool `json:"no_valid_roster"`
	// ShortCircuited is set when manual overrides already summed to the
	// target and all allocation steps were skipped.
	ShortCircuited bool `json:"short_circuited"`
}

// Result is the outcome of normalizing a full matchup.
type Result struct {
	Away TeamResult `json:"away"`
	Home TeamResult `json:"home"`
}

// Normalize runs the full pipeline over both teams of a matchup: availability
// filter, role-aware minutes allocation, stat rescaling, and derived-stat
// recomputation. Statlines are mutated in place. Running it again on an
// already-converged roster does not change any value.
func Normalize(statlines []*Statline, awayCtx, homeCtx *TeamContext) *Result {
	var away, home []*Statline
	for _, s := range statlines {
		if s.Side == SideAway {
			away = append(away, s)
		} else {
			home = append(home, s)
		}
	}
	return &Result{
		Away: NormalizeTeam(away, awayCtx, SideAway),
		Home: NormalizeTeam(home, homeCtx, SideHome),
	}
}

// NormalizeTeam normalizes a single 240-minute pool.
func NormalizeTeam(team []*Statline, ctx *TeamContext, side Side) TeamResult {
	result := TeamResult{
		Side:               side,
		MinPlayersRequired: ctx.minPlayers(),
	}
	if len(team) == 0 {
		result.NoValidRoster = true
		return result
	}

	// Seed the pass: record the role-baseline-derived starting point before
	// anything zeroes players out, so vacated minutes stay recoverable for
	// role-matched redistribution and the rescaler's fallback baseline.
	for _, s := range team {
		s.originalMinutes = s.Minutes
	}

	if shortCircuit(team) {
		for _, s := range team {
			if s.Overridden() {
				s.Minutes = *s.ManualOverrideMinutes
			}
		}
		result.ShortCircuited = true
	} else {
		applyAvailabilityFilter(team, ctx)
		allocateMinutes(team, ctx)
	}

	rescaleStats(team)

	active := activePlayers(team)
	result.ActiveCount = len(active)
	result.TotalMinutes = sumMinutes(active)
	result.NoValidRoster = len(active) == 0
	return result
}
