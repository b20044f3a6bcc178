package engine

import "sort"

// TeamContext carries the already-resolved availability inputs for one team
// side: who is ruled out, who has played recently, and how many players the
// team is expected to rotate. All fields are optional; a nil or zero-value
// context disables the corresponding check.
type TeamContext struct {
	// OutPlayerIDs holds players ruled OUT or DOUBTFUL for the matchup.
	OutPlayerIDs map[string]bool
	// HasGameLogData gates the recent-activity checks; when false the
	// activity maps are ignored (a data gap must not zero the roster).
	HasGameLogData bool
	// PlayersWithGames holds players with at least one game log this
	// season. Players absent from this set are excluded outright and never
	// reintroduced.
	PlayersWithGames map[string]bool
	// ActiveLast14Days holds players who appeared in a game within 14 days
	// of the target date.
	ActiveLast14Days map[string]bool
	// MinPlayersRequired is 8 when the team's recent games show an 8-man
	// rotation, else 9. Zero means use the default of 9.
	MinPlayersRequired int
}

const defaultMinPlayersRequired = 9

func (c *TeamContext) minPlayers() int {
	if c == nil || c.MinPlayersRequired <= 0 {
		return defaultMinPlayersRequired
	}
	return c.MinPlayersRequired
}

func (c *TeamContext) ruledOut(playerID string) bool {
	return c != nil && c.OutPlayerIDs[playerID]
}

func (c *TeamContext) activeRecently(playerID string) bool {
	return c != nil && c.ActiveLast14Days[playerID]
}

// applyAvailabilityFilter zeroes out players who should not be projected to
// play, then limits the team to at most 10 and refills to the minimum
// rotation size. Manually-overridden players are ground truth and are never
// zeroed here.
func applyAvailabilityFilter(team []*Statline, ctx *TeamContext) {
	// Rule 1: OUT/DOUBTFUL players do not play.
	for _, s := range team {
		if s.Overridden() {
			continue
		}
		if ctx.ruledOut(s.PlayerID) {
			s.Minutes = 0
		}
	}

	// Rules 2 and 3: recent-activity checks, only when game log data exists.
	if ctx != nil && ctx.HasGameLogData {
		for _, s := range team {
			if s.Overridden() {
				continue
			}
			if !ctx.PlayersWithGames[s.PlayerID] {
				// Never played this season: exclude outright, regardless
				// of role, and keep them out of any later refill.
				s.Minutes = 0
				s.ExcludedNoGames = true
				continue
			}
			if !ctx.activeRecently(s.PlayerID) && s.BaselineMinutes < rotationMinutesFloor {
				s.Minutes = 0
			}
		}
	}

	// Rule 4: keep at most the top 10 by priority, stars and starters first.
	sortByPriority(team, ctx)
	limitToTopTen(team)

	// Rule 5: refill to the minimum rotation size from the zeroed pool.
	refillToMinimum(team, ctx)
}

// sortByPriority orders the team by role priority (with a small boost for
// recent activity) and then current minutes, both descending. The sort is
// stable so tied players keep their baseline order.
func sortByPriority(team []*Statline, ctx *TeamContext) {
	sort.SliceStable(team, func(i, j int) bool {
		pi, pj := priorityKey(team[i], ctx), priorityKey(team[j], ctx)
		if pi != pj {
			return pi > pj
		}
		return team[i].Minutes > team[j].Minutes
	})
}

func priorityKey(s *Statline, ctx *TeamContext) int {
	score := s.Role.PriorityScore()
	if ctx.activeRecently(s.PlayerID) {
		score += 5
	}
	return score
}

// limitToTopTen keeps stars/starters first, fills remaining slots with lower
// tiers in priority order, and zeroes everyone else. Overridden players are
// always kept. Assumes the team is already priority-sorted.
func limitToTopTen(team []*Statline) {
	keep := make(map[string]bool, MaxActivePlayers)

	// Overridden players occupy slots unconditionally.
	for _, s := range team {
		if s.Overridden() {
			keep[s.PlayerID] = true
		}
	}

	for _, s := range team {
		if len(keep) >= MaxActivePlayers {
			break
		}
		if s.Role >= RoleStarter && !keep[s.PlayerID] {
			keep[s.PlayerID] = true
		}
	}
	for _, s := range team {
		if len(keep) >= MaxActivePlayers {
			break
		}
		if !keep[s.PlayerID] {
			keep[s.PlayerID] = true
		}
	}

	for _, s := range team {
		if !keep[s.PlayerID] && !s.Overridden() {
			s.Minutes = 0
		}
	}

	// Double-check: never leave more than 10 with projected minutes.
	capActiveAtTen(team)
}

// capActiveAtTen zeroes everything beyond the top 10 by current minutes.
func capActiveAtTen(team []*Statline) {
	active := activePlayers(team)
	if len(active) <= MaxActivePlayers {
		return
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Minutes > active[j].Minutes
	})
	for _, s := range active[MaxActivePlayers:] {
		if !s.Overridden() {
			s.Minutes = 0
		}
	}
}

// refillToMinimum pulls zeroed players back in with a nominal placeholder
// allocation until the minimum rotation size is met. Players flagged
// ExcludedNoGames or ruled out stay out no matter what.
func refillToMinimum(team []*Statline, ctx *TeamContext) {
	need := ctx.minPlayers() - len(activePlayers(team))
	if need <= 0 {
		return
	}

	pool := refillPool(team, ctx)
	for i := 0; i < need && i < len(pool); i++ {
		pool[i].Minutes = placeholderMinutes
	}
}

// refillPool lists zeroed players eligible to be pulled back in, priority
// order.
func refillPool(team []*Statline, ctx *TeamContext) []*Statline {
	pool := make([]*Statline, 0, len(team))
	for _, s := range team {
		if !s.Active() && !s.ExcludedNoGames && !s.Overridden() && !ctx.ruledOut(s.PlayerID) {
			pool = append(pool, s)
		}
	}
	sortByPriority(pool, ctx)
	return pool
}
