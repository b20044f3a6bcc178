package engine

// allocateMinutes converges one team's working minutes onto exactly 240,
// respecting role floors and caps, redistributing minutes vacated by injured
// players to matching roles, and never touching manually-overridden players.
//
// The caller has already seeded originalMinutes and run the availability
// filter, so every statline here is either active, overridden, or zeroed.
func allocateMinutes(team []*Statline, ctx *TeamContext) {
	// Manual overrides are ground truth before anything else runs.
	for _, s := range team {
		if s.Overridden() {
			s.Minutes = *s.ManualOverrideMinutes
		}
	}

	active := activePlayers(team)
	if len(active) == 0 {
		return
	}
	total := sumMinutes(active)
	if total <= 0 {
		return
	}

	// Tier membership is fixed for the whole pass; players added or zeroed
	// later are re-grouped by the enforcement helpers.
	groups := groupByTier(active)
	stars := groups[RoleStar]
	starters := groups[RoleStarter]
	lowerTiers := append(append(append([]*Statline{}, groups[RoleRotation]...), groups[RoleBench]...), groups[RoleDeepBench]...)

	scaleTowardTarget(active, total)
	applyRoleFloors(stars, starters)
	correctFloorOverflow(active, stars, starters, lowerTiers)
	applyRoleCaps(active)
	redistributeSlack(team, active, groups, ctx)
	correctFinalTotal(active, stars, starters, lowerTiers)

	// Hard player-count enforcement, once after the main algorithm and once
	// more as the absolute last check.
	enforcePlayerCount(team, ctx)
	enforceExactTotal(team)
	enforcePlayerCount(team, ctx)
	enforceExactTotal(team)
}

// shortCircuit reports whether the team is already converged: at least one
// manual override exists and current minutes, with overrides as ground truth
// for their players, already sum to the target.
func shortCircuit(team []*Statline) bool {
	hasOverride := false
	total := 0.0
	for _, s := range team {
		if s.Overridden() {
			hasOverride = true
			total += *s.ManualOverrideMinutes
		} else {
			total += s.Minutes
		}
	}
	return hasOverride && absFloat(total-TargetTeamMinutes) < MinutesTolerance
}

// scaleTowardTarget proportionally scales non-overridden players so the team
// sums to the target. With overrides present, only the remainder after the
// overridden total is distributed; an override of zero locks the player at
// zero and contributes nothing.
func scaleTowardTarget(active []*Statline, total float64) {
	manual, others := splitManual(active)
	if len(manual) == 0 {
		factor := TargetTeamMinutes / total
		for _, s := range active {
			s.Minutes *= factor
		}
		return
	}

	manualTotal := 0.0
	for _, s := range manual {
		if s.Minutes > MinutesTolerance {
			manualTotal += s.Minutes
		} else {
			s.Minutes = 0
		}
	}

	remaining := TargetTeamMinutes - manualTotal
	if remaining <= 0 {
		// Overrides meet or exceed the target on their own: the user's
		// explicit intent, accepted silently.
		for _, s := range others {
			s.Minutes = 0
		}
		return
	}

	otherTotal := sumMinutes(others)
	if otherTotal > 0 {
		factor := remaining / otherTotal
		for _, s := range others {
			s.Minutes *= factor
		}
	}
}

// applyRoleFloors raises stars and starters toward their baselines. Floors
// never apply to overridden players.
func applyRoleFloors(stars, starters []*Statline) {
	for _, group := range [][]*Statline{stars, starters} {
		for _, s := range group {
			if s.Overridden() {
				continue
			}
			if floor, ok := s.Role.floorMinutes(s.BaselineMinutes); ok && s.Minutes < floor {
				s.Minutes = floor
			}
		}
	}
}

// correctFloorOverflow walks back any excess the floors introduced: first by
// shaving up to half off the lower tiers, then, if that is not enough, by a
// flat 5% reduction on stars/starters followed by rescaling the lower tiers.
func correctFloorOverflow(active, stars, starters, lowerTiers []*Statline) {
	excess := sumMinutes(active) - TargetTeamMinutes
	if excess <= 0 {
		return
	}

	reducible := 0.0
	for _, s := range lowerTiers {
		if s.Overridden() {
			continue
		}
		reducible += s.Minutes * 0.5
	}

	if reducible >= excess {
		factor := 1.0 - excess/reducible
		for _, s := range lowerTiers {
			if s.Overridden() {
				continue
			}
			s.Minutes *= factor
		}
		return
	}

	for _, group := range [][]*Statline{stars, starters} {
		for _, s := range group {
			if s.Overridden() {
				continue
			}
			s.Minutes *= 0.95
		}
	}

	if current := sumMinutes(active); current > TargetTeamMinutes {
		factor := TargetTeamMinutes / current
		for _, s := range lowerTiers {
			if s.Overridden() {
				continue
			}
			s.Minutes *= factor
		}
	}
}

// applyRoleCaps clamps every non-overridden player to their tier ceiling.
func applyRoleCaps(active []*Statline) {
	for _, s := range active {
		if s.Overridden() {
			continue
		}
		if cap := s.Role.Cap(); s.Minutes > cap {
			s.Minutes = cap
		}
	}
}

// redistributeSlack hands out any shortfall against the target, preferring
// the same role tier vacated by OUT/DOUBTFUL players, then falling back to
// proportional distribution across tiers in priority order.
func redistributeSlack(team, active []*Statline, groups map[RoleTier][]*Statline, ctx *TeamContext) {
	remaining := TargetTeamMinutes - sumMinutes(active)
	if remaining <= MinutesTolerance {
		return
	}

	injuredByRole := vacatedMinutesByRole(team, ctx)
	distributed := 0.0

	// Role-matched pass: injured minutes go to survivors of the same tier.
	for _, tier := range []RoleTier{RoleStar, RoleStarter, RoleRotation, RoleBench, RoleDeepBench} {
		injured := injuredByRole[tier]
		if injured <= MinutesTolerance || absFloat(remaining-distributed) <= MinutesTolerance {
			continue
		}
		available := belowCap(groups[tier])
		if len(available) == 0 {
			continue
		}
		toGive := minFloat(injured, remaining-distributed)
		distributed += distributeProportionally(available, toGive)
	}

	// Fallback: remaining slack flows to the highest tiers first.
	for _, tier := range []RoleTier{RoleStar, RoleStarter, RoleRotation, RoleBench, RoleDeepBench} {
		if absFloat(remaining-distributed) < MinutesTolerance {
			break
		}
		available := belowCap(groups[tier])
		if len(available) == 0 {
			continue
		}
		distributed += distributeProportionally(available, remaining-distributed)
	}
}

// vacatedMinutesByRole totals the pre-filter allocations of players ruled
// OUT/DOUBTFUL, keyed by the tier they vacated.
func vacatedMinutesByRole(team []*Statline, ctx *TeamContext) map[RoleTier]float64 {
	vacated := make(map[RoleTier]float64)
	for _, s := range team {
		if !ctx.ruledOut(s.PlayerID) {
			continue
		}
		if s.originalMinutes > 0 {
			vacated[s.Role] += s.originalMinutes
		}
	}
	return vacated
}

// belowCap filters a tier group to non-overridden players with cap headroom.
func belowCap(group []*Statline) []*Statline {
	out := make([]*Statline, 0, len(group))
	for _, s := range group {
		if s.Overridden() {
			continue
		}
		if s.Minutes < s.Role.Cap()-MinutesTolerance {
			out = append(out, s)
		}
	}
	return out
}

// distributeProportionally shares amount across players in proportion to
// their current minutes, clamping at each player's cap, and returns how much
// was actually absorbed.
func distributeProportionally(players []*Statline, amount float64) float64 {
	groupTotal := sumMinutes(players)
	if groupTotal <= 0 || amount <= 0 {
		return 0
	}
	absorbed := 0.0
	for _, s := range players {
		additional := amount * (s.Minutes / groupTotal)
		before := s.Minutes
		s.Minutes = minFloat(s.Minutes+additional, s.Role.Cap())
		absorbed += s.Minutes - before
	}
	return absorbed
}

// correctFinalTotal performs one more proportional correction if the team is
// still off target, protecting stars/starters from dropping below 90% of
// their baseline and fully excluding overridden players from the scaling.
func correctFinalTotal(active, stars, starters, lowerTiers []*Statline) {
	finalTotal := sumMinutes(active)
	if absFloat(finalTotal-TargetTeamMinutes) <= MinutesTolerance {
		return
	}

	nonManualTotal := 0.0
	for _, s := range active {
		if !s.Overridden() {
			nonManualTotal += s.Minutes
		}
	}
	manualTotal := finalTotal - nonManualTotal
	remainingTarget := TargetTeamMinutes - manualTotal

	if finalTotal > TargetTeamMinutes {
		excess := finalTotal - TargetTeamMinutes

		lowerTotal := 0.0
		for _, s := range lowerTiers {
			if !s.Overridden() {
				lowerTotal += s.Minutes
			}
		}
		if lowerTotal >= excess {
			if lowerTotal > 0 {
				factor := (lowerTotal - excess) / lowerTotal
				for _, s := range lowerTiers {
					if !s.Overridden() {
						s.Minutes *= factor
					}
				}
			}
			return
		}

		if nonManualTotal > 0 && remainingTarget > 0 {
			factor := remainingTarget / nonManualTotal
			for _, group := range [][]*Statline{stars, starters} {
				for _, s := range group {
					if s.Overridden() {
						continue
					}
					// The 90%-of-baseline protection limits the reduction;
					// it never raises a player who is already below it.
					protected := maxFloat(s.Minutes*factor, s.BaselineMinutes*0.90)
					s.Minutes = minFloat(s.Minutes, protected)
				}
			}
		}
		remaining := TargetTeamMinutes - sumMinutes(active)
		if absFloat(remaining) > MinutesTolerance {
			otherTotal := 0.0
			for _, s := range lowerTiers {
				if !s.Overridden() {
					otherTotal += s.Minutes
				}
			}
			if otherTotal > 0 {
				factor := (otherTotal + remaining) / otherTotal
				if factor < 0 {
					factor = 0
				}
				for _, s := range lowerTiers {
					if !s.Overridden() {
						s.Minutes *= factor
					}
				}
			}
		}
		return
	}

	// Under target: scale non-overridden players up, then reapply caps.
	if nonManualTotal > 0 && remainingTarget > 0 {
		factor := remainingTarget / nonManualTotal
		for _, s := range active {
			if s.Overridden() {
				continue
			}
			s.Minutes *= factor
			if cap := s.Role.Cap(); s.Minutes > cap {
				s.Minutes = cap
			}
		}
	}
}

// enforcePlayerCount is the hard safety net: never more than 10 active, never
// fewer than the minimum rotation size while eligible players remain.
func enforcePlayerCount(team []*Statline, ctx *TeamContext) {
	capActiveAtTen(team)

	needed := ctx.minPlayers() - len(activePlayers(team))
	if needed <= 0 {
		return
	}
	pool := refillPool(team, ctx)
	for i := 0; i < needed && i < len(pool); i++ {
		pool[i].Minutes = placeholderMinutes
	}
}

// enforceExactTotal scales non-overridden players so the team sums to exactly
// the target. It honors caps while headroom exists and only exceeds them as a
// last resort, because landing on 240 outranks every other constraint.
func enforceExactTotal(team []*Statline) {
	active := activePlayers(team)
	if len(active) == 0 {
		return
	}

	manualTotal := 0.0
	nonManual := make([]*Statline, 0, len(active))
	for _, s := range active {
		if s.Overridden() {
			manualTotal += s.Minutes
		} else {
			nonManual = append(nonManual, s)
		}
	}

	target := TargetTeamMinutes - manualTotal
	nonManualTotal := sumMinutes(nonManual)
	if len(nonManual) == 0 || absFloat(nonManualTotal-target) <= MinutesTolerance {
		return
	}
	if target <= 0 {
		for _, s := range nonManual {
			s.Minutes = 0
		}
		return
	}
	if nonManualTotal <= 0 {
		return
	}

	if nonManualTotal > target {
		factor := target / nonManualTotal
		for _, s := range nonManual {
			s.Minutes *= factor
		}
		return
	}

	// Scale up with caps: hand the deficit to players with headroom, a few
	// passes until it is absorbed or nobody has room left.
	for i := 0; i < len(nonManual); i++ {
		deficit := target - sumMinutes(nonManual)
		if deficit <= MinutesTolerance {
			return
		}
		open := belowCap(nonManual)
		if len(open) == 0 {
			break
		}
		distributeProportionally(open, deficit)
	}

	// Everyone is capped and the team is still short: exceed caps rather
	// than leave the total off target.
	deficit := target - sumMinutes(nonManual)
	if deficit > MinutesTolerance {
		factor := target / sumMinutes(nonManual)
		for _, s := range nonManual {
			s.Minutes = minFloat(s.Minutes*factor, MaxPlayerMinutes)
		}
	}
}

func groupByTier(players []*Statline) map[RoleTier][]*Statline {
	groups := make(map[RoleTier][]*Statline)
	for _, s := range players {
		groups[s.Role] = append(groups[s.Role], s)
	}
	return groups
}

func splitManual(players []*Statline) (manual, others []*Statline) {
	for _, s := range players {
		if s.Overridden() {
			manual = append(manual, s)
		} else {
			others = append(others, s)
		}
	}
	return manual, others
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
