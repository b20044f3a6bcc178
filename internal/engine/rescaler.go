package engine

// rescaleStats recomputes CurrentStats for every player from their immutable
// baseline, given the final minutes allocation. Starting from BaselineStats
// on every pass is what keeps repeated recomputation from compounding.
func rescaleStats(team []*Statline) {
	for _, s := range team {
		if s.Minutes <= MinutesTolerance {
			zeroStats(s)
			continue
		}

		baseline := scalingBaseline(s)
		factor := 1.0
		if baseline > 0 {
			ratio := s.Minutes / baseline
			factor = 1.0 + (ratio-1.0)*statScalingRate
		}

		if s.CurrentStats == nil {
			s.CurrentStats = make(map[Stat]float64, len(BoxScoreStats))
		}
		for _, stat := range BoxScoreStats {
			// A missing baseline stat is a call-up with no season data:
			// substitute zero and keep going.
			scaled := s.BaselineStats[stat] * factor
			if s.InjuryMultipliers != nil {
				if mult, ok := s.InjuryMultipliers[stat]; ok {
					scaled *= mult
				}
			}
			s.CurrentStats[stat] = scaled
		}

		computeDerivedStats(s)
	}
}

// scalingBaseline picks the expected-minutes reference for rescaling, in
// priority order: injury-adjusted minutes, season baseline, then the
// original allocation seeded at the start of the pass.
func scalingBaseline(s *Statline) float64 {
	if s.InjuryAdjustedMinutes > 0 {
		return s.InjuryAdjustedMinutes
	}
	if s.BaselineMinutes > 0 {
		return s.BaselineMinutes
	}
	if s.originalMinutes > 0 {
		return s.originalMinutes
	}
	return s.Minutes
}

func zeroStats(s *Statline) {
	if s.CurrentStats == nil {
		s.CurrentStats = make(map[Stat]float64, len(BoxScoreStats))
	}
	if s.DerivedStats == nil {
		s.DerivedStats = make(map[Stat]float64, len(DerivedStatNames))
	}
	for _, stat := range BoxScoreStats {
		s.CurrentStats[stat] = 0
	}
	for _, stat := range DerivedStatNames {
		s.DerivedStats[stat] = 0
	}
}

// computeDerivedStats recomputes the composite stats from CurrentStats.
// FPTS uses Underdog scoring.
func computeDerivedStats(s *Statline) {
	if s.DerivedStats == nil {
		s.DerivedStats = make(map[Stat]float64, len(DerivedStatNames))
	}
	pts := s.CurrentStats[StatPoints]
	reb := s.CurrentStats[StatRebounds]
	ast := s.CurrentStats[StatAssists]
	stl := s.CurrentStats[StatSteals]
	blk := s.CurrentStats[StatBlocks]
	tov := s.CurrentStats[StatTurnovers]

	s.DerivedStats[StatPRA] = pts + reb + ast
	s.DerivedStats[StatReboundsAst] = reb + ast
	s.DerivedStats[StatFantasyPoints] = pts + reb*1.2 + ast*1.5 + stl*3 + blk*3 - tov
}
