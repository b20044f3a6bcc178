package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLine builds a statline with box-score baselines roughly proportional to
// the player's minutes, which is close enough to real rosters for the
// allocator's purposes.
func testLine(id string, minutes float64) *Statline {
	return NewStatline(id, "Player "+id, SideAway, minutes, map[Stat]float64{
		StatPoints:     minutes * 0.7,
		StatRebounds:   minutes * 0.22,
		StatAssists:    minutes * 0.15,
		StatSteals:     minutes * 0.03,
		StatBlocks:     minutes * 0.02,
		StatTurnovers:  minutes * 0.06,
		StatThreesMade: minutes * 0.07,
		StatFTMade:     minutes * 0.12,
	})
}

// fullRoster is a realistic 12-man depth chart: three stars, two starters,
// two rotation players, two bench, three deep bench.
func fullRoster() []*Statline {
	minutes := []float64{36, 34, 32, 30, 28, 26, 24, 20, 16, 12, 8, 4}
	team := make([]*Statline, 0, len(minutes))
	for i, m := range minutes {
		team = append(team, testLine(fmt.Sprintf("p%02d", i+1), m))
	}
	return team
}

// starHeavyRoster is a degenerate depth chart whose star floors alone exceed
// the 240 target: eight 34-MPG stars plus two deep-bench players.
func starHeavyRoster() []*Statline {
	team := make([]*Statline, 0, 10)
	for i := 0; i < 8; i++ {
		team = append(team, testLine(fmt.Sprintf("s%02d", i+1), 34))
	}
	team = append(team, testLine("b01", 10), testLine("b02", 10))
	return team
}

func totalOf(team []*Statline) float64 {
	return sumMinutes(activePlayers(team))
}

func TestNormalizeTeamConvergesTo240(t *testing.T) {
	team := fullRoster()
	result := NormalizeTeam(team, nil, SideAway)

	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
	assert.InDelta(t, TargetTeamMinutes, totalOf(team), MinutesTolerance)
	assert.False(t, result.NoValidRoster)
	assert.False(t, result.ShortCircuited)
}

func TestNormalizeTeamNeverExceedsTenPlayers(t *testing.T) {
	team := fullRoster()
	result := NormalizeTeam(team, nil, SideAway)

	assert.LessOrEqual(t, result.ActiveCount, MaxActivePlayers)
	assert.Equal(t, MaxActivePlayers, result.ActiveCount)
}

func TestNormalizeTeamRespectsPerPlayerBounds(t *testing.T) {
	rosters := map[string][]*Statline{
		"balanced":   fullRoster(),
		"star heavy": starHeavyRoster(),
	}
	for name, team := range rosters {
		NormalizeTeam(team, nil, SideAway)
		for _, s := range team {
			assert.GreaterOrEqual(t, s.Minutes, 0.0, "%s roster, player %s", name, s.PlayerID)
			assert.LessOrEqual(t, s.Minutes, MaxPlayerMinutes, "%s roster, player %s", name, s.PlayerID)
		}
	}
}

func TestFloorOverflowRosterConvergesWithoutNegatives(t *testing.T) {
	// Eight star floors sum past 240 on their own, so the final correction
	// has to pull the team back down. It must do so by reducing, never by
	// re-raising stars or scaling the bench below zero.
	team := starHeavyRoster()
	result := NormalizeTeam(team, nil, SideAway)

	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
	assert.GreaterOrEqual(t, result.ActiveCount, 9)
	for _, s := range team {
		assert.GreaterOrEqual(t, s.Minutes, 0.0, "player %s", s.PlayerID)
	}
	for i := 0; i < 8; i++ {
		assert.LessOrEqual(t, team[i].Minutes, 34.0, "star %s gained minutes", team[i].PlayerID)
	}
}

func TestOutPlayersGetZeroMinutesAndStats(t *testing.T) {
	team := fullRoster()
	ctx := &TeamContext{OutPlayerIDs: map[string]bool{"p01": true}}

	result := NormalizeTeam(team, ctx, SideAway)

	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
	out := team[0]
	require.Equal(t, "p01", out.PlayerID)
	assert.Zero(t, out.Minutes)
	for _, stat := range BoxScoreStats {
		assert.Zero(t, out.CurrentStats[stat])
	}
	for _, stat := range DerivedStatNames {
		assert.Zero(t, out.DerivedStats[stat])
	}
}

func TestVacatedStarMinutesBoostSurvivors(t *testing.T) {
	healthy := fullRoster()
	NormalizeTeam(healthy, nil, SideAway)

	injured := fullRoster()
	ctx := &TeamContext{OutPlayerIDs: map[string]bool{"p01": true}}
	NormalizeTeam(injured, ctx, SideAway)

	// The surviving stars pick up minutes relative to the healthy run.
	assert.Greater(t, injured[1].Minutes, healthy[1].Minutes)
	assert.Greater(t, injured[2].Minutes, healthy[2].Minutes)
	assert.InDelta(t, TargetTeamMinutes, totalOf(injured), MinutesTolerance)
}

func TestOutPlayersAreNeverRefilled(t *testing.T) {
	// Only 8 healthy players; the two ruled out must not come back to
	// satisfy the 9-player minimum.
	minutes := []float64{36, 34, 30, 28, 24, 20, 16, 12, 26, 22}
	team := make([]*Statline, 0, len(minutes))
	for i, m := range minutes {
		team = append(team, testLine(fmt.Sprintf("p%02d", i+1), m))
	}
	ctx := &TeamContext{OutPlayerIDs: map[string]bool{"p09": true, "p10": true}}

	result := NormalizeTeam(team, ctx, SideAway)

	assert.Zero(t, team[8].Minutes)
	assert.Zero(t, team[9].Minutes)
	assert.Equal(t, 8, result.ActiveCount)
	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
}

func TestPlayersWithoutGamesAreExcludedOutright(t *testing.T) {
	team := fullRoster()
	withGames := make(map[string]bool)
	active := make(map[string]bool)
	for _, s := range team {
		if s.PlayerID != "p03" {
			withGames[s.PlayerID] = true
			active[s.PlayerID] = true
		}
	}
	ctx := &TeamContext{
		HasGameLogData:   true,
		PlayersWithGames: withGames,
		ActiveLast14Days: active,
	}

	result := NormalizeTeam(team, ctx, SideAway)

	assert.Zero(t, team[2].Minutes)
	assert.True(t, team[2].ExcludedNoGames)
	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
}

func TestStaleLowMinutePlayersAreZeroed(t *testing.T) {
	team := fullRoster()
	withGames := make(map[string]bool)
	for _, s := range team {
		withGames[s.PlayerID] = true
	}
	// Nobody active in the last 14 days. Only sub-22-minute players drop;
	// stars and starters survive a stale activity window.
	ctx := &TeamContext{
		HasGameLogData:   true,
		PlayersWithGames: withGames,
		ActiveLast14Days: map[string]bool{},
	}

	NormalizeTeam(team, ctx, SideAway)

	assert.Greater(t, team[0].Minutes, 0.0) // 36 MPG star stays
	assert.Greater(t, team[4].Minutes, 0.0) // 28 MPG starter stays
}

func TestRefillToMinimumRotationSize(t *testing.T) {
	team := fullRoster()
	withGames := make(map[string]bool)
	active := make(map[string]bool)
	for i, s := range team {
		withGames[s.PlayerID] = true
		if i < 7 {
			active[s.PlayerID] = true
		}
	}
	ctx := &TeamContext{
		HasGameLogData:   true,
		PlayersWithGames: withGames,
		ActiveLast14Days: active,
	}

	result := NormalizeTeam(team, ctx, SideAway)

	assert.Equal(t, 9, result.ActiveCount)
	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
}

func TestEightManRotationLowersMinimum(t *testing.T) {
	team := fullRoster()
	withGames := make(map[string]bool)
	active := make(map[string]bool)
	for i, s := range team {
		withGames[s.PlayerID] = true
		if i < 7 {
			active[s.PlayerID] = true
		}
	}
	ctx := &TeamContext{
		HasGameLogData:     true,
		PlayersWithGames:   withGames,
		ActiveLast14Days:   active,
		MinPlayersRequired: 8,
	}

	result := NormalizeTeam(team, ctx, SideAway)

	assert.Equal(t, 8, result.ActiveCount)
	assert.Equal(t, 8, result.MinPlayersRequired)
	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
}

func TestManualOverrideIsGroundTruth(t *testing.T) {
	team := fullRoster()
	team[3].SetManualOverride(37.5)

	result := NormalizeTeam(team, nil, SideAway)

	assert.Equal(t, 37.5, team[3].Minutes)
	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
}

func TestManualOverrideSurvivesOutStatus(t *testing.T) {
	// An override wins even against the injury filter: the user said the
	// player plays.
	team := fullRoster()
	team[0].SetManualOverride(20)
	ctx := &TeamContext{OutPlayerIDs: map[string]bool{"p01": true}}

	result := NormalizeTeam(team, ctx, SideAway)

	assert.Equal(t, 20.0, team[0].Minutes)
	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
}

func TestOverrideToZeroLocksPlayerOut(t *testing.T) {
	team := fullRoster()
	team[1].SetManualOverride(0)

	result := NormalizeTeam(team, nil, SideAway)

	assert.Zero(t, team[1].Minutes)
	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
}

func TestOverridesExceedingTargetZeroEveryoneElse(t *testing.T) {
	team := fullRoster()
	overrideTotal := 0.0
	for i := 0; i < 9; i++ {
		v := 27.0 + float64(i)*0.5 // 27 .. 31, sums to 261
		team[i].SetManualOverride(v)
		overrideTotal += v
	}

	NormalizeTeam(team, nil, SideAway)

	for i := 9; i < len(team); i++ {
		assert.Zero(t, team[i].Minutes, "non-overridden player %s", team[i].PlayerID)
	}
	assert.InDelta(t, overrideTotal, totalOf(team), MinutesTolerance)
}

func TestShortCircuitWhenOverridesAlreadySumToTarget(t *testing.T) {
	minutes := []float64{30, 30, 30, 28, 28, 26, 24, 22, 22}
	team := make([]*Statline, 0, len(minutes)+1)
	for i, m := range minutes {
		s := testLine(fmt.Sprintf("p%02d", i+1), m)
		s.SetManualOverride(m) // sums to 240
		team = append(team, s)
	}
	extra := testLine("p10", 15)
	extra.Minutes = 0
	team = append(team, extra)

	result := NormalizeTeam(team, nil, SideAway)

	assert.True(t, result.ShortCircuited)
	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
	for i, m := range minutes {
		assert.Equal(t, m, team[i].Minutes)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	team := fullRoster()
	ctx := &TeamContext{OutPlayerIDs: map[string]bool{"p12": true}}
	team[2].SetManualOverride(31)

	NormalizeTeam(team, ctx, SideAway)

	firstMinutes := make([]float64, len(team))
	firstPoints := make([]float64, len(team))
	for i, s := range team {
		firstMinutes[i] = s.Minutes
		firstPoints[i] = s.CurrentStats[StatPoints]
	}

	NormalizeTeam(team, ctx, SideAway)

	for i, s := range team {
		assert.InDelta(t, firstMinutes[i], s.Minutes, MinutesTolerance, "minutes drifted for %s", s.PlayerID)
		assert.InDelta(t, firstPoints[i], s.CurrentStats[StatPoints], 0.05, "points drifted for %s", s.PlayerID)
	}
}

func TestNormalizeIsIdempotentWhenFloorsOverflow(t *testing.T) {
	// The degenerate star-heavy roster forces the zero-clamped correction
	// path; a second pass must revive the same bench player with the same
	// allocation rather than oscillating.
	team := starHeavyRoster()
	NormalizeTeam(team, nil, SideAway)

	firstMinutes := make([]float64, len(team))
	for i, s := range team {
		firstMinutes[i] = s.Minutes
	}

	result := NormalizeTeam(team, nil, SideAway)

	assert.InDelta(t, TargetTeamMinutes, result.TotalMinutes, MinutesTolerance)
	for i, s := range team {
		assert.InDelta(t, firstMinutes[i], s.Minutes, MinutesTolerance, "minutes drifted for %s", s.PlayerID)
		assert.GreaterOrEqual(t, s.Minutes, 0.0, "player %s", s.PlayerID)
	}
}

func TestEmptyTeamReportsNoValidRoster(t *testing.T) {
	result := NormalizeTeam(nil, nil, SideHome)
	assert.True(t, result.NoValidRoster)
	assert.Zero(t, result.TotalMinutes)
}

func TestAllPlayersOutReportsNoValidRoster(t *testing.T) {
	team := []*Statline{testLine("p01", 30), testLine("p02", 25)}
	ctx := &TeamContext{OutPlayerIDs: map[string]bool{"p01": true, "p02": true}}

	result := NormalizeTeam(team, ctx, SideAway)

	assert.True(t, result.NoValidRoster)
	assert.Zero(t, result.TotalMinutes)
}

func TestNormalizeSplitsSides(t *testing.T) {
	away := fullRoster()
	home := fullRoster()
	for i, s := range home {
		s.PlayerID = fmt.Sprintf("h%02d", i+1)
		s.Side = SideHome
	}

	result := Normalize(append(away, home...), nil, nil)

	assert.InDelta(t, TargetTeamMinutes, result.Away.TotalMinutes, MinutesTolerance)
	assert.InDelta(t, TargetTeamMinutes, result.Home.TotalMinutes, MinutesTolerance)
	assert.Equal(t, SideAway, result.Away.Side)
	assert.Equal(t, SideHome, result.Home.Side)
}

func TestSetManualOverrideClampsRange(t *testing.T) {
	s := testLine("p01", 30)

	s.SetManualOverride(55)
	assert.Equal(t, MaxPlayerMinutes, *s.ManualOverrideMinutes)

	s.SetManualOverride(-3)
	assert.Zero(t, *s.ManualOverrideMinutes)

	s.ClearManualOverride()
	assert.False(t, s.Overridden())
}
