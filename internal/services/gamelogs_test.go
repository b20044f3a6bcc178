package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewConnection(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.GameLog{}))
	t.Cleanup(func() { db.Close() })
	return db
}

func seedTeamGames(t *testing.T, db *database.DB, teamID int, gameDate time.Time, playersPerGame int, games int) {
	t.Helper()
	for g := 0; g < games; g++ {
		for p := 0; p < playersPerGame; p++ {
			log := models.GameLog{
				PlayerExternalID: fmt.Sprintf("t%d-p%02d", teamID, p),
				TeamID:           teamID,
				GameID:           fmt.Sprintf("g%d-%02d", teamID, g),
				GameDate:         gameDate.AddDate(0, 0, -(g*2 + 1)),
				Minutes:          20,
			}
			require.NoError(t, db.Create(&log).Error)
		}
	}
}

func TestBuildTeamActivityNoLogs(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameLogService(db, logrus.New())

	activity, err := svc.BuildTeamActivity(1, []string{"a", "b"}, time.Now().UTC())
	require.NoError(t, err)

	require.False(t, activity.HasGameLogData)
	require.Empty(t, activity.PlayersWithGames)
	require.Equal(t, 9, activity.MinPlayersRequired)
}

func TestBuildTeamActivityTracksRecency(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameLogService(db, logrus.New())
	gameDate := time.Now().UTC().Truncate(24 * time.Hour)

	recent := models.GameLog{
		PlayerExternalID: "fresh",
		TeamID:           1,
		GameID:           "g1",
		GameDate:         gameDate.AddDate(0, 0, -3),
		Minutes:          25,
	}
	stale := models.GameLog{
		PlayerExternalID: "stale",
		TeamID:           1,
		GameID:           "g0",
		GameDate:         gameDate.AddDate(0, 0, -30),
		Minutes:          25,
	}
	require.NoError(t, db.Create(&recent).Error)
	require.NoError(t, db.Create(&stale).Error)

	activity, err := svc.BuildTeamActivity(1, []string{"fresh", "stale", "ghost"}, gameDate)
	require.NoError(t, err)

	require.True(t, activity.HasGameLogData)
	require.True(t, activity.PlayersWithGames["fresh"])
	require.True(t, activity.PlayersWithGames["stale"])
	require.False(t, activity.PlayersWithGames["ghost"])
	require.True(t, activity.ActiveLast14Days["fresh"])
	require.False(t, activity.ActiveLast14Days["stale"])
}

func TestEightManRotationDetection(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameLogService(db, logrus.New())
	gameDate := time.Now().UTC().Truncate(24 * time.Hour)

	// Team 1 plays 8 players 7+ minutes every night; team 2 plays 10.
	seedTeamGames(t, db, 1, gameDate, 8, 10)
	seedTeamGames(t, db, 2, gameDate, 10, 10)

	tightIDs := make([]string, 8)
	for i := range tightIDs {
		tightIDs[i] = fmt.Sprintf("t1-p%02d", i)
	}
	deepIDs := make([]string, 10)
	for i := range deepIDs {
		deepIDs[i] = fmt.Sprintf("t2-p%02d", i)
	}

	tight, err := svc.BuildTeamActivity(1, tightIDs, gameDate)
	require.NoError(t, err)
	require.Equal(t, 8, tight.MinPlayersRequired)

	deep, err := svc.BuildTeamActivity(2, deepIDs, gameDate)
	require.NoError(t, err)
	require.Equal(t, 9, deep.MinPlayersRequired)
}

func TestRotationWindowUsesMostRecentGames(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameLogService(db, logrus.New())
	gameDate := time.Now().UTC().Truncate(24 * time.Hour)

	// Ten recent games with a tight 8-man rotation.
	seedTeamGames(t, db, 1, gameDate, 8, 10)

	// One stale blowout where 20 players saw the floor. Its ID sorts after
	// every recent ID, so an ID-ordered window would pull it in and push the
	// rotation average past the 8-man threshold.
	for p := 0; p < 20; p++ {
		log := models.GameLog{
			PlayerExternalID: fmt.Sprintf("old-p%02d", p),
			TeamID:           1,
			GameID:           "zzz-blowout",
			GameDate:         gameDate.AddDate(0, 0, -40),
			Minutes:          12,
		}
		require.NoError(t, db.Create(&log).Error)
	}

	ids := make([]string, 8)
	for i := range ids {
		ids[i] = fmt.Sprintf("t1-p%02d", i)
	}

	activity, err := svc.BuildTeamActivity(1, ids, gameDate)
	require.NoError(t, err)
	require.Equal(t, 8, activity.MinPlayersRequired)
}

func TestRecentLogsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameLogService(db, logrus.New())
	gameDate := time.Now().UTC().Truncate(24 * time.Hour)

	for g := 0; g < 4; g++ {
		log := models.GameLog{
			PlayerExternalID: "p1",
			TeamID:           1,
			GameID:           fmt.Sprintf("g%d", g),
			GameDate:         gameDate.AddDate(0, 0, -g),
			Minutes:          30,
		}
		require.NoError(t, db.Create(&log).Error)
	}

	logs, err := svc.RecentLogs("p1", 3)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	require.True(t, logs[0].GameDate.After(logs[1].GameDate))
}
