package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/pkg/database"
)

const (
	// recentActivityWindow is how far back a player's last appearance may be
	// before they stop counting as part of the active rotation.
	recentActivityWindow = 14 * 24 * time.Hour

	// rotationGamesSample is how many recent team games feed the
	// rotation-size check.
	rotationGamesSample = 10

	// rotationMinutesCutoff is the per-game minutes a player needs to count
	// toward the rotation size.
	rotationMinutesCutoff = 7.0
)

// GameLogService answers the availability questions the projection engine
// needs: who has played at all, who has played recently, and whether a team
// runs an 8-man rotation.
type GameLogService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewGameLogService(db *database.DB, logger *logrus.Logger) *GameLogService {
	return &GameLogService{
		db:     db,
		logger: logger,
	}
}

// TeamActivity is the availability snapshot for one team ahead of a game.
type TeamActivity struct {
	PlayersWithGames   map[string]bool
	ActiveLast14Days   map[string]bool
	HasGameLogData     bool
	MinPlayersRequired int
}

// BuildTeamActivity resolves the recent-activity sets for the given players
// and the team's minimum rotation size as of gameDate. A team with no logs at
// all yields HasGameLogData=false, which disables the activity checks rather
// than zeroing the whole roster.
func (s *GameLogService) BuildTeamActivity(teamID int, playerIDs []string, gameDate time.Time) (*TeamActivity, error) {
	activity := &TeamActivity{
		PlayersWithGames:   make(map[string]bool),
		ActiveLast14Days:   make(map[string]bool),
		MinPlayersRequired: 9,
	}
	if len(playerIDs) == 0 {
		return activity, nil
	}

	var logs []models.GameLog
	err := s.db.Where("player_external_id IN ? AND game_date < ?", playerIDs, gameDate).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return activity, nil
	}

	activity.HasGameLogData = true
	cutoff := gameDate.Add(-recentActivityWindow)
	for _, log := range logs {
		activity.PlayersWithGames[log.PlayerExternalID] = true
		if !log.GameDate.Before(cutoff) {
			activity.ActiveLast14Days[log.PlayerExternalID] = true
		}
	}

	if s.teamConsistentlyPlaysEight(teamID, gameDate) {
		activity.MinPlayersRequired = 8
	}
	return activity, nil
}

// teamConsistentlyPlaysEight inspects the team's last 10 games before
// gameDate and counts players with 7+ minutes per game; an average of 8.5 or
// fewer means the team runs an 8-man rotation.
func (s *GameLogService) teamConsistentlyPlaysEight(teamID int, gameDate time.Time) bool {
	var gameIDs []string
	err := s.db.Model(&models.GameLog{}).
		Where("team_id = ? AND game_date < ?", teamID, gameDate).
		Group("game_id").
		Order("MAX(game_date) DESC").
		Limit(rotationGamesSample).
		Pluck("game_id", &gameIDs).Error
	if err != nil || len(gameIDs) == 0 {
		return false
	}

	type rotationRow struct {
		GameID string
		Count  int
	}
	var rows []rotationRow
	err = s.db.Model(&models.GameLog{}).
		Select("game_id, COUNT(*) as count").
		Where("team_id = ? AND game_id IN ? AND minutes >= ?", teamID, gameIDs, rotationMinutesCutoff).
		Group("game_id").
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return false
	}

	total := 0
	for _, row := range rows {
		total += row.Count
	}
	avg := float64(total) / float64(len(rows))
	return avg <= 8.5
}

// RecentLogs returns a player's game logs newest-first, limited to count.
func (s *GameLogService) RecentLogs(playerExternalID string, count int) ([]models.GameLog, error) {
	var logs []models.GameLog
	err := s.db.Where("player_external_id = ?", playerExternalID).
		Order("game_date DESC").
		Limit(count).
		Find(&logs).Error
	return logs, err
}
