package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/courtsight/nba-dashboard/internal/engine"
	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/pkg/database"
)

// PlayerProjection is the API view of one normalized statline.
type PlayerProjection struct {
	PlayerExternalID string             `json:"player_external_id"`
	PlayerName       string             `json:"player_name"`
	TeamSide         string             `json:"team_side"`
	Role             string             `json:"role"`
	Minutes          float64            `json:"minutes"`
	BaselineMinutes  float64            `json:"baseline_minutes"`
	Stats            map[string]float64 `json:"stats"`
	DerivedStats     map[string]float64 `json:"derived_stats"`
	IsOverridden     bool               `json:"is_overridden"`
	ExcludedNoGames  bool               `json:"excluded_no_games"`
}

// GameProjections is the full normalized output for one matchup.
type GameProjections struct {
	GameID     uint               `json:"game_id"`
	Matchup    string             `json:"matchup"`
	GameDate   time.Time          `json:"game_date"`
	Away       []PlayerProjection `json:"away"`
	Home       []PlayerProjection `json:"home"`
	Summary    *engine.Result     `json:"summary"`
	ComputedAt time.Time          `json:"computed_at"`
}

// ProjectionService orchestrates a normalization pass: it assembles rosters,
// injuries, game-log activity, and manual overrides into engine inputs, runs
// the engine, and persists, caches, and broadcasts the result.
type ProjectionService struct {
	db       *database.DB
	cache    *CacheService
	gameLogs *GameLogService
	hub      *ProjectionHub
	logger   *logrus.Logger
	cacheTTL time.Duration
}

func NewProjectionService(db *database.DB, cache *CacheService, gameLogs *GameLogService, hub *ProjectionHub, cacheTTL time.Duration, logger *logrus.Logger) *ProjectionService {
	return &ProjectionService{
		db:       db,
		cache:    cache,
		gameLogs: gameLogs,
		hub:      hub,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// GetProjections returns the current projections for a game, computing them
// on first access.
func (s *ProjectionService) GetProjections(ctx context.Context, gameID uint) (*GameProjections, error) {
	if s.cache != nil {
		var cached GameProjections
		if err := s.cache.Get(ctx, ProjectionsCacheKey(gameID), &cached); err == nil {
			return &cached, nil
		}
	}
	return s.Recompute(ctx, gameID, "load")
}

// Recompute runs a full normalization pass for the game and stores the
// result. The trigger tag ends up in logs and the WebSocket announcement so
// dashboards can tell an override apart from an injury refresh.
func (s *ProjectionService) Recompute(ctx context.Context, gameID uint, trigger string) (*GameProjections, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).First(&game, gameID).Error; err != nil {
		return nil, err
	}

	awayStatlines, awayCtx, err := s.buildSide(ctx, &game, game.AwayTeamID, engine.SideAway)
	if err != nil {
		return nil, fmt.Errorf("failed to build away side: %w", err)
	}
	homeStatlines, homeCtx, err := s.buildSide(ctx, &game, game.HomeTeamID, engine.SideHome)
	if err != nil {
		return nil, fmt.Errorf("failed to build home side: %w", err)
	}

	statlines := append(awayStatlines, homeStatlines...)
	result := engine.Normalize(statlines, awayCtx, homeCtx)

	computedAt := time.Now().UTC()
	if err := s.persist(ctx, gameID, statlines, computedAt); err != nil {
		return nil, fmt.Errorf("failed to persist projections: %w", err)
	}

	response := &GameProjections{
		GameID:     gameID,
		Matchup:    game.Matchup(),
		GameDate:   game.GameDate,
		Away:       toPlayerProjections(awayStatlines),
		Home:       toPlayerProjections(homeStatlines),
		Summary:    result,
		ComputedAt: computedAt,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ProjectionsCacheKey(gameID), response, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache projections")
		}
	}

	if s.hub != nil {
		s.hub.BroadcastProjectionUpdate(ProjectionUpdate{
			GameID:           gameID,
			AwayTotalMinutes: result.Away.TotalMinutes,
			HomeTotalMinutes: result.Home.TotalMinutes,
			PlayerCount:      result.Away.ActiveCount + result.Home.ActiveCount,
			Trigger:          trigger,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"game_id":      gameID,
		"trigger":      trigger,
		"away_minutes": result.Away.TotalMinutes,
		"home_minutes": result.Home.TotalMinutes,
	}).Info("Projections recomputed")

	return response, nil
}

// Invalidate drops the cached projections for a game.
func (s *ProjectionService) Invalidate(ctx context.Context, gameID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, ProjectionsCacheKey(gameID), ValuePlaysCacheKey(gameID)); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate projection cache")
	}
}

// buildSide assembles the engine inputs for one team: statlines seeded from
// baselines, injury boosts for players picking up vacated minutes, manual
// overrides, and the availability context.
func (s *ProjectionService) buildSide(ctx context.Context, game *models.Game, teamID int, side engine.Side) ([]*engine.Statline, *engine.TeamContext, error) {
	var players []models.Player
	if err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Find(&players).Error; err != nil {
		return nil, nil, err
	}

	outIDs, err := s.ruledOutPlayers(ctx, teamID, game.GameDate)
	if err != nil {
		return nil, nil, err
	}

	overrides, err := s.overridesForGame(ctx, game.ID)
	if err != nil {
		return nil, nil, err
	}

	minutesByPlayer := make(map[string]float64, len(players))
	playerIDs := make([]string, 0, len(players))
	for _, p := range players {
		minutesByPlayer[p.ExternalID] = p.BaselineMinutes
		playerIDs = append(playerIDs, p.ExternalID)
	}

	teammatesOut := make([]string, 0, len(outIDs))
	for id := range outIDs {
		teammatesOut = append(teammatesOut, id)
	}

	statlines := make([]*engine.Statline, 0, len(players))
	for _, p := range players {
		line := engine.NewStatline(p.ExternalID, p.Name, side, p.BaselineMinutes, toEngineStats(p.BaselineStatMap()))

		if !outIDs[p.ExternalID] && len(teammatesOut) > 0 {
			adj := ComputeInjuryAdjustment(p.BaselineMinutes, teammatesOut, minutesByPlayer)
			if adj.MinutesBoost > 0 {
				line.InjuryAdjustedMinutes = p.BaselineMinutes + adj.MinutesBoost
				line.Minutes = line.InjuryAdjustedMinutes
			}
			line.InjuryMultipliers = adj.Multipliers
		}

		if minutes, ok := overrides[p.ExternalID]; ok {
			line.SetManualOverride(minutes)
		}

		statlines = append(statlines, line)
	}

	activity, err := s.gameLogs.BuildTeamActivity(teamID, playerIDs, game.GameDate)
	if err != nil {
		return nil, nil, err
	}

	teamCtx := &engine.TeamContext{
		OutPlayerIDs:       outIDs,
		HasGameLogData:     activity.HasGameLogData,
		PlayersWithGames:   activity.PlayersWithGames,
		ActiveLast14Days:   activity.ActiveLast14Days,
		MinPlayersRequired: activity.MinPlayersRequired,
	}
	return statlines, teamCtx, nil
}

// ruledOutPlayers resolves OUT/DOUBTFUL players for a team from the most
// recent injury report on or before the game date.
func (s *ProjectionService) ruledOutPlayers(ctx context.Context, teamID int, gameDate time.Time) (map[string]bool, error) {
	dayEnd := gameDate.Truncate(24 * time.Hour).Add(24 * time.Hour)

	var latest time.Time
	err := s.db.WithContext(ctx).Model(&models.InjuryRecord{}).
		Where("team_id = ? AND report_date < ?", teamID, dayEnd).
		Select("MAX(report_date)").
		Scan(&latest).Error
	if err != nil || latest.IsZero() {
		return map[string]bool{}, nil
	}

	var records []models.InjuryRecord
	err = s.db.WithContext(ctx).
		Where("team_id = ? AND report_date = ?", teamID, latest).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool)
	for i := range records {
		if records[i].RulesOut() {
			out[records[i].PlayerExternalID] = true
		}
	}
	return out, nil
}

func (s *ProjectionService) overridesForGame(ctx context.Context, gameID uint) (map[string]float64, error) {
	var rows []models.ManualOverride
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).Find(&rows).Error; err != nil {
		return nil, err
	}
	overrides := make(map[string]float64, len(rows))
	for _, row := range rows {
		overrides[row.PlayerExternalID] = row.Minutes
	}
	return overrides, nil
}

// persist replaces the game's stored projections with the fresh pass inside
// one transaction.
func (s *ProjectionService) persist(ctx context.Context, gameID uint, statlines []*engine.Statline, computedAt time.Time) error {
	rows := make([]models.Projection, 0, len(statlines))
	for _, line := range statlines {
		statsJSON, err := json.Marshal(fromEngineStats(line.CurrentStats))
		if err != nil {
			return err
		}
		derivedJSON, err := json.Marshal(fromEngineStats(line.DerivedStats))
		if err != nil {
			return err
		}
		rows = append(rows, models.Projection{
			GameID:           gameID,
			PlayerExternalID: line.PlayerID,
			PlayerName:       line.PlayerName,
			TeamSide:         string(line.Side),
			Minutes:          line.Minutes,
			Stats:            statsJSON,
			DerivedStats:     derivedJSON,
			IsOverridden:     line.Overridden(),
			ComputedAt:       computedAt,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", gameID).Delete(&models.Projection{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func toPlayerProjections(statlines []*engine.Statline) []PlayerProjection {
	projections := make([]PlayerProjection, 0, len(statlines))
	for _, line := range statlines {
		projections = append(projections, PlayerProjection{
			PlayerExternalID: line.PlayerID,
			PlayerName:       line.PlayerName,
			TeamSide:         string(line.Side),
			Role:             line.Role.String(),
			Minutes:          line.Minutes,
			BaselineMinutes:  line.BaselineMinutes,
			Stats:            fromEngineStats(line.CurrentStats),
			DerivedStats:     fromEngineStats(line.DerivedStats),
			IsOverridden:     line.Overridden(),
			ExcludedNoGames:  line.ExcludedNoGames,
		})
	}
	return projections
}

func toEngineStats(stats map[string]float64) map[engine.Stat]float64 {
	converted := make(map[engine.Stat]float64, len(stats))
	for name, value := range stats {
		converted[engine.Stat(name)] = value
	}
	return converted
}

func fromEngineStats(stats map[engine.Stat]float64) map[string]float64 {
	converted := make(map[string]float64, len(stats))
	for name, value := range stats {
		converted[string(name)] = value
	}
	return converted
}
