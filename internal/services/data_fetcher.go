package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/internal/providers"
	"github.com/courtsight/nba-dashboard/pkg/database"
)

// DataFetcherService handles scheduled data updates from external providers
type DataFetcherService struct {
	db            *database.DB
	cache         *CacheService
	statsClient   *providers.NBAStatsClient
	injuryClient  *providers.InjuryFeedClient
	projections   *ProjectionService
	alerts        *AlertService
	hub           *ProjectionHub
	logger        *logrus.Logger
	cron          *cron.Cron
	mu            sync.Mutex
	isRunning     bool
	fetchInterval time.Duration
}

// NewDataFetcherService creates a new data fetcher service
func NewDataFetcherService(
	db *database.DB,
	cache *CacheService,
	statsClient *providers.NBAStatsClient,
	injuryClient *providers.InjuryFeedClient,
	projections *ProjectionService,
	alerts *AlertService,
	hub *ProjectionHub,
	logger *logrus.Logger,
	fetchInterval time.Duration,
) *DataFetcherService {
	return &DataFetcherService{
		db:            db,
		cache:         cache,
		statsClient:   statsClient,
		injuryClient:  injuryClient,
		projections:   projections,
		alerts:        alerts,
		hub:           hub,
		logger:        logger,
		cron:          cron.New(),
		fetchInterval: fetchInterval,
	}
}

// Start begins the scheduled data fetching
func (s *DataFetcherService) Start(runInitialFetch bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("data fetcher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.fetchInterval.String())
	_, err := s.cron.AddFunc(schedule, func() { s.RunIngest(context.Background()) })
	if err != nil {
		return fmt.Errorf("failed to schedule data fetcher: %w", err)
	}

	// Injury reports refresh often in the hours before tip-off; poll them
	// hourly from 2-10 PM ET on top of the full ingest.
	_, err = s.cron.AddFunc("0 14-22 * * *", func() { s.fetchInjuries(context.Background()) })
	if err != nil {
		return fmt.Errorf("failed to schedule injury fetcher: %w", err)
	}

	_, err = s.cron.AddFunc("0 3 * * *", s.cleanupOldData) // 3 AM daily
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	if runInitialFetch {
		go s.RunIngest(context.Background())
	}

	s.logger.Info("Data fetcher service started")
	return nil
}

// Stop halts the scheduled data fetching
func (s *DataFetcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Data fetcher service stopped")
}

// RunIngest performs a full ingest pass: schedule, baselines, game logs, and
// the injury report, then recomputes projections for today's games.
func (s *DataFetcherService) RunIngest(ctx context.Context) {
	s.logger.Info("Starting data ingest")

	if err := s.fetchSchedule(ctx); err != nil {
		s.logger.WithError(err).Error("Schedule ingest failed")
	}
	if err := s.fetchBaselines(ctx); err != nil {
		s.logger.WithError(err).Error("Baseline ingest failed")
	}
	if err := s.fetchGameLogs(ctx); err != nil {
		s.logger.WithError(err).Error("Game log ingest failed")
	}
	s.fetchInjuries(ctx)

	s.recomputeUpcomingGames(ctx, "ingest")
	s.logger.Info("Completed data ingest")
}

func (s *DataFetcherService) fetchSchedule(ctx context.Context) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	games, err := s.statsClient.GetScheduleByDate(ctx, today)
	if err != nil {
		return err
	}

	for _, g := range games {
		game := models.Game{
			ExternalID:     g.GameID,
			GameDate:       g.GameDate,
			AwayTeamID:     g.AwayTeamID,
			HomeTeamID:     g.HomeTeamID,
			AwayTricode:    g.AwayTricode,
			HomeTricode:    g.HomeTricode,
			Status:         g.Status,
			LastDataUpdate: time.Now().UTC(),
		}

		var existing models.Game
		err := s.db.Where("external_id = ?", g.GameID).First(&existing).Error
		if err == nil {
			game.ID = existing.ID
			game.CreatedAt = existing.CreatedAt
		}
		if err := s.db.Save(&game).Error; err != nil {
			s.logger.WithError(err).WithField("game", g.GameID).Error("Failed to save game")
		}
	}

	if s.cache != nil {
		s.cache.Delete(ctx, GamesCacheKey(today.Format("2006-01-02")))
	}
	s.logger.Infof("Ingested %d scheduled games", len(games))
	return nil
}

func (s *DataFetcherService) fetchBaselines(ctx context.Context) error {
	averages, err := s.statsClient.GetSeasonAverages(ctx)
	if err != nil {
		return err
	}

	saved := 0
	for _, avg := range averages {
		player := models.Player{
			ExternalID:      avg.PlayerID,
			Name:            avg.Name,
			TeamID:          avg.TeamID,
			Team:            avg.Team,
			Position:        avg.Position,
			BaselineMinutes: avg.Minutes,
		}
		if err := player.SetBaselineStats(avg.Stats); err != nil {
			s.logger.WithError(err).WithField("player", avg.PlayerID).Error("Failed to encode baseline stats")
			continue
		}

		var existing models.Player
		err := s.db.Where("external_id = ?", avg.PlayerID).First(&existing).Error
		if err == nil {
			player.ID = existing.ID
			player.CreatedAt = existing.CreatedAt
		}
		if err := s.db.Save(&player).Error; err != nil {
			s.logger.WithError(err).WithField("player", avg.PlayerID).Error("Failed to save player")
			continue
		}
		saved++
	}

	s.logger.Infof("Ingested baselines for %d players", saved)
	return nil
}

func (s *DataFetcherService) fetchGameLogs(ctx context.Context) error {
	entries, err := s.statsClient.GetGameLogs(ctx)
	if err != nil {
		return err
	}

	saved := 0
	for _, entry := range entries {
		log := models.GameLog{
			PlayerExternalID: entry.PlayerID,
			TeamID:           entry.TeamID,
			GameID:           entry.GameID,
			GameDate:         entry.GameDate,
			Minutes:          entry.Minutes,
			Points:           entry.Points,
			Rebounds:         entry.Rebounds,
			Assists:          entry.Assists,
		}

		var existing models.GameLog
		err := s.db.Where("player_external_id = ? AND game_id = ?", entry.PlayerID, entry.GameID).
			First(&existing).Error
		if err == nil {
			log.ID = existing.ID
		}
		if err := s.db.Save(&log).Error; err != nil {
			s.logger.WithError(err).WithField("player", entry.PlayerID).Error("Failed to save game log")
			continue
		}
		saved++
	}

	s.logger.Infof("Ingested %d game log rows", saved)
	return nil
}

// fetchInjuries pulls the injury report, persists new or changed rows, and
// fires alerts for players whose status changed.
func (s *DataFetcherService) fetchInjuries(ctx context.Context) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	entries, err := s.injuryClient.GetInjuryReport(ctx, today)
	if err != nil {
		s.logger.WithError(err).Error("Injury ingest failed")
		return
	}
	if len(entries) == 0 {
		return
	}

	var changed []models.InjuryRecord
	for _, entry := range entries {
		record := models.InjuryRecord{
			ReportDate:       today,
			PlayerExternalID: entry.PlayerID,
			PlayerName:       entry.PlayerName,
			Team:             entry.Team,
			TeamID:           entry.TeamID,
			Status:           entry.Status,
			Reason:           entry.Reason,
		}

		var existing models.InjuryRecord
		err := s.db.Where("report_date = ? AND player_external_id = ?", today, entry.PlayerID).
			First(&existing).Error
		statusChanged := err != nil || existing.Status != entry.Status
		if err == nil {
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
		}
		if err := s.db.Save(&record).Error; err != nil {
			s.logger.WithError(err).WithField("player", entry.PlayerID).Error("Failed to save injury record")
			continue
		}
		if statusChanged {
			changed = append(changed, record)
		}
	}

	if s.cache != nil {
		s.cache.Delete(ctx, InjuriesCacheKey(today.Format("2006-01-02")))
	}

	if len(changed) > 0 {
		s.logger.Infof("Injury report: %d status changes", len(changed))
		if s.hub != nil {
			s.hub.BroadcastInjuryUpdate(changed)
		}
		if s.alerts != nil {
			s.alerts.NotifyStatusChanges(ctx, changed)
		}
		s.recomputeUpcomingGames(ctx, "injury")
	}
}

// recomputeUpcomingGames refreshes projections for games that have not tipped
// off yet.
func (s *DataFetcherService) recomputeUpcomingGames(ctx context.Context, trigger string) {
	var games []models.Game
	err := s.db.Where("game_date >= ?", time.Now().UTC().Truncate(24*time.Hour)).Find(&games).Error
	if err != nil {
		s.logger.WithError(err).Error("Failed to load upcoming games")
		return
	}

	for _, game := range games {
		s.projections.Invalidate(ctx, game.ID)
		if _, err := s.projections.Recompute(ctx, game.ID, trigger); err != nil {
			s.logger.WithError(err).WithField("game_id", game.ID).Error("Failed to recompute projections")
		}
	}
}

// cleanupOldData trims stale rows that no projection pass will read again.
func (s *DataFetcherService) cleanupOldData() {
	cutoff := time.Now().UTC().AddDate(0, -6, 0)

	if err := s.db.Where("game_date < ?", cutoff).Delete(&models.GameLog{}).Error; err != nil {
		s.logger.WithError(err).Error("Failed to clean up old game logs")
	}
	if err := s.db.Where("report_date < ?", cutoff).Delete(&models.InjuryRecord{}).Error; err != nil {
		s.logger.WithError(err).Error("Failed to clean up old injury records")
	}

	s.logger.Info("Old data cleanup complete")
}
