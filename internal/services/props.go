package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/pkg/database"
)

// Lean labels for a projection-vs-line comparison. Thresholds of 0.5 and 1.5
// projected units follow the dashboard's established buckets.
const (
	LeanStrongOver  = "Strong Over"
	LeanOver        = "Lean Over"
	LeanStrongUnder = "Strong Under"
	LeanUnder       = "Lean Under"
	LeanPush        = "Push/Avoid"
)

// ValuePlay is one prop line paired with the current projection for that
// player and stat.
type ValuePlay struct {
	PlayerExternalID string  `json:"player_external_id"`
	PlayerName       string  `json:"player_name"`
	Stat             string  `json:"stat"`
	Line             float64 `json:"line"`
	Projection       float64 `json:"projection"`
	Diff             float64 `json:"diff"`
	DiffPct          float64 `json:"diff_pct"`
	Lean             string  `json:"lean"`
	OverOdds         int     `json:"over_odds"`
	UnderOdds        int     `json:"under_odds"`
	ImpliedOverPct   float64 `json:"implied_over_pct"`
	Book             string  `json:"book"`
}

// ValuePlayService surfaces edges between stored prop lines and the latest
// normalized projections.
type ValuePlayService struct {
	db          *database.DB
	cache       *CacheService
	projections *ProjectionService
	logger      *logrus.Logger
	cacheTTL    time.Duration
}

func NewValuePlayService(db *database.DB, cache *CacheService, projections *ProjectionService, cacheTTL time.Duration, logger *logrus.Logger) *ValuePlayService {
	return &ValuePlayService{
		db:          db,
		cache:       cache,
		projections: projections,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

// ValuePlays returns every stored prop for the game compared against the
// current projections, biggest absolute edge first.
func (s *ValuePlayService) ValuePlays(ctx context.Context, gameID uint) ([]ValuePlay, error) {
	if s.cache != nil {
		var cached []ValuePlay
		if err := s.cache.Get(ctx, ValuePlaysCacheKey(gameID), &cached); err == nil {
			return cached, nil
		}
	}

	projections, err := s.projections.GetProjections(ctx, gameID)
	if err != nil {
		return nil, err
	}
	projected := indexProjections(projections)

	var lines []models.PropLine
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).Find(&lines).Error; err != nil {
		return nil, err
	}

	plays := make([]ValuePlay, 0, len(lines))
	for _, line := range lines {
		player, ok := projected[line.PlayerExternalID]
		if !ok {
			continue
		}
		value, ok := statValue(player, line.Stat)
		if !ok {
			continue
		}

		diff := math.Round((value-line.Line)*10) / 10
		diffPct := 0.0
		if line.Line > 0 {
			diffPct = math.Round(diff/line.Line*1000) / 10
		}

		plays = append(plays, ValuePlay{
			PlayerExternalID: line.PlayerExternalID,
			PlayerName:       player.PlayerName,
			Stat:             line.Stat,
			Line:             line.Line,
			Projection:       value,
			Diff:             diff,
			DiffPct:          diffPct,
			Lean:             classifyLean(diff),
			OverOdds:         line.OverOdds,
			UnderOdds:        line.UnderOdds,
			ImpliedOverPct:   ImpliedProbability(line.OverOdds),
			Book:             line.Book,
		})
	}

	sort.SliceStable(plays, func(i, j int) bool {
		return math.Abs(plays[i].Diff) > math.Abs(plays[j].Diff)
	})

	if s.cache != nil && len(plays) > 0 {
		if err := s.cache.Set(ctx, ValuePlaysCacheKey(gameID), plays, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache value plays")
		}
	}
	return plays, nil
}

// UpsertLine stores or refreshes a prop line for a game.
func (s *ValuePlayService) UpsertLine(ctx context.Context, line *models.PropLine) error {
	var existing models.PropLine
	err := s.db.WithContext(ctx).
		Where("game_id = ? AND player_external_id = ? AND stat = ?", line.GameID, line.PlayerExternalID, line.Stat).
		First(&existing).Error
	if err == nil {
		line.ID = existing.ID
		line.CreatedAt = existing.CreatedAt
	}
	if err := s.db.WithContext(ctx).Save(line).Error; err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, ValuePlaysCacheKey(line.GameID)); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate value play cache")
		}
	}
	return nil
}

func classifyLean(diff float64) string {
	switch {
	case diff >= 1.5:
		return LeanStrongOver
	case diff >= 0.5:
		return LeanOver
	case diff <= -1.5:
		return LeanStrongUnder
	case diff <= -0.5:
		return LeanUnder
	default:
		return LeanPush
	}
}

// ImpliedProbability converts American odds to an implied win percentage.
func ImpliedProbability(americanOdds int) float64 {
	if americanOdds == 0 {
		return 0
	}
	abs := math.Abs(float64(americanOdds))
	var pct float64
	if americanOdds < 0 {
		pct = abs / (abs + 100) * 100
	} else {
		pct = 100 / (abs + 100) * 100
	}
	return math.Round(pct*10) / 10
}

func indexProjections(projections *GameProjections) map[string]*PlayerProjection {
	indexed := make(map[string]*PlayerProjection, len(projections.Away)+len(projections.Home))
	for i := range projections.Away {
		indexed[projections.Away[i].PlayerExternalID] = &projections.Away[i]
	}
	for i := range projections.Home {
		indexed[projections.Home[i].PlayerExternalID] = &projections.Home[i]
	}
	return indexed
}

func statValue(player *PlayerProjection, stat string) (float64, bool) {
	if v, ok := player.Stats[stat]; ok {
		return v, true
	}
	if v, ok := player.DerivedStats[stat]; ok {
		return v, true
	}
	return 0, false
}
