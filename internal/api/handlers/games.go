package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/internal/services"
	"github.com/courtsight/nba-dashboard/pkg/database"
	"github.com/courtsight/nba-dashboard/pkg/utils"
)

type GamesHandler struct {
	db    *database.DB
	cache *services.CacheService
}

func NewGamesHandler(db *database.DB, cache *services.CacheService) *GamesHandler {
	return &GamesHandler{
		db:    db,
		cache: cache,
	}
}

// ListGames returns the slate for a date, defaulting to today
func (h *GamesHandler) ListGames(c *gin.Context) {
	dateStr := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.SendValidationError(c, "Invalid date, expected YYYY-MM-DD", err.Error())
		return
	}

	ctx := context.Background()
	cacheKey := services.GamesCacheKey(dateStr)
	var games []models.Game
	if h.cache != nil {
		if err := h.cache.Get(ctx, cacheKey, &games); err == nil {
			utils.SendSuccess(c, games)
			return
		}
	}

	dayEnd := date.Add(24 * time.Hour)
	err = h.db.Where("game_date >= ? AND game_date < ?", date, dayEnd).
		Order("game_date ASC").
		Find(&games).Error
	if err != nil {
		utils.SendInternalError(c, "Failed to load games")
		return
	}

	if h.cache != nil && len(games) > 0 {
		h.cache.Set(ctx, cacheKey, games, 5*time.Minute)
	}
	utils.SendSuccess(c, games)
}

// GetGame returns one game by id
func (h *GamesHandler) GetGame(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid game ID", err.Error())
		return
	}

	var game models.Game
	if err := h.db.First(&game, gameID).Error; err != nil {
		utils.SendNotFound(c, "Game not found")
		return
	}
	utils.SendSuccess(c, game)
}
