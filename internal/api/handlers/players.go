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

type PlayersHandler struct {
	db       *database.DB
	cache    *services.CacheService
	gameLogs *services.GameLogService
}

func NewPlayersHandler(db *database.DB, cache *services.CacheService, gameLogs *services.GameLogService) *PlayersHandler {
	return &PlayersHandler{
		db:       db,
		cache:    cache,
		gameLogs: gameLogs,
	}
}

// GetPlayer returns a player with season baseline by external id
func (h *PlayersHandler) GetPlayer(c *gin.Context) {
	playerID := c.Param("id")

	var player models.Player
	if err := h.db.Where("external_id = ?", playerID).First(&player).Error; err != nil {
		utils.SendNotFound(c, "Player not found")
		return
	}
	utils.SendSuccess(c, gin.H{
		"player":         player,
		"baseline_stats": player.BaselineStatMap(),
	})
}

// GetGameLogs returns a player's recent game logs, newest first
func (h *PlayersHandler) GetGameLogs(c *gin.Context) {
	playerID := c.Param("id")
	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil || count <= 0 || count > 82 {
		utils.SendValidationError(c, "Invalid count, expected 1-82", "")
		return
	}

	ctx := context.Background()
	cacheKey := services.PlayerGameLogsCacheKey(playerID)
	var logs []models.GameLog
	if h.cache != nil && count == 10 {
		if err := h.cache.Get(ctx, cacheKey, &logs); err == nil {
			utils.SendSuccess(c, logs)
			return
		}
	}

	logs, err = h.gameLogs.RecentLogs(playerID, count)
	if err != nil {
		utils.SendInternalError(c, "Failed to load game logs")
		return
	}

	if h.cache != nil && count == 10 && len(logs) > 0 {
		h.cache.Set(ctx, cacheKey, logs, 10*time.Minute)
	}
	utils.SendSuccess(c, logs)
}
