package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/internal/services"
	"github.com/courtsight/nba-dashboard/pkg/database"
	"github.com/courtsight/nba-dashboard/pkg/utils"
)

type OverridesHandler struct {
	db          *database.DB
	projections *services.ProjectionService
}

func NewOverridesHandler(db *database.DB, projections *services.ProjectionService) *OverridesHandler {
	return &OverridesHandler{
		db:          db,
		projections: projections,
	}
}

type setOverrideRequest struct {
	Minutes *float64 `json:"minutes" binding:"required"`
}

// SetOverride pins a player's minutes for a game and recomputes the slate.
// Overridden minutes are ground truth for every later normalization pass.
func (h *OverridesHandler) SetOverride(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid game ID", err.Error())
		return
	}
	playerID := c.Param("playerId")
	if playerID == "" {
		utils.SendValidationError(c, "Player ID required", "")
		return
	}

	var req setOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if *req.Minutes < 0 || *req.Minutes > 48 {
		utils.SendValidationError(c, "Minutes must be between 0 and 48", "")
		return
	}

	var game models.Game
	if err := h.db.First(&game, gameID).Error; err != nil {
		utils.SendNotFound(c, "Game not found")
		return
	}

	override := models.ManualOverride{
		GameID:           uint(gameID),
		PlayerExternalID: playerID,
		Minutes:          *req.Minutes,
	}
	var existing models.ManualOverride
	err = h.db.Where("game_id = ? AND player_external_id = ?", gameID, playerID).
		First(&existing).Error
	if err == nil {
		override.ID = existing.ID
		override.CreatedAt = existing.CreatedAt
	}
	if err := h.db.Save(&override).Error; err != nil {
		utils.SendInternalError(c, "Failed to save override")
		return
	}

	h.projections.Invalidate(c.Request.Context(), uint(gameID))
	result, err := h.projections.Recompute(c.Request.Context(), uint(gameID), "override")
	if err != nil {
		utils.SendInternalError(c, "Override saved but recompute failed")
		return
	}
	utils.SendSuccess(c, result)
}

// DeleteOverride removes a pin and recomputes
func (h *OverridesHandler) DeleteOverride(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid game ID", err.Error())
		return
	}
	playerID := c.Param("playerId")

	result := h.db.Where("game_id = ? AND player_external_id = ?", gameID, playerID).
		Delete(&models.ManualOverride{})
	if result.Error != nil {
		utils.SendInternalError(c, "Failed to delete override")
		return
	}
	if result.RowsAffected == 0 {
		utils.SendNotFound(c, "Override not found")
		return
	}

	h.projections.Invalidate(c.Request.Context(), uint(gameID))
	recomputed, err := h.projections.Recompute(c.Request.Context(), uint(gameID), "override")
	if err != nil {
		utils.SendInternalError(c, "Override removed but recompute failed")
		return
	}
	utils.SendSuccess(c, recomputed)
}
