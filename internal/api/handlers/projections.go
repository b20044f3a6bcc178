package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsight/nba-dashboard/internal/services"
	"github.com/courtsight/nba-dashboard/pkg/utils"
)

type ProjectionsHandler struct {
	projections *services.ProjectionService
}

func NewProjectionsHandler(projections *services.ProjectionService) *ProjectionsHandler {
	return &ProjectionsHandler{
		projections: projections,
	}
}

// GetProjections returns normalized statlines for a game, computing them on
// first access
func (h *ProjectionsHandler) GetProjections(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid game ID", err.Error())
		return
	}

	result, err := h.projections.GetProjections(c.Request.Context(), uint(gameID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Game not found")
			return
		}
		utils.SendInternalError(c, "Failed to compute projections")
		return
	}
	utils.SendSuccess(c, result)
}

// Recompute forces a fresh normalization pass for a game
func (h *ProjectionsHandler) Recompute(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid game ID", err.Error())
		return
	}

	h.projections.Invalidate(c.Request.Context(), uint(gameID))
	result, err := h.projections.Recompute(c.Request.Context(), uint(gameID), "manual")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Game not found")
			return
		}
		utils.SendInternalError(c, "Failed to compute projections")
		return
	}
	utils.SendSuccess(c, result)
}
