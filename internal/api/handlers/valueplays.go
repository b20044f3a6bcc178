package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/internal/services"
	"github.com/courtsight/nba-dashboard/pkg/utils"
)

type ValuePlaysHandler struct {
	valuePlays *services.ValuePlayService
}

func NewValuePlaysHandler(valuePlays *services.ValuePlayService) *ValuePlaysHandler {
	return &ValuePlaysHandler{
		valuePlays: valuePlays,
	}
}

// GetValuePlays returns prop edges for a game, biggest edge first
func (h *ValuePlaysHandler) GetValuePlays(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid game ID", err.Error())
		return
	}

	plays, err := h.valuePlays.ValuePlays(c.Request.Context(), uint(gameID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Game not found")
			return
		}
		utils.SendInternalError(c, "Failed to compute value plays")
		return
	}
	utils.SendSuccess(c, plays)
}

type upsertLineRequest struct {
	PlayerExternalID string  `json:"player_external_id" binding:"required"`
	Stat             string  `json:"stat" binding:"required"`
	Line             float64 `json:"line" binding:"required"`
	OverOdds         int     `json:"over_odds"`
	UnderOdds        int     `json:"under_odds"`
	Book             string  `json:"book"`
}

// UpsertLine stores a prop line for comparison against projections
func (h *ValuePlaysHandler) UpsertLine(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid game ID", err.Error())
		return
	}

	var req upsertLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.Line <= 0 {
		utils.SendValidationError(c, "Line must be positive", "")
		return
	}

	line := models.PropLine{
		GameID:           uint(gameID),
		PlayerExternalID: req.PlayerExternalID,
		Stat:             req.Stat,
		Line:             req.Line,
		OverOdds:         req.OverOdds,
		UnderOdds:        req.UnderOdds,
		Book:             req.Book,
	}
	if err := h.valuePlays.UpsertLine(c.Request.Context(), &line); err != nil {
		utils.SendInternalError(c, "Failed to save prop line")
		return
	}
	utils.SendSuccess(c, line)
}
