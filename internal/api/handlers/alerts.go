package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courtsight/nba-dashboard/internal/services"
	"github.com/courtsight/nba-dashboard/pkg/utils"
)

type AlertsHandler struct {
	alerts *services.AlertService
}

func NewAlertsHandler(alerts *services.AlertService) *AlertsHandler {
	return &AlertsHandler{
		alerts: alerts,
	}
}

type subscribeRequest struct {
	PhoneNumber      string `json:"phone_number" binding:"required"`
	PlayerExternalID string `json:"player_external_id" binding:"required"`
}

// Subscribe registers a phone number for a player's injury status alerts
func (h *AlertsHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	sub, err := h.alerts.Subscribe(c.Request.Context(), req.PhoneNumber, req.PlayerExternalID)
	if err != nil {
		utils.SendValidationError(c, "Failed to create subscription", err.Error())
		return
	}
	utils.SendSuccess(c, sub)
}

// Unsubscribe deactivates a subscription
func (h *AlertsHandler) Unsubscribe(c *gin.Context) {
	if err := h.alerts.Unsubscribe(c.Request.Context(), c.Param("id")); err != nil {
		utils.SendNotFound(c, "Subscription not found")
		return
	}
	utils.SendSuccess(c, gin.H{"deleted": true})
}

// ListSubscriptions returns active subscriptions for a phone number
func (h *AlertsHandler) ListSubscriptions(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		utils.SendValidationError(c, "phone query parameter required", "")
		return
	}

	subs, err := h.alerts.ListSubscriptions(c.Request.Context(), phone)
	if err != nil {
		utils.SendValidationError(c, "Failed to list subscriptions", err.Error())
		return
	}
	utils.SendSuccess(c, subs)
}
