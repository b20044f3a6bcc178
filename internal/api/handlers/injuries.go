package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/internal/services"
	"github.com/courtsight/nba-dashboard/pkg/database"
	"github.com/courtsight/nba-dashboard/pkg/utils"
)

type InjuriesHandler struct {
	db    *database.DB
	cache *services.CacheService
}

func NewInjuriesHandler(db *database.DB, cache *services.CacheService) *InjuriesHandler {
	return &InjuriesHandler{
		db:    db,
		cache: cache,
	}
}

// ListInjuries returns injury records for a date, defaulting to today
func (h *InjuriesHandler) ListInjuries(c *gin.Context) {
	dateStr := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.SendValidationError(c, "Invalid date, expected YYYY-MM-DD", err.Error())
		return
	}

	ctx := context.Background()
	cacheKey := services.InjuriesCacheKey(dateStr)
	var records []models.InjuryRecord
	if h.cache != nil {
		if err := h.cache.Get(ctx, cacheKey, &records); err == nil {
			utils.SendSuccess(c, records)
			return
		}
	}

	dayEnd := date.Add(24 * time.Hour)
	err = h.db.Where("report_date >= ? AND report_date < ?", date, dayEnd).
		Order("team ASC, player_name ASC").
		Find(&records).Error
	if err != nil {
		utils.SendInternalError(c, "Failed to load injury records")
		return
	}

	if h.cache != nil && len(records) > 0 {
		h.cache.Set(ctx, cacheKey, records, 5*time.Minute)
	}
	utils.SendSuccess(c, records)
}
