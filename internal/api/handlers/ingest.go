package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtsight/nba-dashboard/internal/services"
)

type IngestHandler struct {
	fetcher *services.DataFetcherService
}

func NewIngestHandler(fetcher *services.DataFetcherService) *IngestHandler {
	return &IngestHandler{
		fetcher: fetcher,
	}
}

// Run triggers an on-demand ingest pass in the background
func (h *IngestHandler) Run(c *gin.Context) {
	go h.fetcher.RunIngest(context.Background())
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"status":  "ingest started",
	})
}
