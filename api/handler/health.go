package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/distill/breaker"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/summarize"
)

// Health returns a handler for GET /api/v1/health.
//
// Status degrades when the summarizer breaker is open, since summary-mode
// requests are then running on fallback tiers only.
func Health(svc *summarize.Service, brk *breaker.Breaker, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := brk.State()

		status := "healthy"
		if state == breaker.Open {
			status = "degraded"
		}

		summarizer := "unavailable"
		if svc != nil {
			if name := svc.BackendName(); name != "" {
				summarizer = name
			} else {
				summarizer = "initializing"
			}
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:     status,
			Uptime:     time.Since(startTime).Round(time.Second).String(),
			Summarizer: summarizer,
			Breaker:    state.String(),
			Version:    "0.1.0",
		})
	}
}
