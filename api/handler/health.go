package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/afbaseball/trureport/browser"
	"github.com/afbaseball/trureport/config"
	"github.com/afbaseball/trureport/models"
)

// Health returns a handler for GET /api/v1/health.
//
// Status degrades when the browser debugger is unreachable: stats-only
// report runs still work, but chart capture will not.
func Health(cfg *config.Config, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		browserState := "reachable"
		if !browser.Probe(c.Request.Context(), cfg.Browser) {
			status = "degraded"
			browserState = "unreachable"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:   status,
			Uptime:   time.Since(startTime).Round(time.Second).String(),
			Browser:  browserState,
			Version:  "0.1.0",
			Sitename: cfg.Vendor.Sitename,
		})
	}
}
