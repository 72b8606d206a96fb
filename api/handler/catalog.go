package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/afbaseball/trureport/catalog"
	"github.com/afbaseball/trureport/models"
)

// ListTeams returns a handler for GET /api/v1/catalog/teams.
func ListTeams(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		teams, err := cat.Teams(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"teams": teams, "count": len(teams)})
	}
}

// ListPlayers returns a handler for GET /api/v1/catalog/teams/:id/players.
func ListPlayers(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID := c.Param("id")
		players, err := cat.Players(c.Request.Context(), teamID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"team_id": teamID, "players": players, "count": len(players)})
	}
}

// syncRequest is the body for POST /api/v1/catalog/sync.
type syncRequest struct {
	Season         int  `json:"season" binding:"required"`
	IncludePlayers bool `json:"include_players"`
	MinPA          int  `json:"min_pa"`
}

// catalogSyncTimeout bounds one sync run. The season-wide player table
// is a single large CSV fetch, not a crawl, so minutes suffice.
const catalogSyncTimeout = 5 * time.Minute

// SyncCatalog returns a handler for POST /api/v1/catalog/sync. It
// refreshes the team table and, on request, the player table from the
// vendor API.
func SyncCatalog(cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req syncRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(models.NewReportError(
				models.ErrCodeInvalidInput, "invalid request body: "+err.Error(), nil)))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), catalogSyncTimeout)
		defer cancel()

		teams, err := cat.SyncTeams(ctx, req.Season)
		if err != nil {
			c.JSON(statusFor(err), errorResponse(err))
			return
		}

		players := 0
		if req.IncludePlayers {
			players, err = cat.SyncPlayers(ctx, req.Season, req.MinPA)
			if err != nil {
				c.JSON(statusFor(err), errorResponse(err))
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"season":  req.Season,
			"teams":   teams,
			"players": players,
		})
	}
}
