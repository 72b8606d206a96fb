package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/afbaseball/trureport/config"
	"github.com/afbaseball/trureport/models"
	"github.com/afbaseball/trureport/report"
	"github.com/afbaseball/trureport/webhook"
)

// reportTimeout bounds one synchronous report run. Scraping a large
// team page plus dozens of stats fetches runs minutes, not seconds.
const reportTimeout = 15 * time.Minute

// Reports returns a handler for POST /api/v1/reports/:type.
//
// With no webhook URL the report runs synchronously and the response
// carries the result. With a webhook URL the handler answers 202 and
// delivers the result to the URL when the run finishes.
func Reports(gen *report.Generator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		kindStr := c.Param("type")
		if !models.ValidKind(kindStr) {
			c.JSON(http.StatusBadRequest, errorResponse(models.NewReportError(
				models.ErrCodeInvalidInput, "unknown report type: "+kindStr, nil)))
			return
		}
		kind := models.ReportKind(kindStr)

		var req models.ReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(models.NewReportError(
				models.ErrCodeInvalidInput, "invalid request body: "+err.Error(), nil)))
			return
		}
		if err := req.Validate(kind); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err))
			return
		}

		if req.WebhookURL != "" {
			go runAsync(gen, cfg, kind, req)
			c.JSON(http.StatusAccepted, models.AcceptedResponse{
				Accepted:   true,
				ReportType: kindStr,
				WebhookURL: req.WebhookURL,
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), reportTimeout)
		defer cancel()

		resp, err := gen.Generate(ctx, kind, req)
		if err != nil {
			c.JSON(statusFor(err), errorResponse(err))
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func runAsync(gen *report.Generator, cfg *config.Config, kind models.ReportKind, req models.ReportRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	resp, err := gen.Generate(ctx, kind, req)
	event := &webhook.Event{
		ReportType: string(kind),
		Timestamp:  time.Now().Unix(),
	}
	if err != nil {
		event.Type = "report.failed"
		event.Data = errorResponse(err)
	} else {
		event.Type = "report.completed"
		event.Data = resp
	}
	webhook.DeliverAsync(req.WebhookURL, cfg.Server.WebhookSecret, event)
}

func errorResponse(err error) models.ReportResponse {
	var re *models.ReportError
	if !errors.As(err, &re) {
		re = models.NewReportError(models.ErrCodeInternal, err.Error(), err)
	}
	return models.ReportResponse{Success: false, Error: re.ToDetail()}
}

// statusFor maps report error codes to HTTP statuses. Upstream
// failures surface as 502 because the service is a client of both the
// browser and the vendor API.
func statusFor(err error) int {
	var re *models.ReportError
	if !errors.As(err, &re) {
		return http.StatusInternalServerError
	}
	switch re.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case models.ErrCodeLaunchTimeout, models.ErrCodeDebuggerNotReady,
		models.ErrCodeNoTabAvailable, models.ErrCodeAttachFailed,
		models.ErrCodeNavigation, models.ErrCodeAPIFailure:
		return http.StatusBadGateway
	case models.ErrCodeRosterEmpty:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
