// Package report assembles the four report workflows: chart scraping,
// stats fetching, and PDF layout for pitching, hitting, umpire and
// scouting reports.
package report

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/afbaseball/trureport/browser"
	"github.com/afbaseball/trureport/config"
	"github.com/afbaseball/trureport/models"
	"github.com/afbaseball/trureport/scraper"
	"github.com/afbaseball/trureport/trumedia"
)

// Generator runs report workflows. It owns the stats client; browser
// sessions are created per run and always closed, because a wedged tab
// from one run must not poison the next.
type Generator struct {
	cfg    *config.Config
	client *trumedia.Client
	urls   trumedia.PageURLs
}

// NewGenerator builds a report generator.
func NewGenerator(cfg *config.Config, client *trumedia.Client) *Generator {
	return &Generator{
		cfg:    cfg,
		client: client,
		urls:   trumedia.PageURLs{Base: cfg.Vendor.SiteBaseURL},
	}
}

// Generate runs the workflow for kind and returns the response. The
// returned error is always a *models.ReportError.
func (g *Generator) Generate(ctx context.Context, kind models.ReportKind, req models.ReportRequest) (*models.ReportResponse, error) {
	if err := req.Validate(kind); err != nil {
		return nil, err
	}
	g.applyDefaults(&req)

	start := time.Now()
	resp := &models.ReportResponse{}

	var err error
	switch kind {
	case models.KindPitching:
		err = g.pitching(ctx, req, resp)
	case models.KindHitting:
		err = g.hitting(ctx, req, resp)
	case models.KindUmpire:
		err = g.umpire(ctx, req, resp)
	case models.KindScouting:
		err = g.scouting(ctx, req, resp)
	default:
		err = models.NewReportError(models.ErrCodeInvalidInput, "unknown report type", nil)
	}
	if err != nil {
		return nil, asReportError(err)
	}

	resp.Success = true
	resp.Timing.TotalMs = time.Since(start).Milliseconds()
	slog.Info("report generated",
		"type", string(kind), "pdf", resp.PDFPath, "totalMs", resp.Timing.TotalMs)
	return resp, nil
}

func (g *Generator) applyDefaults(req *models.ReportRequest) {
	if req.Season == 0 {
		req.Season = g.cfg.Report.Season
	}
	if req.TeamID == "" {
		req.TeamID = g.cfg.Vendor.TeamID
	}
}

// withSession connects a browser session, runs fn against a scraper
// bound to it, and closes the session whatever happens.
func (g *Generator) withSession(ctx context.Context, fn func(*scraper.Scraper) error) error {
	sess := browser.NewSession(g.cfg.Browser)
	if err := sess.Connect(ctx); err != nil {
		return err
	}
	defer sess.Close()
	return fn(scraper.NewScraper(g.cfg.Scraper, sess))
}

// scrapeCharts navigates to url and captures the page's charts into
// dir. Failures degrade to an empty chart set: every workflow except
// scouting renders placeholders rather than dying without visuals.
func (g *Generator) scrapeCharts(ctx context.Context, url, dir string) []models.CapturedAsset {
	var assets []models.CapturedAsset
	err := g.withSession(ctx, func(s *scraper.Scraper) error {
		if err := s.Navigate(ctx, url); err != nil {
			return err
		}
		captured, err := s.ScrapePage(ctx, dir)
		if err != nil {
			return err
		}
		assets = captured
		return nil
	})
	if err != nil {
		slog.Warn("chart scraping failed, continuing without charts", "error", err)
		return nil
	}
	return assets
}

// chartMap indexes captured assets by their file stem.
func chartMap(assets []models.CapturedAsset) map[string]string {
	m := make(map[string]string, len(assets))
	for _, a := range assets {
		m[a.Name] = a.Path
	}
	return m
}

func asReportError(err error) *models.ReportError {
	if re, ok := err.(*models.ReportError); ok {
		return re
	}
	return models.NewReportError(models.ErrCodeInternal, err.Error(), err)
}

// displayDateRange formats "YYYY-MM-DD" bounds as "January 2, 2006 -
// January 9, 2006", collapsing equal bounds to a single date.
func displayDateRange(start, end string) string {
	format := func(s string) string {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return s
		}
		return t.Format("January 2, 2006")
	}
	if start == "" {
		return ""
	}
	if start == end || end == "" {
		return format(start)
	}
	return format(start) + " - " + format(end)
}

// slashDate formats "YYYY-MM-DD" as "MM/DD/YYYY".
func slashDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("01/02/2006")
}

// fileSafe makes a name usable in an output filename.
func fileSafe(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}
