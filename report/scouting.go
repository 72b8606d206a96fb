package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/afbaseball/trureport/models"
	"github.com/afbaseball/trureport/pdf"
	"github.com/afbaseball/trureport/scraper"
)

// heatMapsPerPitcher is how many heat maps the team pitching page
// renders per roster pitcher: three count states by six pitch/hand
// splits.
const heatMapsPerPitcher = 18

func (g *Generator) scouting(ctx context.Context, req models.ReportRequest, resp *models.ReportResponse) error {
	if req.DisableScraping {
		return models.NewReportError(models.ErrCodeInvalidInput,
			"scouting reports read the roster from the live page; scraping cannot be disabled", nil)
	}

	chartBase := filepath.Join(g.cfg.Report.OutputDir, "scouting_charts")

	scrapeStart := time.Now()
	var pitchers []pdf.ScoutingPitcher
	err := g.withSession(ctx, func(s *scraper.Scraper) error {
		url := g.urls.TeamPitching(req.TeamName, req.TeamID, req.Season)
		if err := s.Navigate(ctx, url); err != nil {
			return err
		}

		if _, err := s.AwaitRoster(ctx); err != nil {
			return err
		}

		page, err := s.Session().Page(ctx)
		if err != nil {
			return err
		}
		ev := scraper.PageEvaluator{Page: page}

		roster, err := scraper.ExtractRoster(ctx, ev)
		if err != nil {
			return err
		}
		if len(roster) == 0 {
			return models.NewReportError(models.ErrCodeRosterEmpty,
				fmt.Sprintf("no pitchers found on team page for %s", req.TeamID), nil)
		}
		slog.Info("roster extracted", "pitchers", len(roster))

		// Every pitcher's charts must be mounted before discovery, or
		// the per-pitcher ordinal arithmetic goes wrong.
		if err := s.ProgressiveScroll(ctx); err != nil {
			return err
		}

		charts, err := scraper.FindCharts(ev, []models.ChartTag{
			models.TagHeatMap, models.TagPitchBreakChart,
		})
		if err != nil {
			return err
		}
		heatMapCount, movementCount := 0, 0
		for _, c := range charts {
			switch c.Tag {
			case models.TagHeatMap:
				heatMapCount++
			case models.TagPitchBreakChart:
				movementCount++
			}
		}
		slog.Info("team page charts discovered",
			"heatMaps", heatMapCount, "movement", movementCount)

		for i, entry := range roster {
			p, perr := g.scoutPitcher(ctx, s, ev, chartBase, i, entry, heatMapCount, movementCount)
			if perr != nil {
				slog.Warn("pitcher chart capture failed, page will render placeholders",
					"pitcher", entry.Name, "error", perr)
			}
			pitchers = append(pitchers, p)
		}
		return nil
	})
	if err != nil {
		return err
	}
	resp.Timing.ScrapeMs = time.Since(scrapeStart).Milliseconds()

	renderStart := time.Now()
	data := pdf.ScoutingReport{
		TeamName: req.TeamName,
		LogoPath: g.cfg.Report.LogoPath,
		Pitchers: pitchers,
	}
	outPath := filepath.Join(g.cfg.Report.OutputDir,
		fmt.Sprintf("%s_Scouting_Report.pdf", fileSafe(req.TeamName)))
	if err := pdf.RenderScouting(data, outPath); err != nil {
		return err
	}
	resp.Timing.RenderMs = time.Since(renderStart).Milliseconds()
	resp.PDFPath = outPath
	return nil
}

// scoutPitcher captures one pitcher's charts: the 18-heat-map block at
// this pitcher's ordinal offset, the movement chart at the pitcher's
// own index, and the headshot over plain HTTP.
func (g *Generator) scoutPitcher(ctx context.Context, s *scraper.Scraper, ev scraper.Evaluator, chartBase string, index int, entry models.PitcherRosterEntry, heatMapCount, movementCount int) (pdf.ScoutingPitcher, error) {
	p := pdf.ScoutingPitcher{
		Name:       entry.Name,
		Number:     entry.Number,
		Handedness: entry.Handedness,
	}

	dir := filepath.Join(chartBase, fmt.Sprintf("pitcher_%02d_%s", index, fileSafe(entry.Name)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return p, err
	}

	offset := index * heatMapsPerPitcher
	for i := 0; i < heatMapsPerPitcher && offset+i < heatMapCount; i++ {
		asset, err := s.CaptureToFile(ctx, ev, models.TagHeatMap, offset+i,
			filepath.Join(dir, fmt.Sprintf("heatmap_%d", i)))
		if err != nil {
			slog.Warn("heat map capture failed", "pitcher", entry.Name, "index", i, "error", err)
			p.HeatMaps = append(p.HeatMaps, "")
			continue
		}
		p.HeatMaps = append(p.HeatMaps, asset.Path)
	}

	if index < movementCount {
		asset, err := s.CaptureToFile(ctx, ev, models.TagPitchBreakChart, index,
			filepath.Join(dir, "movement"))
		if err != nil {
			slog.Warn("movement chart capture failed", "pitcher", entry.Name, "error", err)
		} else {
			p.Movement = asset.Path
		}
	}

	if entry.HeadshotURL != "" {
		data, err := s.Fetcher().Fetch(ctx, entry.HeadshotURL)
		if err != nil {
			slog.Warn("headshot download failed", "pitcher", entry.Name, "error", err)
		} else {
			ext := scraper.DetectImageExt(data, entry.HeadshotURL)
			path := filepath.Join(dir, "headshot."+ext)
			if werr := os.WriteFile(path, data, 0o644); werr == nil {
				p.Headshot = path
			}
		}
	}

	return p, nil
}
