package report

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/afbaseball/trureport/models"
	"github.com/afbaseball/trureport/pdf"
	"github.com/afbaseball/trureport/scraper"
	"github.com/afbaseball/trureport/trumedia"
)

var umpireColumns = []string{"[G]", "[PA]", "[MC#]", "[MC%]", "[CC#]", "[CC%]", "[FrmRAA]"}

func (g *Generator) umpire(ctx context.Context, req models.ReportRequest, resp *models.ReportResponse) error {
	chartBase := filepath.Join(g.cfg.Report.OutputDir, "umpire_charts")
	homeDir := filepath.Join(chartBase, "home")
	awayDir := filepath.Join(chartBase, "away")

	// Home pitchers work the top half of innings, away pitchers the
	// bottom; each staff's zone charts come from its own side-filtered
	// page. Both scrapes share one session.
	scrapeStart := time.Now()
	if !req.DisableScraping {
		err := g.withSession(ctx, func(s *scraper.Scraper) error {
			homeURL := g.urls.UmpireTeam(req.TeamName, req.TeamID, req.StartDate, req.EndDate, "t")
			if err := s.Navigate(ctx, homeURL); err != nil {
				return err
			}
			homeAssets, err := s.ScrapePage(ctx, homeDir)
			if err != nil {
				return err
			}
			resp.Charts = append(resp.Charts, homeAssets...)

			awayURL := g.urls.UmpireTeam(req.AwayTeamName, req.AwayTeamID, req.StartDate, req.EndDate, "b")
			if err := s.Navigate(ctx, awayURL); err != nil {
				return err
			}
			awayAssets, err := s.ScrapePage(ctx, awayDir)
			if err != nil {
				return err
			}
			resp.Charts = append(resp.Charts, awayAssets...)
			return nil
		})
		if err != nil {
			slog.Warn("umpire chart scraping failed, continuing without charts", "error", err)
		}
	}
	resp.Timing.ScrapeMs = time.Since(scrapeStart).Milliseconds()

	fetchStart := time.Now()
	dateFilter := trumedia.DateRange(req.StartDate, req.EndDate)

	overall := g.umpireStats(ctx, req.Season, []string{req.TeamID, req.AwayTeamID}, dateFilter, "")
	home := g.umpireStats(ctx, req.Season, []string{req.TeamID}, dateFilter, "bottom")
	away := g.umpireStats(ctx, req.Season, []string{req.AwayTeamID}, dateFilter, "top")
	resp.Timing.FetchMs = time.Since(fetchStart).Milliseconds()

	renderStart := time.Now()
	data := pdf.UmpireReport{
		HomeTeam: req.TeamName,
		AwayTeam: req.AwayTeamName,
		DateStr:  slashDate(req.StartDate),
		LogoPath: g.cfg.Report.LogoPath,

		Overall: overall,
		Home:    home,
		Away:    away,

		HomeChartsDir: homeDir,
		AwayChartsDir: awayDir,
	}

	outPath := filepath.Join(g.cfg.Report.OutputDir,
		fmt.Sprintf("Umpire_Report_%s_%s_%s_to_%s.pdf",
			fileSafe(req.TeamName), fileSafe(req.AwayTeamName), req.StartDate, req.EndDate))
	if err := pdf.RenderUmpire(data, outPath); err != nil {
		return err
	}
	resp.Timing.RenderMs = time.Since(renderStart).Milliseconds()
	resp.PDFPath = outPath
	return nil
}

// umpireStats fetches the five handedness splits for one page. The
// side filter narrows every split to the half of innings a single
// staff pitches.
func (g *Generator) umpireStats(ctx context.Context, season int, teamIDs []string, dateFilter trumedia.Filter, side string) pdf.UmpireStats {
	base := trumedia.And(dateFilter, trumedia.InningSide(side))
	return pdf.UmpireStats{
		Overall: g.umpireSplit(ctx, season, teamIDs, base),
		VsLHP:   g.umpireSplit(ctx, season, teamIDs, trumedia.And(base, trumedia.PitcherHand("L"))),
		VsRHP:   g.umpireSplit(ctx, season, teamIDs, trumedia.And(base, trumedia.PitcherHand("R"))),
		VsLHH:   g.umpireSplit(ctx, season, teamIDs, trumedia.And(base, trumedia.BatterHand("L"))),
		VsRHH:   g.umpireSplit(ctx, season, teamIDs, trumedia.And(base, trumedia.BatterHand("R"))),
	}
}

// umpireSplit aggregates one split across both teams' game logs.
// Accuracy counts every called pitch; the zone misses re-query with
// the miss direction pinned (strike called ball inside, ball called
// strike outside).
func (g *Generator) umpireSplit(ctx context.Context, season int, teamIDs []string, filter trumedia.Filter) pdf.UmpireSplit {
	var correct, missed float64
	for _, teamID := range teamIDs {
		t := g.client.QuerySoft(ctx, trumedia.Query{
			Source: trumedia.SourceTeamGames, Season: season, Team: teamID,
			Columns: umpireColumns, Filter: filter, Label: "umpire",
		})
		correct += t.Sum("CC#")
		missed += t.Sum("MC#")
	}

	split := pdf.UmpireSplit{
		Correct:   int(correct),
		Total:     int(correct + missed),
		IZoneMiss: g.umpireZoneMiss(ctx, season, teamIDs, trumedia.And(filter, trumedia.InZoneCalledBall)),
		OZoneMiss: g.umpireZoneMiss(ctx, season, teamIDs, trumedia.And(filter, trumedia.OutZoneCalledStrike)),
	}
	if split.Total > 0 {
		split.Accuracy = correct / float64(split.Total) * 100
	}
	return split
}

func (g *Generator) umpireZoneMiss(ctx context.Context, season int, teamIDs []string, filter trumedia.Filter) int {
	var missed float64
	for _, teamID := range teamIDs {
		t := g.client.QuerySoft(ctx, trumedia.Query{
			Source: trumedia.SourceTeamGames, Season: season, Team: teamID,
			Columns: umpireColumns, Filter: filter, Label: "umpire zone",
		})
		missed += t.Sum("MC#")
	}
	return int(missed)
}
