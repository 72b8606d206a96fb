package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/afbaseball/trureport/models"
	"github.com/afbaseball/trureport/pdf"
	"github.com/afbaseball/trureport/trumedia"
)

var hittingColumns = []string{
	"[G]", "[PA]", "[BA]", "[OBP]", "[SLG]", "[K/BB]",
	"[Take%]", "[Swing%]", "[InZoneSwing%]", "[InZoneWhiff%]",
	"[Chase%]", "[Hard%]", "[ExitVel]", "[MxExitVel]", "[LaunchAng]",
}

func (g *Generator) hitting(ctx context.Context, req models.ReportRequest, resp *models.ReportResponse) error {
	chartDir := filepath.Join(g.cfg.Report.OutputDir, "trumedia_charts")

	scrapeStart := time.Now()
	if !req.DisableScraping {
		url := g.urls.PlayerBatting(req.PlayerName, req.PlayerID, req.Season)
		resp.Charts = g.scrapeCharts(ctx, url, chartDir)
	}
	resp.Timing.ScrapeMs = time.Since(scrapeStart).Milliseconds()

	fetchStart := time.Now()
	dateFilter := trumedia.DateRange(req.StartDate, req.EndDate)

	fetch := func(filter trumedia.Filter, label string) *trumedia.Table {
		return g.client.QuerySoft(ctx, trumedia.Query{
			Source: trumedia.SourcePlayerGames, Season: req.Season, Player: req.PlayerID,
			Columns: hittingColumns, Filter: filter, Label: label,
		})
	}

	// Header and metric circles read the full season; the splits table
	// reads the date window split by pitcher hand.
	fullSeason := fetch("", "season")
	left := fetch(trumedia.And(dateFilter, trumedia.PitcherHand("L")), "vs LHP")
	right := fetch(trumedia.And(dateFilter, trumedia.PitcherHand("R")), "vs RHP")
	resp.Timing.FetchMs = time.Since(fetchStart).Milliseconds()

	if fullSeason.Empty() {
		return models.NewReportError(models.ErrCodeAPIFailure,
			fmt.Sprintf("no season statistics for player %s", req.PlayerID), nil)
	}

	renderStart := time.Now()
	charts := chartMap(resp.Charts)
	data := pdf.HittingReport{
		PlayerName: req.PlayerName,
		DateRange:  slashDate(req.StartDate) + " - " + slashDate(req.EndDate),
		LogoPath:   g.cfg.Report.LogoPath,

		Games: trumedia.FormatStat(fullSeason.Sum("G"), 0, false),
		PA:    trumedia.FormatStat(fullSeason.Sum("PA"), 0, false),
		Slashline: fmt.Sprintf("%s / %s / %s",
			trumedia.FormatStat(meanOrZero(fullSeason, "BA"), 3, false),
			trumedia.FormatStat(meanOrZero(fullSeason, "OBP"), 3, false),
			trumedia.FormatStat(meanOrZero(fullSeason, "SLG"), 3, false)),

		Left:  hittingSplitRow(left),
		Right: hittingSplitRow(right),

		SwingRate: rateOf(fullSeason, "Swing%"),
		ChaseRate: rateOf(fullSeason, "Chase%"),
		ZoneSwing: rateOf(fullSeason, "InZoneSwing%"),
		ZoneWhiff: rateOf(fullSeason, "InZoneWhiff%"),

		// The batting page renders its two heat maps in SLG-then-BA
		// order, so the capture ordinals map directly.
		SLGHeatMap:     charts["heat-map_0"],
		BAHeatMap:      charts["heat-map_1"],
		SwingMissChart: charts["pitch-chart"],
	}

	outPath := filepath.Join(g.cfg.Report.OutputDir,
		fmt.Sprintf("%s_%s_to_%s_Hitting_Report.pdf",
			fileSafe(req.PlayerName), req.StartDate, req.EndDate))
	if err := pdf.RenderHitting(data, outPath); err != nil {
		return err
	}
	resp.Timing.RenderMs = time.Since(renderStart).Milliseconds()
	resp.PDFPath = outPath
	return nil
}

// hittingSplitRow formats one pitcher-hand split in table column order.
func hittingSplitRow(t *trumedia.Table) []string {
	return []string{
		trumedia.FormatPercentage(meanOrZero(t, "Take%"), 1),
		trumedia.FormatPercentage(meanOrZero(t, "Swing%"), 1),
		trumedia.FormatPercentage(meanOrZero(t, "InZoneSwing%"), 1),
		trumedia.FormatPercentage(meanOrZero(t, "InZoneWhiff%"), 1),
		trumedia.FormatPercentage(meanOrZero(t, "Chase%"), 1),
		trumedia.FormatPercentage(meanOrZero(t, "Hard%"), 1),
		trumedia.FormatStat(meanOrZero(t, "ExitVel"), 1, false),
		trumedia.FormatStat(maxOrZero(t, "MxExitVel"), 1, false),
		trumedia.FormatStat(meanOrZero(t, "LaunchAng"), 1, false),
	}
}

// rateOf averages a rate column and normalizes ratio-form values to
// percentage form for the metric circles.
func rateOf(t *trumedia.Table, name string) float64 {
	v, _ := t.Mean(name)
	if v > 0 && v < 1 {
		v *= 100
	}
	return v
}

func maxOrZero(t *trumedia.Table, names ...string) float64 {
	v, _ := t.Max(names...)
	return v
}
