package report

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"time"

	"github.com/afbaseball/trureport/models"
	"github.com/afbaseball/trureport/pdf"
	"github.com/afbaseball/trureport/trumedia"
)

// Column sets for the pitching report fetches. The API pins rate
// columns with a "|PIT" qualifier on some endpoints, hence the
// fallback names at read time.
var (
	pitchMetricColumns = []string{
		"[Vel]", "[VelMax]", "[Spin]", "[IndVertBrk]", "[HorzBrk]",
		"[RelX]", "[RelZ]", "[Extension]", "[Tilt]",
	}
	summaryColumns = []string{
		"[IP]", "[BF]", "[P|PIT]", "[FPStk%|PIT]", "[Swing%|PIT]",
		"[SwStrk%|PIT]", "[K%|PIT]", "[BB%|PIT]", "[K/BB|PIT]",
	}
	page2Columns = []string{
		"[P|PIT]", "[Strike%|PIT]", "[InZone%|PIT]", "[SwStrk%|PIT]",
		"[Chase%|PIT]", "[Miss%|PIT]",
	}
)

func (g *Generator) pitching(ctx context.Context, req models.ReportRequest, resp *models.ReportResponse) error {
	chartDir := filepath.Join(g.cfg.Report.OutputDir, "pitching_charts")

	scrapeStart := time.Now()
	if !req.DisableScraping {
		url := g.urls.PlayerPitching(req.PlayerName, req.PlayerID, req.StartDate, req.EndDate)
		resp.Charts = g.scrapeCharts(ctx, url, chartDir)
	}
	resp.Timing.ScrapeMs = time.Since(scrapeStart).Milliseconds()

	fetchStart := time.Now()
	dateFilter := trumedia.DateRange(req.StartDate, req.EndDate)

	current := g.pitchTypeTables(ctx, req, pitchMetricColumns, dateFilter)
	season := g.pitchTypeTables(ctx, req, pitchMetricColumns, "")

	summary := g.client.QuerySoft(ctx, trumedia.Query{
		Source: trumedia.SourcePlayerGames, Season: req.Season, Player: req.PlayerID,
		Columns: summaryColumns, Filter: dateFilter, Label: "summary",
	})
	attack := g.client.QuerySoft(ctx, trumedia.Query{
		Source: trumedia.SourcePlayerGames, Season: req.Season, Player: req.PlayerID,
		Columns: []string{"[InZone%|PIT]"},
		Filter:  trumedia.And(trumedia.AttackCounts, dateFilter), Label: "attack",
	})
	finish := g.client.QuerySoft(ctx, trumedia.Query{
		Source: trumedia.SourcePlayerGames, Season: req.Season, Player: req.PlayerID,
		Columns: []string{"[Strike%|PIT]"},
		Filter:  trumedia.And(trumedia.FinishCounts, dateFilter), Label: "finish",
	})

	p2Current := g.pitchTypeTables(ctx, req, page2Columns, dateFilter)
	p2Season := g.pitchTypeTables(ctx, req, page2Columns, "")
	resp.Timing.FetchMs = time.Since(fetchStart).Milliseconds()

	renderStart := time.Now()
	data := pdf.PitchingReport{
		PlayerName:   req.PlayerName,
		DateRange:    displayDateRange(req.StartDate, req.EndDate),
		LogoPath:     g.cfg.Report.LogoPath,
		PitchTable:   pitchStatsTable(current, season),
		SummaryTable: summaryTable(summary, attack, finish),
		Page2Table:   page2Table(p2Current, p2Season),
		Charts:       chartMap(resp.Charts),
	}

	outPath := filepath.Join(g.cfg.Report.OutputDir,
		fmt.Sprintf("%s_Pitching_Report_%s_to_%s.pdf",
			fileSafe(req.PlayerName), req.StartDate, req.EndDate))
	if err := pdf.RenderPitching(data, outPath); err != nil {
		return err
	}
	resp.Timing.RenderMs = time.Since(renderStart).Milliseconds()
	resp.PDFPath = outPath
	return nil
}

// pitchTypeTables fetches one table per pitch-type group, each tagged
// with the group name. An extra filter narrows all groups equally.
func (g *Generator) pitchTypeTables(ctx context.Context, req models.ReportRequest, columns []string, extra trumedia.Filter) map[string]*trumedia.Table {
	tables := make(map[string]*trumedia.Table, len(trumedia.PitchGroups))
	for _, group := range trumedia.PitchGroups {
		tables[group.Name] = g.client.QuerySoft(ctx, trumedia.Query{
			Source:  trumedia.SourcePlayerGames,
			Season:  req.Season,
			Player:  req.PlayerID,
			Columns: columns,
			Filter:  trumedia.And(group.Filter, extra),
			Label:   group.Name,
		})
	}
	return tables
}

// pitchStatsTable builds the page-1 arsenal table: per pitch type, a
// Current row from the date window and a Season row, sorted by type
// name so the two time frames sit adjacent.
func pitchStatsTable(current, season map[string]*trumedia.Table) [][]string {
	rows := [][]string{{
		"Pitch", "Time", "Vel", "MxVel", "Spin", "IndVertBrk", "HorzBrk",
		"RelX", "RelZ", "Extension", "Tilt",
	}}

	for _, name := range presentTypes(current, season) {
		if t := current[name]; !t.Empty() {
			rows = append(rows, pitchMetricRow(name, "Current", t))
		}
		if t := season[name]; !t.Empty() {
			rows = append(rows, pitchMetricRow(name, "Season", t))
		}
	}
	if len(rows) == 1 {
		rows = append(rows, append([]string{"No data available"}, make([]string, 10)...))
	}
	return rows
}

func pitchMetricRow(name, timeframe string, t *trumedia.Table) []string {
	return []string{
		name, timeframe,
		trumedia.FormatStat(meanOf(t, "Vel"), 1, false),
		trumedia.FormatStat(maxOf(t, "VelMax"), 1, false),
		trumedia.FormatStat(meanOf(t, "Spin"), 0, false),
		trumedia.FormatStat(meanOf(t, "IndVertBrk"), 1, false),
		trumedia.FormatStat(meanOf(t, "HorzBrk"), 1, false),
		trumedia.FormatStat(meanOf(t, "RelX"), 1, true),
		trumedia.FormatStat(meanOf(t, "RelZ"), 1, true),
		trumedia.FormatStat(meanOf(t, "Extension"), 2, false),
		trumedia.FormatStatString(t.First("Tilt"), 1),
	}
}

// summaryTable builds the page-1 outing summary with the staff goals
// row beneath it. Counting stats sum across games; rates average.
func summaryTable(summary, attack, finish *trumedia.Table) [][]string {
	header := []string{"IP", "BF", "Pitches", "FPS%", "Swing%", "SwStk%",
		"Attack%", "Finish%", "K%", "BB%", "K-BB"}

	values := []string{
		trumedia.FormatStat(summary.Sum("IP"), 1, false),
		trumedia.FormatStat(summary.Sum("BF"), 0, false),
		trumedia.FormatStat(summary.Sum("P|PIT", "P"), 0, false),
		trumedia.FormatPercentage(meanOrZero(summary, "FPStk%|PIT", "FPStk%"), 0),
		trumedia.FormatPercentage(meanOrZero(summary, "Swing%|PIT", "Swing%"), 0),
		trumedia.FormatPercentage(meanOrZero(summary, "SwStrk%|PIT", "SwStrk%"), 0),
		trumedia.FormatPercentage(meanOrZero(attack, "InZone%|PIT", "InZone%"), 0),
		trumedia.FormatPercentage(meanOrZero(finish, "Strike%|PIT", "Strike%"), 0),
		trumedia.FormatPercentage(meanOrZero(summary, "K%|PIT", "K%"), 1),
		trumedia.FormatPercentage(meanOrZero(summary, "BB%|PIT", "BB%"), 1),
		trumedia.FormatStat(meanOrZero(summary, "K/BB|PIT", "K/BB"), 1, false),
	}

	goals := []string{"Goals", "", "", "70%", "50%", "15%", "60%", "75%", "25%", "10%", "5"}
	return [][]string{header, values, goals}
}

// page2Table builds the plate-discipline table: pitch count summed,
// rates averaged, Current and Season rows per type.
func page2Table(current, season map[string]*trumedia.Table) [][]string {
	rows := [][]string{{"Pitch", "Time", "P", "Strike%", "InZone%", "SwStrk%", "Chase%", "Miss%"}}

	for _, name := range presentTypes(current, season) {
		if t := current[name]; !t.Empty() {
			rows = append(rows, page2Row(name, "Current", t))
		}
		if t := season[name]; !t.Empty() {
			rows = append(rows, page2Row(name, "Season", t))
		}
	}
	if len(rows) == 1 {
		rows = append(rows, append([]string{"No data available"}, make([]string, 7)...))
	}
	return rows
}

func page2Row(name, timeframe string, t *trumedia.Table) []string {
	return []string{
		name, timeframe,
		trumedia.FormatStat(t.Sum("P|PIT", "P"), 0, false),
		trumedia.FormatPercentage(meanOf(t, "Strike%|PIT", "Strike%"), 0),
		trumedia.FormatPercentage(meanOf(t, "InZone%|PIT", "InZone%"), 0),
		trumedia.FormatPercentage(meanOf(t, "SwStrk%|PIT", "SwStrk%"), 0),
		trumedia.FormatPercentage(meanOf(t, "Chase%|PIT", "Chase%"), 0),
		trumedia.FormatPercentage(meanOf(t, "Miss%|PIT", "Miss%"), 0),
	}
}

// presentTypes lists pitch types with data in either time frame,
// alphabetically.
func presentTypes(current, season map[string]*trumedia.Table) []string {
	seen := make(map[string]bool)
	for name, t := range current {
		if !t.Empty() {
			seen[name] = true
		}
	}
	for name, t := range season {
		if !t.Empty() {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// meanOf averages a column, NaN when nothing parses so the formatter
// renders a blank cell.
func meanOf(t *trumedia.Table, names ...string) float64 {
	if v, ok := t.Mean(names...); ok {
		return v
	}
	return math.NaN()
}

func maxOf(t *trumedia.Table, names ...string) float64 {
	if v, ok := t.Max(names...); ok {
		return v
	}
	return math.NaN()
}

// meanOrZero averages a column, zero when nothing parses; summary cells
// render a zero rather than a hole.
func meanOrZero(t *trumedia.Table, names ...string) float64 {
	v, _ := t.Mean(names...)
	return v
}
