package pdf

// PitchingReport carries the assembled content for the two-page
// pitching report. Tables arrive as formatted cell grids, header row
// first; Charts maps chart file stems ("pitch-break-chart",
// "pitch-chart_0", ...) to files on disk.
type PitchingReport struct {
	PlayerName string
	DateRange  string
	LogoPath   string

	PitchTable   [][]string
	SummaryTable [][]string
	Page2Table   [][]string

	Charts map[string]string
}

// RenderPitching lays out and writes the pitching report.
func RenderPitching(r PitchingReport, outPath string) error {
	d := NewPortrait()

	// ── Page 1: arsenal table, movement trio, zone charts, summary ──
	d.AddPage()
	y := d.header(r.LogoPath, r.PlayerName+" - Pitching Report", r.DateRange)

	pitchWidths := tableWidths(r.PitchTable, 7.6)
	y = d.StatTable(0.45, y, pitchWidths, 0.22, r.PitchTable) + 0.25

	trio := []string{"pitch-break-chart", "radial-histogram-chart", "heat-map"}
	trioLabels := []string{"Pitch Movement", "Tilt by Type", "Heat Map"}
	x := (d.W - 3*2.3) / 2
	for i, name := range trio {
		d.ImageBox(r.Charts[name], x+float64(i)*2.3+0.05, y, 2.2, 2.2, trioLabels[i])
	}
	y += 2.4

	zones := []string{"pitch-chart_0", "pitch-chart_1", "pitch-chart_2", "pitch-chart_3"}
	zoneLabels := []string{"All Pitches", "Attack Zone", "Finish Zone", "Swing & Miss"}
	x = (d.W - 4*1.85) / 2
	for i, name := range zones {
		cx := x + float64(i)*1.85
		d.TextCentered(cx+0.925, y+0.12, 9, "B", zoneLabels[i], navy)
		d.ImageBox(r.Charts[name], cx+0.125, y+0.2, 1.6, 1.6, zoneLabels[i])
	}
	y += 2.1

	sumWidths := tableWidths(r.SummaryTable, 7.6)
	d.StatTable(0.45, y, sumWidths, 0.22, r.SummaryTable)

	// ── Page 2: plate-discipline splits and release views ──
	d.AddPage()
	y = d.header(r.LogoPath, r.PlayerName+" - Pitching Report (contd.)", r.DateRange)

	p2Widths := tableWidths(r.Page2Table, 7.6)
	y = d.StatTable(0.45, y, p2Widths, 0.22, r.Page2Table) + 0.35

	trio2 := []string{"release-point-chart", "pie-chart", "extension-point-chart"}
	trio2Labels := []string{"Pitch Release", "Pitch Usage", "Extension View"}
	x = (d.W - 3*2.3) / 2
	for i, name := range trio2 {
		d.ImageBox(r.Charts[name], x+float64(i)*2.3+0.05, y, 2.2, 2.2, trio2Labels[i])
	}

	return d.Save(outPath)
}

// header draws the shared top band: logo left, title and date range
// centered, photo placeholder right. Returns the content start y.
func (d *Doc) header(logoPath, title, dateRange string) float64 {
	d.ImageBox(logoPath, 0.5, 0.3, 0.96, 0.96, "LOGO")
	d.TextCentered(d.W/2, 0.75, 18, "B", title, navy)
	if dateRange != "" {
		d.TextCentered(d.W/2, 1.05, 11, "", dateRange, rgb{0, 0, 0})
	}
	d.Placeholder(d.W-1.46, 0.3, 0.96, 0.96, "PHOTO")
	return 1.5
}

// tableWidths sizes columns to the total width, with the first column
// half again as wide as the rest to hold row labels.
func tableWidths(rows [][]string, total float64) []float64 {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return []float64{total}
	}
	unit := total / (float64(cols) + 0.5)
	widths := make([]float64, cols)
	widths[0] = unit * 1.5
	for i := 1; i < cols; i++ {
		widths[i] = unit
	}
	return widths
}
