package pdf

import (
	"strings"
)

// HittingReport carries the assembled content for the one-page hitting
// report. Left and Right are the formatted split rows in table column
// order; the chart paths come straight from the scrape output.
type HittingReport struct {
	PlayerName string
	DateRange  string
	LogoPath   string

	Games     string
	PA        string
	Slashline string

	Left  []string
	Right []string

	SwingRate float64
	ChaseRate float64
	ZoneSwing float64
	ZoneWhiff float64

	SLGHeatMap     string
	BAHeatMap      string
	SwingMissChart string
}

var hittingHeaders = []string{
	"Pitcher Hand", "Take%", "Swing%", "ZSwing%", "ZWhiff%",
	"Chase%", "Hard%", "Exit Velo", "Max EV", "LA",
}

// RenderHitting lays out and writes the hitting report.
func RenderHitting(r HittingReport, outPath string) error {
	d := NewPortrait()
	d.AddPage()

	// Header: stacked name left, headshot circle, underlined season
	// facts right, logo far right.
	first, last := splitName(r.PlayerName)
	d.Text(0.75, 1.3, 45, "B", first, rgb{0, 0, 0})
	d.Text(0.75, 1.9, 45, "B", last, rgb{0, 0, 0})

	d.f.SetDrawColor(lightGr.r, lightGr.g, lightGr.b)
	d.f.SetLineWidth(0.03)
	d.f.Circle(3.2, 1.5, 0.6, "D")

	facts := []string{
		"Games: " + r.Games,
		"Plate Appearances: " + r.PA,
		"Slashline: " + r.Slashline,
	}
	ends := []float64{6.2, 6.8, 7.0}
	for i, fact := range facts {
		y := 1.1 + float64(i)*0.45
		d.Text(4.5, y, 14, "", fact, rgb{0, 0, 0})
		d.Line(4.5, y+0.1, ends[i], rgb{0, 0, 0})
	}
	d.ImageBox(r.LogoPath, 7.2, 0.8, 1.0, 1.0, "LOGO")

	// Heat maps side by side.
	d.ImageBox(r.SLGHeatMap, 0.6, 2.5, 3.36, 3.36, "SLG Heat Map")
	d.ImageBox(r.BAHeatMap, 4.55, 2.5, 3.36, 3.36, "BA Heat Map")

	// Splits table.
	rows := [][]string{
		hittingHeaders,
		append([]string{"Left"}, r.Left...),
		append([]string{"Right"}, r.Right...),
	}
	widths := make([]float64, len(hittingHeaders))
	widths[0] = 1.0
	for i := 1; i < len(widths); i++ {
		widths[i] = 0.65
	}
	tableW := 1.0 + 9*0.65
	d.StatTable((d.W-tableW)/2, 6.1, widths, 0.3, rows)

	// Bottom: metric circles flanking the swing-and-miss chart.
	d.MetricCircle(1.8, d.H-3.0, r.SwingRate, "Swing Rate")
	d.MetricCircle(1.8, d.H-1.5, r.ChaseRate, "Chase Rate")
	d.MetricCircle(6.7, d.H-3.0, r.ZoneSwing, "Zone Swing Rate")
	d.MetricCircle(6.7, d.H-1.5, r.ZoneWhiff, "Zone Whiff Rate")
	d.ImageBox(r.SwingMissChart, 2.5, d.H-3.6, 3.5, 3.5, "Swing & Miss")

	d.TextCentered(d.W/2, d.H-0.3, 14, "B", r.DateRange, navy)

	return d.Save(outPath)
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
