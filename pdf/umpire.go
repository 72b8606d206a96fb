package pdf

import (
	"fmt"
	"os"
	"path/filepath"
)

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// UmpireSplit is one column of the umpire accuracy page: the zone-call
// accuracy of the crew against one pitcher/batter handedness split.
type UmpireSplit struct {
	Accuracy  float64
	Correct   int
	Total     int
	IZoneMiss int
	OZoneMiss int
}

// UmpireStats holds all five splits of one page.
type UmpireStats struct {
	Overall UmpireSplit
	VsLHP   UmpireSplit
	VsRHP   UmpireSplit
	VsLHH   UmpireSplit
	VsRHH   UmpireSplit
}

func (s UmpireStats) ordered() []UmpireSplit {
	return []UmpireSplit{s.Overall, s.VsLHP, s.VsRHP, s.VsLHH, s.VsRHH}
}

// UmpireReport carries the assembled content for the three-page umpire
// report: one combined page and one per staff. HomeChartsDir and
// AwayChartsDir hold the scraped pitch-chart_N.svg files; the combined
// page overlays both directories so every call lands on one zone.
type UmpireReport struct {
	HomeTeam string
	AwayTeam string
	DateStr  string
	LogoPath string

	Overall UmpireStats
	Home    UmpireStats
	Away    UmpireStats

	HomeChartsDir string
	AwayChartsDir string
}

var splitLabels = []string{"Overall", "vs LHP", "vs RHP", "vs LHH", "vs RHH"}

// RenderUmpire lays out and writes the umpire report.
func RenderUmpire(r UmpireReport, outPath string) error {
	d := NewLandscape()

	d.umpirePage("Overall", r, r.Overall, r.HomeChartsDir, r.AwayChartsDir)
	d.umpirePage(r.HomeTeam+" Pitchers", r, r.Home, r.HomeChartsDir, "")
	d.umpirePage(r.AwayTeam+" Pitchers", r, r.Away, r.AwayChartsDir, "")

	return d.Save(outPath)
}

func (d *Doc) umpirePage(title string, r UmpireReport, stats UmpireStats, chartsDir, overlayDir string) {
	d.AddPage()

	d.ImageBox(r.LogoPath, 0.5, 0.4, 0.8, 0.8, "LOGO")
	d.Text(1.5, 1.0, 24, "B", "Umpires: "+title, rgb{0, 0, 0})
	dateText := "Date: " + r.DateStr
	d.f.SetFont("Helvetica", "B", 12)
	d.Text(d.W-0.5-d.f.GetStringWidth(dateText), 1.0, 12, "B", dateText, rgb{0, 0, 255})

	boxW := (d.W - 1.5) / 5
	splits := stats.ordered()

	// Accuracy row.
	for i, s := range splits {
		x := 0.75 + float64(i)*boxW
		d.f.SetDrawColor(lightGr.r, lightGr.g, lightGr.b)
		d.f.SetLineWidth(0.03)
		d.f.Rect(x, 1.5, boxW-0.1, 1.5, "D")

		label := "Accuracy " + splitLabels[i]
		if i == 0 {
			label = "Overall Accuracy"
		}
		d.AccuracyBox(x, 1.55, boxW-0.1, label,
			fmt.Sprintf("%.1f%%", s.Accuracy),
			fmt.Sprintf("Correct: %d/%d", s.Correct, s.Total))
	}

	// I-Zone row: charts at even ordinals, one per split. O-Zone row
	// follows at the odd ordinals.
	d.umpireZoneRow(3.3, "I-Zone Calls", chartsDir, overlayDir, boxW, splits, 0)
	d.umpireZoneRow(5.5, "O-Zone Calls", chartsDir, overlayDir, boxW, splits, 1)
}

func (d *Doc) umpireZoneRow(y float64, zone, chartsDir, overlayDir string, boxW float64, splits []UmpireSplit, parity int) {
	for i, s := range splits {
		x := 0.75 + float64(i)*boxW

		label := fmt.Sprintf("%s %s", zone, splitLabels[i])
		if i == 0 {
			label = "Overall " + zone
		}
		miss := s.IZoneMiss
		if parity == 1 {
			miss = s.OZoneMiss
		}
		d.TextCentered(x+(boxW-0.1)/2, y-0.15, 8, "", fmt.Sprintf("%s - Miss: %d", label, miss), rgb{0, 0, 0})

		chartW, chartH := (boxW-0.3)*2, 1.3*2
		chartX, chartY := x-0.5, y

		drew := false
		name := fmt.Sprintf("pitch-chart_%d.svg", i*2+parity)
		if chartsDir != "" && fileExists(filepath.Join(chartsDir, name)) {
			d.ZoneChartBox(filepath.Join(chartsDir, name), chartX, chartY, chartW, chartH, "")
			drew = true
		}
		if overlayDir != "" && d.ZoneChartBoxLayer(filepath.Join(overlayDir, name), chartX, chartY, chartW, chartH) {
			drew = true
		}
		if !drew {
			d.Placeholder(chartX, chartY, chartW, chartH, "")
		}
	}
}
