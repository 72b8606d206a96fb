package pdf

import (
	"fmt"
	"strings"
)

// ScoutingPitcher is one page of the scouting report: a pitcher's 18
// heat maps in scrape order plus the movement chart and headshot.
type ScoutingPitcher struct {
	Name       string
	Number     string
	Handedness string

	HeatMaps []string
	Movement string
	Headshot string
}

// ScoutingReport carries the assembled content for the per-pitcher
// scouting report, one landscape page per pitcher.
type ScoutingReport struct {
	TeamName string
	LogoPath string
	Pitchers []ScoutingPitcher
}

// heatMapOrder rearranges the dashboard's heat-map ordinals into grid
// order. The page renders each count row as lefty splits then righty
// splits; the dashboard emits the first two rows righty-first, so those
// halves swap. The RISP row already arrives lefty-first.
var heatMapOrder = [18]int{
	3, 4, 5, 0, 1, 2,
	9, 10, 11, 6, 7, 8,
	12, 13, 14, 15, 16, 17,
}

var countRowLabels = [3]string{"< 2K", "2K", "RISP"}

// RenderScouting lays out and writes the scouting report.
func RenderScouting(r ScoutingReport, outPath string) error {
	d := NewLandscape()
	for _, p := range r.Pitchers {
		d.scoutingPage(r, p)
	}
	return d.Save(outPath)
}

func (d *Doc) scoutingPage(r ScoutingReport, p ScoutingPitcher) {
	d.AddPage()

	// Header: logo left, "#N Name (H)" with team beneath, logo right.
	headerH := 1.0
	d.ImageBox(r.LogoPath, 0.5, 0.15, 0.7, 0.7, "TEAM")
	d.TextCentered(d.W/2, headerH/2+0.05, 20, "B", pitcherTitle(p), navy)
	d.TextCentered(d.W/2, headerH/2+0.35, 12, "", r.TeamName, rgb{0, 0, 0})
	d.ImageBox(r.LogoPath, d.W-1.2, 0.15, 0.7, 0.7, "LOGO")

	contentY := headerH + 0.3
	contentH := d.H - contentY - 0.5

	leftW := d.W * 0.78
	rightW := d.W * 0.20
	leftX := 0.3
	rightX := leftX + leftW + 0.2 - 0.1

	// Left: 3 rows of 6 heat maps, rows by count state, columns lefty
	// splits then righty splits.
	cellW := leftW / 6
	cellH := contentH / 3
	for row := 0; row < 3; row++ {
		d.TextCentered(leftX-0.15, contentY+float64(row)*cellH+cellH/2, 8, "B", countRowLabels[row], navy)
		for col := 0; col < 6; col++ {
			src := heatMapOrder[row*6+col]
			x := leftX + float64(col)*cellW
			y := contentY + float64(row)*cellH

			if src < len(p.HeatMaps) && p.HeatMaps[src] != "" {
				d.ImageBox(p.HeatMaps[src], x, y, cellW, cellH, fmt.Sprintf("Map %d", src))
			} else {
				d.Placeholder(x, y, cellW, cellH, fmt.Sprintf("Map %d", src))
			}
		}
	}

	// Right: headshot above the movement chart.
	headshotH := contentH / 3 * 0.8
	if p.Headshot != "" {
		d.ImageBox(p.Headshot, rightX, contentY, rightW, headshotH, "Photo")
	} else {
		d.Placeholder(rightX, contentY, rightW, headshotH, "Photo")
	}

	movementY := contentY + headshotH
	if p.Movement != "" {
		d.ImageBox(p.Movement, rightX, movementY, rightW, contentH-headshotH, "Movement")
	} else {
		d.Placeholder(rightX, movementY, rightW, contentH-headshotH, "Movement")
	}
}

// pitcherTitle formats the page title, dropping the jersey-number
// prefix when the roster card had no parseable number.
func pitcherTitle(p ScoutingPitcher) string {
	var digits strings.Builder
	for _, c := range p.Number {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() > 0 {
		return fmt.Sprintf("#%s %s (%s)", digits.String(), p.Name, p.Handedness)
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Handedness)
}
