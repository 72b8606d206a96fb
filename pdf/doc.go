// Package pdf renders report layouts with fpdf. The renderers take
// fully assembled data (formatted cells, chart file paths) so the
// workflow packages own all stats logic and this package owns only
// geometry.
package pdf

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/afbaseball/trureport/cleaner"
	"github.com/afbaseball/trureport/models"
)

// Brand palette shared by every report.
var (
	navy    = rgb{0, 51, 102}    // #003366
	altRow  = rgb{245, 245, 245} // #F5F5F5
	lightGr = rgb{224, 224, 224} // #E0E0E0
)

type rgb struct{ r, g, b int }

// Doc wraps an fpdf document in inch units on letter paper.
type Doc struct {
	f *fpdf.Fpdf

	// W and H are the page dimensions in inches.
	W, H float64
}

// NewPortrait starts a portrait letter document.
func NewPortrait() *Doc {
	return newDoc("P")
}

// NewLandscape starts a landscape letter document.
func NewLandscape() *Doc {
	return newDoc("L")
}

func newDoc(orientation string) *Doc {
	f := fpdf.New(orientation, "in", "Letter", "")
	f.SetMargins(0, 0, 0)
	f.SetAutoPageBreak(false, 0)
	w, h := f.GetPageSize()
	return &Doc{f: f, W: w, H: h}
}

// AddPage starts a new page.
func (d *Doc) AddPage() {
	d.f.AddPage()
}

// Text draws a left-anchored string.
func (d *Doc) Text(x, y, size float64, style, text string, color rgb) {
	d.f.SetFont("Helvetica", style, size)
	d.f.SetTextColor(color.r, color.g, color.b)
	d.f.Text(x, y, text)
}

// TextCentered draws a string centered on x.
func (d *Doc) TextCentered(x, y, size float64, style, text string, color rgb) {
	d.f.SetFont("Helvetica", style, size)
	d.f.SetTextColor(color.r, color.g, color.b)
	w := d.f.GetStringWidth(text)
	d.f.Text(x-w/2, y, text)
}

// Line draws a horizontal rule.
func (d *Doc) Line(x1, y, x2 float64, color rgb) {
	d.f.SetDrawColor(color.r, color.g, color.b)
	d.f.SetLineWidth(0.01)
	d.f.Line(x1, y, x2, y)
}

// StatTable draws a grid table at (x, y). The first row renders as a
// navy header with white bold text; data rows alternate white and
// light gray. Returns the y coordinate below the table.
func (d *Doc) StatTable(x, y float64, colWidths []float64, rowHeight float64, rows [][]string) float64 {
	d.f.SetDrawColor(153, 153, 153)
	d.f.SetLineWidth(0.007)

	for i, row := range rows {
		switch {
		case i == 0:
			d.f.SetFillColor(navy.r, navy.g, navy.b)
			d.f.SetTextColor(255, 255, 255)
			d.f.SetFont("Helvetica", "B", 8)
		case i%2 == 0:
			d.f.SetFillColor(altRow.r, altRow.g, altRow.b)
			d.f.SetTextColor(0, 0, 0)
			d.f.SetFont("Helvetica", "", 8)
		default:
			d.f.SetFillColor(255, 255, 255)
			d.f.SetTextColor(0, 0, 0)
			d.f.SetFont("Helvetica", "", 8)
		}

		cx := x
		for c, cell := range row {
			w := colWidths[len(colWidths)-1]
			if c < len(colWidths) {
				w = colWidths[c]
			}
			d.f.SetXY(cx, y)
			d.f.CellFormat(w, rowHeight, cell, "1", 0, "CM", true, 0, "")
			cx += w
		}
		y += rowHeight
	}
	return y
}

// ImageBox draws an image fitted and centered inside the given box.
// SVG inputs are rasterized first. Anything unreadable degrades to a
// labeled placeholder; a chart that failed to scrape must not kill the
// report.
func (d *Doc) ImageBox(path string, x, y, w, h float64, label string) {
	d.imageBox(path, x, y, w, h, label, cleaner.RasterizeSVG)
}

// ZoneChartBox draws an umpire zone chart with its legend stripped
// before rasterization.
func (d *Doc) ZoneChartBox(path string, x, y, w, h float64, label string) {
	d.imageBox(path, x, y, w, h, label, cleaner.RasterizeZoneChart)
}

func (d *Doc) imageBox(path string, x, y, w, h float64, label string, rasterize func(string) (string, error)) {
	if path == "" {
		d.Placeholder(x, y, w, h, label)
		return
	}

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		rendered, err := rasterize(path)
		if err != nil {
			slog.Warn("svg rasterization failed, drawing placeholder", "path", path, "error", err)
			d.Placeholder(x, y, w, h, label)
			return
		}
		path = rendered
	}

	iw, ih, err := imageSize(path)
	if err != nil {
		slog.Warn("unreadable chart image, drawing placeholder", "path", path, "error", err)
		d.Placeholder(x, y, w, h, label)
		return
	}

	scale := w / iw
	if s := h / ih; s < scale {
		scale = s
	}
	dw, dh := iw*scale, ih*scale

	d.f.ImageOptions(path,
		x+(w-dw)/2, y+(h-dh)/2, dw, dh,
		false, fpdf.ImageOptions{ReadDpi: false}, 0, "")
}

// ImageBoxLayer draws like ImageBox but rasterizes SVGs with a
// transparent background and never draws a placeholder, so the image
// can stack over one already in the box.
func (d *Doc) ImageBoxLayer(path string, x, y, w, h float64) bool {
	return d.imageBoxLayer(path, x, y, w, h, cleaner.RasterizeSVGLayer)
}

// ZoneChartBoxLayer is the legend-stripped overlay variant.
func (d *Doc) ZoneChartBoxLayer(path string, x, y, w, h float64) bool {
	return d.imageBoxLayer(path, x, y, w, h, cleaner.RasterizeZoneChartLayer)
}

func (d *Doc) imageBoxLayer(path string, x, y, w, h float64, rasterize func(string) (string, error)) bool {
	if path == "" {
		return false
	}
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		rendered, err := rasterize(path)
		if err != nil {
			slog.Warn("svg overlay rasterization failed", "path", path, "error", err)
			return false
		}
		path = rendered
	}
	iw, ih, err := imageSize(path)
	if err != nil {
		slog.Warn("unreadable overlay image", "path", path, "error", err)
		return false
	}
	scale := w / iw
	if s := h / ih; s < scale {
		scale = s
	}
	dw, dh := iw*scale, ih*scale
	d.f.ImageOptions(path,
		x+(w-dw)/2, y+(h-dh)/2, dw, dh,
		false, fpdf.ImageOptions{ReadDpi: false}, 0, "")
	return true
}

func imageSize(path string) (float64, float64, error) {
	fh, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer fh.Close()
	cfg, _, err := image.DecodeConfig(fh)
	if err != nil {
		return 0, 0, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("degenerate image %dx%d", cfg.Width, cfg.Height)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// Placeholder draws a bordered gray box with a centered label.
func (d *Doc) Placeholder(x, y, w, h float64, label string) {
	d.f.SetDrawColor(lightGr.r, lightGr.g, lightGr.b)
	d.f.SetFillColor(250, 250, 250)
	d.f.SetLineWidth(0.01)
	d.f.Rect(x, y, w, h, "FD")
	if label != "" {
		d.TextCentered(x+w/2, y+h/2, 8, "", label, rgb{150, 150, 150})
	}
}

// MetricCircle draws a thick gray ring with a large navy percentage
// inside and a bold label beneath.
func (d *Doc) MetricCircle(x, y float64, pct float64, label string) {
	d.f.SetDrawColor(lightGr.r, lightGr.g, lightGr.b)
	d.f.SetLineWidth(0.12)
	d.f.Circle(x, y, 0.5, "D")

	d.TextCentered(x, y+0.12, 24, "B", fmt.Sprintf("%d%%", int(pct)), navy)
	d.TextCentered(x, y+0.85, 10, "B", label, rgb{0, 0, 0})
}

// AccuracyBox draws one call-accuracy summary: split label on top, the
// percentage large in navy, and the correct/total count below.
func (d *Doc) AccuracyBox(x, y, w float64, label, pct, detail string) {
	d.TextCentered(x+w/2, y+0.2, 11, "B", label, rgb{0, 0, 0})
	d.TextCentered(x+w/2, y+0.75, 32, "B", pct, navy)
	d.TextCentered(x+w/2, y+1.0, 9, "", detail, rgb{80, 80, 80})
}

// Save writes the document, then runs a validate and optimize pass
// over the finished file. Post-processing failures are logged, not
// fatal: the un-optimized file is still a usable report.
func (d *Doc) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return models.NewReportError(models.ErrCodePDFFailure, "creating output directory failed", err)
	}
	if err := d.f.OutputFileAndClose(path); err != nil {
		return models.NewReportError(models.ErrCodePDFFailure, "writing pdf failed", err)
	}

	if err := api.ValidateFile(path, nil); err != nil {
		slog.Warn("pdf validation flagged output", "path", path, "error", err)
		return nil
	}
	if err := api.OptimizeFile(path, "", nil); err != nil {
		slog.Warn("pdf optimization failed, keeping original", "path", path, "error", err)
	}
	return nil
}
