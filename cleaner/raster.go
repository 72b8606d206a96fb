package cleaner

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// maxRasterDim bounds the rendered bitmap so a chart with an absurd
// declared size cannot exhaust memory.
const maxRasterDim = 4096

// RasterizeSVG renders svgPath to a PNG next to it and returns the PNG
// path. The PDF layer embeds raster images only, so every vector capture
// passes through here once. Charts render on a white background at
// double their declared size to stay crisp at print resolution.
func RasterizeSVG(svgPath string) (string, error) {
	return rasterize(svgPath, true, ".png", false)
}

// RasterizeSVGLayer renders with a transparent background so two charts
// can stack in one PDF box. Written as a sibling file to keep the
// opaque render cached separately.
func RasterizeSVGLayer(svgPath string) (string, error) {
	return rasterize(svgPath, false, ".layer.png", false)
}

// RasterizeZoneChart renders like RasterizeSVG but drops legend groups
// first. Umpire zone charts carry a color legend that crowds their small
// PDF slots; the data marks survive without it.
func RasterizeZoneChart(svgPath string) (string, error) {
	return rasterize(svgPath, true, ".zone.png", true)
}

// RasterizeZoneChartLayer is the transparent-background zone variant for
// overlaying both staffs' calls in one box.
func RasterizeZoneChartLayer(svgPath string) (string, error) {
	return rasterize(svgPath, false, ".zone.layer.png", true)
}

func rasterize(svgPath string, opaque bool, suffix string, stripLegend bool) (string, error) {
	data, err := os.ReadFile(svgPath)
	if err != nil {
		return "", err
	}

	// Scripts are stripped at capture time, but files can arrive from
	// older runs; sanitize again before parsing.
	markup := SanitizeSVG(string(data))
	if stripLegend {
		if stripped, err := StripLegend(markup); err == nil {
			markup = stripped
		}
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse svg %s: %w", filepath.Base(svgPath), err)
	}

	w := icon.ViewBox.W
	h := icon.ViewBox.H
	if w <= 0 || h <= 0 {
		if w, h = Dimensions(markup); w <= 0 || h <= 0 {
			return "", fmt.Errorf("svg %s has no usable dimensions", filepath.Base(svgPath))
		}
	}

	pxW, pxH := int(w*2), int(h*2)
	if pxW > maxRasterDim || pxH > maxRasterDim {
		scale := float64(maxRasterDim) / max(w, h) / 2
		pxW, pxH = int(w*2*scale), int(h*2*scale)
	}
	if pxW < 1 || pxH < 1 {
		return "", fmt.Errorf("svg %s rasterizes to nothing", filepath.Base(svgPath))
	}

	img := image.NewRGBA(image.Rect(0, 0, pxW, pxH))
	if opaque {
		draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	}

	scanner := rasterx.NewScannerGV(pxW, pxH, img, img.Bounds())
	dasher := rasterx.NewDasher(pxW, pxH, scanner)
	icon.SetTarget(0, 0, float64(pxW), float64(pxH))
	icon.Draw(dasher, 1.0)

	pngPath := strings.TrimSuffix(svgPath, filepath.Ext(svgPath)) + suffix
	f, err := os.Create(pngPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", err
	}
	return pngPath, nil
}
