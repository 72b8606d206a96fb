package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ysmood/gson"

	"github.com/afbaseball/trureport/config"
	"github.com/afbaseball/trureport/models"
)

// fakeElement is one chart custom element in the fake page's document
// order, with whichever content forms it exposes.
type fakeElement struct {
	tag   string
	svg   string
	image string // data URL
	href  string
}

// fakePage evaluates the chart scripts against a synthetic element list
// instead of a browser, mirroring the in-page walk's semantics.
type fakePage struct {
	elements []fakeElement
	err      error
}

func jsonVal(v any) gson.JSON {
	b, _ := json.Marshal(v)
	return gson.NewFrom(string(b))
}

func (p *fakePage) Eval(js string, args ...any) (gson.JSON, error) {
	if p.err != nil {
		return gson.New(nil), p.err
	}
	switch js {
	case findChartsJS:
		tags := args[1].([]string)
		var out []any
		for _, el := range p.elements {
			for _, t := range tags {
				if el.tag == t {
					out = append(out, map[string]any{"tag": el.tag})
					break
				}
			}
		}
		return jsonVal(out), nil
	case captureChartJS:
		targetTag := args[1].(string)
		targetIndex := args[2].(int)
		preferImage := args[3].(bool)

		idx := 0
		for _, el := range p.elements {
			if el.tag != targetTag {
				continue
			}
			if idx == targetIndex {
				return jsonVal(p.resolve(el, preferImage)), nil
			}
			idx++
		}
		return jsonVal(map[string]any{"kind": "missing"}), nil
	}
	return gson.New(nil), nil
}

func (p *fakePage) resolve(el fakeElement, preferImage bool) map[string]any {
	svgRes := map[string]any(nil)
	if el.svg != "" {
		svgRes = map[string]any{"kind": "svg", "svg": el.svg}
	}
	var imgRes map[string]any
	switch {
	case el.image != "":
		imgRes = map[string]any{"kind": "inline", "data": el.image}
	case el.href != "":
		imgRes = map[string]any{"kind": "href", "href": el.href}
	}

	if preferImage {
		if imgRes != nil {
			return imgRes
		}
		if svgRes != nil {
			return svgRes
		}
	} else {
		if svgRes != nil {
			return svgRes
		}
		if imgRes != nil {
			return imgRes
		}
	}
	return map[string]any{"kind": "missing"}
}

func TestFindCharts_Ordinals(t *testing.T) {
	page := &fakePage{elements: []fakeElement{
		{tag: "tmn-heat-map-baseball"},
		{tag: "tmn-pitch-chart-baseball"},
		{tag: "tmn-heat-map-baseball"},
		{tag: "tmn-pie-chart-baseball"}, // not in the search set
		{tag: "tmn-heat-map-baseball"},
	}}

	found, err := FindCharts(page, []models.ChartTag{models.TagHeatMap, models.TagPitchChart})
	if err != nil {
		t.Fatalf("FindCharts: %v", err)
	}

	want := []models.ChartDescriptor{
		{Tag: models.TagHeatMap, Index: 0},
		{Tag: models.TagPitchChart, Index: 0},
		{Tag: models.TagHeatMap, Index: 1},
		{Tag: models.TagHeatMap, Index: 2},
	}
	if len(found) != len(want) {
		t.Fatalf("found %d charts, want %d: %v", len(found), len(want), found)
	}
	for i, d := range found {
		if d != want[i] {
			t.Errorf("chart[%d] = %+v, want %+v", i, d, want[i])
		}
	}
}

func TestFindCharts_EmptyPage(t *testing.T) {
	found, err := FindCharts(&fakePage{}, models.DefaultChartTags)
	if err != nil {
		t.Fatalf("FindCharts: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("empty page should yield no charts, got %v", found)
	}
}

func TestFindCharts_EvalError(t *testing.T) {
	if _, err := FindCharts(&fakePage{err: errors.New("detached")}, models.DefaultChartTags); err == nil {
		t.Error("eval failure should propagate")
	}
}

func TestCaptureChart_Kinds(t *testing.T) {
	page := &fakePage{elements: []fakeElement{
		{tag: "tmn-pitch-chart-baseball", svg: "<svg><rect/></svg>"},
		{tag: "tmn-pitch-chart-baseball", image: "data:image/png;base64,aGk="},
		{tag: "tmn-pitch-chart-baseball", href: "https://cdn.example.com/chart.png"},
		{tag: "tmn-pitch-chart-baseball"},
	}}

	tests := []struct {
		index int
		want  models.ContentKind
	}{
		{0, models.KindSVG},
		{1, models.KindInline},
		{2, models.KindRemote},
		{3, models.KindMissing},
		{4, models.KindMissing}, // beyond the page's instances
	}

	for _, tt := range tests {
		content, err := CaptureChart(page, models.TagPitchChart, tt.index, false)
		if err != nil {
			t.Fatalf("CaptureChart(%d): %v", tt.index, err)
		}
		if content.Kind != tt.want {
			t.Errorf("index %d: kind = %v, want %v", tt.index, content.Kind, tt.want)
		}
	}
}

func TestCaptureChart_RasterPreference(t *testing.T) {
	page := &fakePage{elements: []fakeElement{
		{tag: "tmn-heat-map-baseball", svg: "<svg/>", image: "data:image/png;base64,aGk="},
	}}

	content, err := CaptureChart(page, models.TagHeatMap, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if content.Kind != models.KindSVG {
		t.Errorf("vector-first capture returned %v", content.Kind)
	}

	content, err = CaptureChart(page, models.TagHeatMap, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if content.Kind != models.KindInline {
		t.Errorf("raster-first capture returned %v", content.Kind)
	}
}

// End-to-end discovery and capture over a page with two heat maps and a
// pitch-break chart: heat maps come out as rasters, the break chart as
// vector markup.
func TestDiscoverAndCapturePage(t *testing.T) {
	dir := t.TempDir()
	s := NewScraper(config.ScraperConfig{HeatMapRaster: true}, nil)
	ctx := context.Background()

	page := &fakePage{elements: []fakeElement{
		{tag: "tmn-heat-map-baseball", svg: "<svg><rect/></svg>", image: "data:image/png;base64,aGVsbG8="},
		{tag: "tmn-heat-map-baseball", image: "data:image/png;base64,d29ybGQ="},
		{tag: "tmn-pitch-break-chart-baseball", svg: `<svg width="10" height="10"><path d="M0 0 L5 5"/></svg>`},
	}}

	charts, err := FindCharts(page, []models.ChartTag{models.TagHeatMap, models.TagPitchBreakChart})
	if err != nil {
		t.Fatalf("FindCharts: %v", err)
	}
	if len(charts) != 3 {
		t.Fatalf("charts = %v", charts)
	}

	counts := make(map[models.ChartTag]int)
	for _, c := range charts {
		counts[c.Tag]++
	}

	var paths []string
	for _, c := range charts {
		stem := c.Tag.ShortName()
		if counts[c.Tag] > 1 {
			stem = stem + "_" + strconv.Itoa(c.Index)
		}
		asset, err := s.CaptureToFile(ctx, page, c.Tag, c.Index, filepath.Join(dir, stem))
		if err != nil {
			t.Fatalf("capture %s[%d]: %v", c.Tag, c.Index, err)
		}
		paths = append(paths, filepath.Base(asset.Path))
	}

	want := []string{"heat-map_0.png", "heat-map_1.png", "pitch-break-chart.svg"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("asset[%d] = %q, want %q", i, paths[i], p)
		}
	}
}

func TestCaptureToFile(t *testing.T) {
	dir := t.TempDir()
	s := NewScraper(config.ScraperConfig{HeatMapRaster: true}, nil)
	ctx := context.Background()

	page := &fakePage{elements: []fakeElement{
		{tag: "tmn-pitch-chart-baseball", svg: `<svg width="10" height="10"><script>x()</script><rect/></svg>`},
		{tag: "tmn-pitch-chart-baseball", image: "data:image/png;base64,aGVsbG8="},
		{tag: "tmn-pitch-chart-baseball"},
	}}

	asset, err := s.CaptureToFile(ctx, page, models.TagPitchChart, 0, filepath.Join(dir, "pitch-chart_0"))
	if err != nil {
		t.Fatalf("svg capture: %v", err)
	}
	if asset.Name != "pitch-chart_0" || asset.Kind != "svg" {
		t.Errorf("svg asset = %+v", asset)
	}
	data, err := os.ReadFile(asset.Path)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if strings.Contains(string(data), "script") {
		t.Error("persisted svg should be sanitized")
	}

	asset, err = s.CaptureToFile(ctx, page, models.TagPitchChart, 1, filepath.Join(dir, "pitch-chart_1"))
	if err != nil {
		t.Fatalf("inline capture: %v", err)
	}
	if filepath.Ext(asset.Path) != ".png" {
		t.Errorf("inline png should land as .png: %s", asset.Path)
	}

	asset, err = s.CaptureToFile(ctx, page, models.TagPitchChart, 2, filepath.Join(dir, "pitch-chart_2"))
	if err != nil {
		t.Fatalf("missing capture: %v", err)
	}
	if asset.Path != "" {
		t.Errorf("missing chart should yield a zero asset, got %+v", asset)
	}
}
