package pdf

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestTableWidths(t *testing.T) {
	rows := [][]string{
		{"Pitch", "Vel", "Spin"},
		{"Fastball", "92.5", "2200"},
	}

	widths := tableWidths(rows, 7.0)
	if len(widths) != 3 {
		t.Fatalf("widths = %v", widths)
	}

	// Label column is half again as wide as a data column.
	if math.Abs(widths[0]/widths[1]-1.5) > 1e-9 {
		t.Errorf("label ratio = %v", widths[0]/widths[1])
	}
	if widths[1] != widths[2] {
		t.Errorf("data columns should be equal: %v", widths)
	}

	var sum float64
	for _, w := range widths {
		sum += w
	}
	if math.Abs(sum-7.0) > 1e-9 {
		t.Errorf("widths sum to %v, want 7.0", sum)
	}
}

func TestTableWidths_RaggedRows(t *testing.T) {
	rows := [][]string{{"a"}, {"a", "b", "c", "d"}}
	if widths := tableWidths(rows, 4.0); len(widths) != 4 {
		t.Errorf("widest row should set the column count: %v", widths)
	}
}

func TestTableWidths_Empty(t *testing.T) {
	widths := tableWidths(nil, 5.0)
	if len(widths) != 1 || widths[0] != 5.0 {
		t.Errorf("widths = %v", widths)
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, rest string
	}{
		{"John Smith", "John", "Smith"},
		{"John Paul Smith", "John", "Paul Smith"},
		{"Cher", "Cher", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, rest := splitName(tt.in)
		if first != tt.first || rest != tt.rest {
			t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)", tt.in, first, rest, tt.first, tt.rest)
		}
	}
}

func TestPitcherTitle(t *testing.T) {
	tests := []struct {
		p    ScoutingPitcher
		want string
	}{
		{ScoutingPitcher{Name: "John Smith", Number: "21", Handedness: "R"}, "#21 John Smith (R)"},
		{ScoutingPitcher{Name: "John Smith", Number: "#21", Handedness: "L"}, "#21 John Smith (L)"},
		{ScoutingPitcher{Name: "John Smith", Number: "", Handedness: "R"}, "John Smith (R)"},
		{ScoutingPitcher{Name: "John Smith", Number: "--", Handedness: "R"}, "John Smith (R)"},
	}
	for _, tt := range tests {
		if got := pitcherTitle(tt.p); got != tt.want {
			t.Errorf("pitcherTitle(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestUmpireStatsOrdered(t *testing.T) {
	s := UmpireStats{
		Overall: UmpireSplit{Total: 1},
		VsLHP:   UmpireSplit{Total: 2},
		VsRHP:   UmpireSplit{Total: 3},
		VsLHH:   UmpireSplit{Total: 4},
		VsRHH:   UmpireSplit{Total: 5},
	}

	got := s.ordered()
	if len(got) != len(splitLabels) {
		t.Fatalf("ordered() yields %d splits for %d labels", len(got), len(splitLabels))
	}
	for i, split := range got {
		if split.Total != i+1 {
			t.Errorf("ordered()[%d].Total = %d, want %d", i, split.Total, i+1)
		}
	}
}

func TestZoneChartBox_StripsLegend(t *testing.T) {
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "pitch-chart_0.svg")
	markup := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><g class="legend"><rect x="0" y="0" width="10" height="10" fill="#FF0000"/></g></svg>`
	if err := os.WriteFile(svgPath, []byte(markup), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewLandscape()
	d.AddPage()
	d.ZoneChartBox(svgPath, 1, 1, 2, 2, "")

	rendered := filepath.Join(dir, "pitch-chart_0.zone.png")
	f, err := os.Open(rendered)
	if err != nil {
		t.Fatalf("zone render missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode zone render: %v", err)
	}
	b := img.Bounds()
	r16, g16, b16, _ := img.At(b.Dx()/2, b.Dy()/2).RGBA()
	if r16>>8 != 255 || g16>>8 != 255 || b16>>8 != 255 {
		t.Errorf("legend content reached the embedded image: rgb(%d, %d, %d)", r16>>8, g16>>8, b16>>8)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()

	if fileExists(filepath.Join(dir, "absent.png")) {
		t.Error("missing file should not exist")
	}
	if fileExists(dir) {
		t.Error("a directory is not a usable image file")
	}

	path := filepath.Join(dir, "present.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !fileExists(path) {
		t.Error("written file should exist")
	}
}
