package report

import (
	"math"
	"testing"

	"github.com/afbaseball/trureport/models"
	"github.com/afbaseball/trureport/trumedia"
)

func mustTable(t *testing.T, csv string) *trumedia.Table {
	t.Helper()
	table, err := trumedia.ParseTable(csv)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	return table
}

func TestDisplayDateRange(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"2025-03-01", "2025-03-15", "March 1, 2025 - March 15, 2025"},
		{"2025-03-01", "2025-03-01", "March 1, 2025"},
		{"2025-03-01", "", "March 1, 2025"},
		{"", "2025-03-15", ""},
		{"not-a-date", "also-not", "not-a-date - also-not"},
	}
	for _, tt := range tests {
		if got := displayDateRange(tt.start, tt.end); got != tt.want {
			t.Errorf("displayDateRange(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestSlashDate(t *testing.T) {
	if got := slashDate("2025-03-07"); got != "03/07/2025" {
		t.Errorf("slashDate = %q", got)
	}
	if got := slashDate("garbage"); got != "garbage" {
		t.Errorf("unparseable date should pass through, got %q", got)
	}
}

func TestFileSafe(t *testing.T) {
	if got := fileSafe("  John Smith "); got != "John_Smith" {
		t.Errorf("fileSafe = %q", got)
	}
}

func TestChartMap(t *testing.T) {
	assets := []models.CapturedAsset{
		{Name: "heat-map_0", Path: "/tmp/heat-map_0.png"},
		{Name: "pitch-chart", Path: "/tmp/pitch-chart.svg"},
	}
	m := chartMap(assets)
	if m["heat-map_0"] != "/tmp/heat-map_0.png" || m["pitch-chart"] != "/tmp/pitch-chart.svg" {
		t.Errorf("chartMap = %v", m)
	}
}

func TestAsReportError(t *testing.T) {
	re := models.NewReportError(models.ErrCodeRosterEmpty, "no pitchers", nil)
	if got := asReportError(re); got != re {
		t.Error("report errors should pass through unchanged")
	}

	wrapped := asReportError(errIO{})
	if wrapped.Code != models.ErrCodeInternal {
		t.Errorf("plain error wrapped with code %s", wrapped.Code)
	}
}

type errIO struct{}

func (errIO) Error() string { return "disk full" }

func TestPresentTypes(t *testing.T) {
	fastball := mustTable(t, "Vel\n92.1\n")
	slider := mustTable(t, "Vel\n84.0\n")
	empty := mustTable(t, "")

	current := map[string]*trumedia.Table{"Slider": slider, "Changeup": empty}
	season := map[string]*trumedia.Table{"Fastball": fastball, "Changeup": empty}

	got := presentTypes(current, season)
	want := []string{"Fastball", "Slider"}
	if len(got) != len(want) {
		t.Fatalf("presentTypes = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("presentTypes[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPitchStatsTable(t *testing.T) {
	current := map[string]*trumedia.Table{
		"Fastball": mustTable(t, "Vel,VelMax,Spin,IndVertBrk,HorzBrk,RelX,RelZ,Extension,Tilt\n92.0,94.5,2200,16.2,8.1,-1.2,5.8,6.25,1:00\n93.0,95.5,2250,15.8,7.9,-1.4,5.9,6.35,1:00\n"),
	}
	season := map[string]*trumedia.Table{
		"Fastball": mustTable(t, "Vel,VelMax,Spin,IndVertBrk,HorzBrk,RelX,RelZ,Extension,Tilt\n91.5,96.0,2180,16.0,8.0,-1.3,5.8,6.30,1:00\n"),
	}

	rows := pitchStatsTable(current, season)
	if len(rows) != 3 {
		t.Fatalf("rows = %d: %v", len(rows), rows)
	}
	if rows[0][0] != "Pitch" || rows[0][10] != "Tilt" {
		t.Errorf("header = %v", rows[0])
	}

	cur := rows[1]
	if cur[0] != "Fastball" || cur[1] != "Current" {
		t.Errorf("current row label = %v", cur[:2])
	}
	if cur[2] != "92.5" { // mean of 92.0 and 93.0
		t.Errorf("Vel = %q", cur[2])
	}
	if cur[3] != "95.5" { // max of VelMax
		t.Errorf("MxVel = %q", cur[3])
	}
	if cur[10] != "1:00" {
		t.Errorf("Tilt = %q", cur[10])
	}

	if rows[2][1] != "Season" {
		t.Errorf("season row = %v", rows[2])
	}
}

func TestPitchStatsTable_NoData(t *testing.T) {
	rows := pitchStatsTable(map[string]*trumedia.Table{}, map[string]*trumedia.Table{})
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[1][0] != "No data available" {
		t.Errorf("placeholder row = %v", rows[1])
	}
	if len(rows[1]) != len(rows[0]) {
		t.Errorf("placeholder width %d != header width %d", len(rows[1]), len(rows[0]))
	}
}

func TestSummaryTable(t *testing.T) {
	summary := mustTable(t, "IP,BF,P|PIT,FPStk%|PIT,Swing%|PIT,SwStrk%|PIT,K%|PIT,BB%|PIT,K/BB|PIT\n5.0,20,80,60,45,12,25.0,8.0,3.0\n4.0,18,70,70,55,14,30.0,6.0,5.0\n")
	attack := mustTable(t, "InZone%|PIT\n58\n62\n")
	finish := mustTable(t, "Strike%|PIT\n72\n78\n")

	rows := summaryTable(summary, attack, finish)
	if len(rows) != 3 {
		t.Fatalf("rows = %v", rows)
	}

	values := rows[1]
	if values[0] != "9.0" { // IP sums
		t.Errorf("IP = %q", values[0])
	}
	if values[1] != "38" { // BF sums
		t.Errorf("BF = %q", values[1])
	}
	if values[2] != "150" { // pitches sum
		t.Errorf("Pitches = %q", values[2])
	}
	if values[3] != "65%" { // FPS% averages
		t.Errorf("FPS%% = %q", values[3])
	}
	if values[6] != "60%" { // attack zone rate
		t.Errorf("Attack%% = %q", values[6])
	}
	if values[7] != "75%" { // finish strike rate
		t.Errorf("Finish%% = %q", values[7])
	}

	goals := rows[2]
	if goals[0] != "Goals" || goals[3] != "70%" || goals[10] != "5" {
		t.Errorf("goals row = %v", goals)
	}
	if len(goals) != len(rows[0]) {
		t.Errorf("goals width %d != header width %d", len(goals), len(rows[0]))
	}
}

func TestHittingSplitRow(t *testing.T) {
	table := mustTable(t, "Take%,Swing%,InZoneSwing%,InZoneWhiff%,Chase%,Hard%,ExitVel,MxExitVel,LaunchAng\n55.0,45.0,70.0,18.0,22.0,40.0,88.5,102.3,12.0\n")

	row := hittingSplitRow(table)
	if len(row) != 9 {
		t.Fatalf("row = %v", row)
	}
	if row[0] != "55.0%" || row[6] != "88.5" || row[7] != "102.3" {
		t.Errorf("row = %v", row)
	}
}

func TestHittingSplitRow_EmptyTable(t *testing.T) {
	row := hittingSplitRow(mustTable(t, ""))
	if len(row) != 9 {
		t.Fatalf("row = %v", row)
	}
	// Empty splits render zeros, not holes.
	if row[0] != "0.0%" || row[6] != "0.0" {
		t.Errorf("row = %v", row)
	}
}

func TestRateOf(t *testing.T) {
	// Ratio-form rates normalize to percentage form.
	ratio := mustTable(t, "Swing%\n0.47\n")
	if got := rateOf(ratio, "Swing%"); math.Abs(got-47.0) > 1e-9 {
		t.Errorf("rateOf ratio = %v", got)
	}

	percent := mustTable(t, "Swing%\n47.0\n")
	if got := rateOf(percent, "Swing%"); got != 47.0 {
		t.Errorf("rateOf percent = %v", got)
	}

	if got := rateOf(mustTable(t, ""), "Swing%"); got != 0 {
		t.Errorf("rateOf empty = %v", got)
	}
}

func TestMeanHelpers(t *testing.T) {
	table := mustTable(t, "Vel\n90.0\n92.0\n")

	if v := meanOf(table, "Vel"); v != 91.0 {
		t.Errorf("meanOf = %v", v)
	}
	if v := meanOf(table, "Missing"); !math.IsNaN(v) {
		t.Errorf("meanOf missing column should be NaN, got %v", v)
	}
	if v := maxOf(table, "Vel"); v != 92.0 {
		t.Errorf("maxOf = %v", v)
	}
	if v := maxOf(table, "Missing"); !math.IsNaN(v) {
		t.Errorf("maxOf missing column should be NaN, got %v", v)
	}
	if v := meanOrZero(table, "Missing"); v != 0 {
		t.Errorf("meanOrZero missing column should be 0, got %v", v)
	}
	if v := maxOrZero(table, "Missing"); v != 0 {
		t.Errorf("maxOrZero missing column should be 0, got %v", v)
	}
}
