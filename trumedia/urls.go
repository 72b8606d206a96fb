package trumedia

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Report ids of the dashboard's custom pages. The id selects which chart
// layout the page renders, and with it which chart elements discovery
// will find.
const (
	ReportPitching     = 107
	ReportBatting      = 108
	ReportScoutingTeam = 83
	ReportUmpireTeam   = 114
)

// PageURLs builds dashboard URLs for chart scraping. The dashboard reads
// its state from four JSON-encoded query params: cp (custom-page
// selection), f (filters), s (splits), sh (show/hide).
type PageURLs struct {
	Base string // dashboard origin, e.g. "https://example.trumedianetworks.com"
}

func jsonParam(v any) string {
	b, _ := json.Marshal(v)
	return url.QueryEscape(string(b))
}

// PlayerPitching is the per-player pitching page bounded to a date
// range. The season field stays "def" so the dashboard resolves the
// current season itself.
func (p PageURLs) PlayerPitching(playerName, playerID, startDate, endDate string) string {
	cp := map[string]any{
		"filterSelections": []string{"anyone"},
		"sortSelections":   []string{"alpha"},
		"playerIds":        []string{playerID},
		"selectedReportId": ReportPitching,
	}
	f := map[string]any{
		"bseason": []string{"def"},
		"bdr":     []string{startDate, endDate},
	}
	s := map[string]any{
		"combinedSplits":          []string{"filterBaseballBatterHand"},
		"combinedSplitsSubtotals": map[string]any{},
	}
	return fmt.Sprintf("%s/baseball/player-custom-pages-pitching/%s/%s?cp=%s&f=%s&sh=%s&s=%s",
		p.Base, url.PathEscape(playerName), playerID,
		jsonParam(cp), jsonParam(f), jsonParam(map[string]any{}), jsonParam(s))
}

// PlayerBatting is the per-player hitting page for a full season, split
// by pitcher hand.
func (p PageURLs) PlayerBatting(playerName, playerID string, season int) string {
	cp := map[string]any{
		"filterSelections": []string{"anyone"},
		"sortSelections":   []string{"alpha"},
		"playerIds":        []string{playerID},
		"selectedReportId": ReportBatting,
	}
	f := map[string]any{
		"bseason": []int{season},
	}
	s := map[string]any{
		"combinedSplits":          []string{"filterBaseballPitcherHand"},
		"combinedSplitsSubtotals": map[string]any{},
	}
	return fmt.Sprintf("%s/baseball/player-custom-pages-batting/%s/%s?cp=%s&f=%s&sh=%s&s=%s",
		p.Base, url.PathEscape(playerName), playerID,
		jsonParam(cp), jsonParam(f), jsonParam(map[string]any{}), jsonParam(s))
}

// TeamPitching is the team pitching page the scouting workflow scrapes:
// full roster with per-pitcher heat maps and movement charts.
func (p PageURLs) TeamPitching(teamName, teamID string, season int) string {
	id, _ := strconv.Atoi(teamID)
	cp := map[string]any{
		"teamIds":          []int{id},
		"selectedReportId": ReportScoutingTeam,
		"sortSelections":   []string{"alpha"},
		"filterSelections": []string{"anyone"},
	}
	f := map[string]any{
		"bseason": []int{season},
	}
	s := map[string]any{
		"combinedSplits":          []string{"filterBaseballBatterHand"},
		"combinedSplitsSubtotals": map[string]any{},
	}
	return fmt.Sprintf("%s/baseball/team-custom-pages-pitching/%s/%s?cp=%s&f=%s&s=%s",
		p.Base, url.PathEscape(teamName), teamID,
		jsonParam(cp), jsonParam(f), jsonParam(s))
}

// UmpireTeam is the team page the umpire workflow scrapes, bounded to a
// date range and optionally narrowed to one half of innings: side "t"
// keeps the top (the team's pitchers working to away hitters), "b" the
// bottom, "" both.
func (p PageURLs) UmpireTeam(teamName, teamID, startDate, endDate, side string) string {
	cp := map[string]any{
		"filterSelections": []string{"anyone"},
		"sortSelections":   []string{"alpha"},
		"selectedReportId": ReportUmpireTeam,
	}
	f := map[string]any{
		"bseason": []string{"def"},
		"bdr":     []string{startDate, endDate},
	}
	if side != "" {
		f["bside"] = []string{side}
	}
	return fmt.Sprintf("%s/baseball/team-custom-pages-pitching/%s/%s?cp=%s&f=%s",
		p.Base, url.PathEscape(teamName), teamID,
		jsonParam(cp), jsonParam(f))
}
