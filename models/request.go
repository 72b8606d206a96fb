package models

// ReportRequest is the payload for POST /api/v1/reports/:type.
// The :type path segment selects the report kind; fields below narrow
// the subject. Which fields are required depends on the kind.
type ReportRequest struct {
	// PlayerID is the vendor player id. Required for pitching and
	// hitting reports.
	PlayerID string `json:"player_id,omitempty"`

	// PlayerName is the display name drawn in the report header.
	PlayerName string `json:"player_name,omitempty"`

	// TeamID is the vendor team id. Required for scouting reports and
	// as the home team of umpire reports.
	TeamID string `json:"team_id,omitempty"`

	// TeamName is the display name for team-scoped reports.
	TeamName string `json:"team_name,omitempty"`

	// AwayTeamID is the second team of an umpire report.
	AwayTeamID string `json:"away_team_id,omitempty"`

	// AwayTeamName is the away team display name.
	AwayTeamName string `json:"away_team_name,omitempty"`

	// Season overrides the configured season year.
	Season int `json:"season,omitempty" binding:"omitempty,min=2000,max=2100"`

	// StartDate and EndDate bound the game window, "YYYY-MM-DD".
	// Both empty means full season.
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	// DisableScraping skips the chart capture phase; the PDF is built
	// with placeholder boxes. Useful when no browser is reachable.
	DisableScraping bool `json:"disable_scraping,omitempty"`

	// WebhookURL, when set, makes the run asynchronous: the handler
	// returns 202 immediately and the result is delivered to this URL.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`
}

// ReportKind names a report workflow.
type ReportKind string

const (
	KindPitching ReportKind = "pitching"
	KindHitting  ReportKind = "hitting"
	KindUmpire   ReportKind = "umpire"
	KindScouting ReportKind = "scouting"
)

// ValidKind reports whether s names a known report workflow.
func ValidKind(s string) bool {
	switch ReportKind(s) {
	case KindPitching, KindHitting, KindUmpire, KindScouting:
		return true
	}
	return false
}

// Validate checks that the fields required by kind are present.
func (r *ReportRequest) Validate(kind ReportKind) *ReportError {
	switch kind {
	case KindPitching, KindHitting:
		if r.PlayerID == "" {
			return NewReportError(ErrCodeInvalidInput, "player_id is required", nil)
		}
	case KindScouting:
		if r.TeamID == "" {
			return NewReportError(ErrCodeInvalidInput, "team_id is required", nil)
		}
	case KindUmpire:
		if r.TeamID == "" || r.AwayTeamID == "" {
			return NewReportError(ErrCodeInvalidInput, "team_id and away_team_id are required", nil)
		}
	default:
		return NewReportError(ErrCodeInvalidInput, "unknown report type", nil)
	}
	if (r.StartDate == "") != (r.EndDate == "") {
		return NewReportError(ErrCodeInvalidInput, "start_date and end_date must be set together", nil)
	}
	return nil
}
