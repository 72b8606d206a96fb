package models

// ReportResponse is the response for POST /api/v1/reports/:type.
type ReportResponse struct {
	// Success indicates whether the report was generated.
	Success bool `json:"success"`

	// PDFPath is the generated file on the server's output volume.
	PDFPath string `json:"pdf_path,omitempty"`

	// Charts lists the chart assets captured during the run.
	Charts []CapturedAsset `json:"charts,omitempty"`

	// Timing provides duration breakdowns for the run.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// AcceptedResponse is returned with 202 when a webhook URL makes the run
// asynchronous.
type AcceptedResponse struct {
	Accepted   bool   `json:"accepted"`
	ReportType string `json:"report_type"`
	WebhookURL string `json:"webhook_url"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ScrapeMs is the time spent attached to the browser capturing charts.
	ScrapeMs int64 `json:"scrape_ms"`

	// FetchMs is the time spent querying the vendor stats API.
	FetchMs int64 `json:"fetch_ms"`

	// RenderMs is the time spent laying out and writing the PDF.
	RenderMs int64 `json:"render_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status   string `json:"status"` // "healthy" or "degraded"
	Uptime   string `json:"uptime"`
	Browser  string `json:"browser"` // "reachable" or "unreachable"
	Version  string `json:"version"`
	Sitename string `json:"sitename"`
}
