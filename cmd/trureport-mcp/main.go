// Command trureport-mcp exposes the report service over MCP stdio, so
// agent tooling can request reports and browse the team catalog.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// reportRequest mirrors the report API request model.
type reportRequest struct {
	PlayerID     string `json:"player_id,omitempty"`
	PlayerName   string `json:"player_name,omitempty"`
	TeamID       string `json:"team_id,omitempty"`
	TeamName     string `json:"team_name,omitempty"`
	AwayTeamID   string `json:"away_team_id,omitempty"`
	AwayTeamName string `json:"away_team_name,omitempty"`
	Season       int    `json:"season,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}

// reportResponse mirrors the report API response model.
type reportResponse struct {
	Success bool   `json:"success"`
	PDFPath string `json:"pdf_path"`
	Charts  []struct {
		Name string `json:"name"`
		Path string `json:"path"`
	} `json:"charts"`
	Timing *struct {
		ScrapeMs int64 `json:"scrape_ms"`
		TotalMs  int64 `json:"total_ms"`
	} `json:"timing"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// teamsResponse mirrors the catalog teams API response.
type teamsResponse struct {
	Teams []struct {
		TeamID string `json:"team_id"`
		Name   string `json:"name"`
		Abbrev string `json:"abbrev"`
		Season int    `json:"season"`
	} `json:"teams"`
	Count int `json:"count"`
}

// playersResponse mirrors the catalog players API response.
type playersResponse struct {
	TeamID  string `json:"team_id"`
	Players []struct {
		PlayerID string  `json:"player_id"`
		Name     string  `json:"name"`
		PA       int     `json:"pa"`
		AVG      float64 `json:"avg"`
		OBP      float64 `json:"obp"`
		SLG      float64 `json:"slg"`
		OPS      float64 `json:"ops"`
	} `json:"players"`
	Count int `json:"count"`
}

func main() {
	apiURL := os.Getenv("TRUREPORT_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("TRUREPORT_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "TRUREPORT_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"trureport",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	pitchingTool := mcp.NewTool("generate_pitching_report",
		mcp.WithDescription("Generate a two-page pitcher development PDF: per-pitch-type metrics, movement and zone charts, and a goals summary table."),
		mcp.WithString("player_id",
			mcp.Required(),
			mcp.Description("Vendor player id of the pitcher"),
		),
		mcp.WithString("player_name",
			mcp.Description("Display name drawn in the report header"),
		),
		mcp.WithString("start_date",
			mcp.Description("Window start, YYYY-MM-DD (set with end_date; omit both for full season)"),
		),
		mcp.WithString("end_date",
			mcp.Description("Window end, YYYY-MM-DD"),
		),
		mcp.WithNumber("season",
			mcp.Description("Season year (default from server config)"),
		),
	)
	s.AddTool(pitchingTool, handleReport(apiURL, apiKey, "pitching"))

	hittingTool := mcp.NewTool("generate_hitting_report",
		mcp.WithDescription("Generate a one-page hitter PDF: slashline, left/right pitcher-hand splits, plate discipline circles, and heat maps."),
		mcp.WithString("player_id",
			mcp.Required(),
			mcp.Description("Vendor player id of the hitter"),
		),
		mcp.WithString("player_name",
			mcp.Description("Display name drawn in the report header"),
		),
		mcp.WithString("start_date",
			mcp.Description("Window start, YYYY-MM-DD (set with end_date; omit both for full season)"),
		),
		mcp.WithString("end_date",
			mcp.Description("Window end, YYYY-MM-DD"),
		),
		mcp.WithNumber("season",
			mcp.Description("Season year (default from server config)"),
		),
	)
	s.AddTool(hittingTool, handleReport(apiURL, apiKey, "hitting"))

	umpireTool := mcp.NewTool("generate_umpire_report",
		mcp.WithDescription("Generate a three-page umpire accuracy PDF for one game: called-strike accuracy and in-zone/out-zone miss charts, overall and split by pitching staff."),
		mcp.WithString("team_id",
			mcp.Required(),
			mcp.Description("Vendor team id of the home team"),
		),
		mcp.WithString("team_name",
			mcp.Description("Home team display name"),
		),
		mcp.WithString("away_team_id",
			mcp.Required(),
			mcp.Description("Vendor team id of the away team"),
		),
		mcp.WithString("away_team_name",
			mcp.Description("Away team display name"),
		),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("Game date, YYYY-MM-DD"),
		),
		mcp.WithString("end_date",
			mcp.Required(),
			mcp.Description("Game date, YYYY-MM-DD (same as start_date for a single game)"),
		),
		mcp.WithNumber("season",
			mcp.Description("Season year (default from server config)"),
		),
	)
	s.AddTool(umpireTool, handleReport(apiURL, apiKey, "umpire"))

	scoutingTool := mcp.NewTool("generate_scouting_report",
		mcp.WithDescription("Generate an opponent scouting PDF: one landscape page per pitcher on the staff with an 18-chart heat map grid and movement plot."),
		mcp.WithString("team_id",
			mcp.Required(),
			mcp.Description("Vendor team id of the opponent"),
		),
		mcp.WithString("team_name",
			mcp.Description("Opponent display name"),
		),
		mcp.WithString("start_date",
			mcp.Description("Window start, YYYY-MM-DD (set with end_date; omit both for full season)"),
		),
		mcp.WithString("end_date",
			mcp.Description("Window end, YYYY-MM-DD"),
		),
		mcp.WithNumber("season",
			mcp.Description("Season year (default from server config)"),
		),
	)
	s.AddTool(scoutingTool, handleReport(apiURL, apiKey, "scouting"))

	listTeamsTool := mcp.NewTool("list_teams",
		mcp.WithDescription("List the Division 1 teams in the local catalog with their vendor ids."),
	)
	s.AddTool(listTeamsTool, handleListTeams(apiURL, apiKey))

	listPlayersTool := mcp.NewTool("list_players",
		mcp.WithDescription("List a team's players from the local catalog with season totals."),
		mcp.WithString("team_id",
			mcp.Required(),
			mcp.Description("Vendor team id"),
		),
	)
	s.AddTool(listPlayersTool, handleListPlayers(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the report API and returns the
// response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// apiGet sends a GET request to the report API and returns the response
// body.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleReport(apiURL, apiKey, kind string) server.ToolHandlerFunc {
	// A report run scrapes a live dashboard and fires dozens of stats
	// fetches; the client timeout matches the server's run budget.
	client := &http.Client{Timeout: 16 * time.Minute}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := reportRequest{
			PlayerID:     request.GetString("player_id", ""),
			PlayerName:   request.GetString("player_name", ""),
			TeamID:       request.GetString("team_id", ""),
			TeamName:     request.GetString("team_name", ""),
			AwayTeamID:   request.GetString("away_team_id", ""),
			AwayTeamName: request.GetString("away_team_name", ""),
			Season:       int(request.GetFloat("season", 0)),
			StartDate:    request.GetString("start_date", ""),
			EndDate:      request.GetString("end_date", ""),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/reports/"+kind, req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("report request failed: %v", err)), nil
		}

		var resp reportResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !resp.Success {
			errMsg := "report generation failed"
			if resp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", resp.Error.Code, resp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		result := fmt.Sprintf("Report generated: %s\nCharts captured: %d", resp.PDFPath, len(resp.Charts))
		if resp.Timing != nil {
			result += fmt.Sprintf("\nTotal time: %.1fs", float64(resp.Timing.TotalMs)/1000)
		}
		return mcp.NewToolResultText(result), nil
	}
}

func handleListTeams(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		respBody, err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/catalog/teams")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("teams request failed: %v", err)), nil
		}

		var resp teamsResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d teams:\n\n", resp.Count))
		for _, t := range resp.Teams {
			sb.WriteString(fmt.Sprintf("%s  %s (%s) season %d\n", t.TeamID, t.Name, t.Abbrev, t.Season))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleListPlayers(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		teamID, err := request.RequireString("team_id")
		if err != nil {
			return mcp.NewToolResultError("team_id is required"), nil
		}

		respBody, err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/catalog/teams/"+teamID+"/players")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("players request failed: %v", err)), nil
		}

		var resp playersResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d players on team %s:\n\n", resp.Count, resp.TeamID))
		for _, p := range resp.Players {
			sb.WriteString(fmt.Sprintf("%s  %s  PA %d  %.3f/%.3f/%.3f  OPS %.3f\n",
				p.PlayerID, p.Name, p.PA, p.AVG, p.OBP, p.SLG, p.OPS))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
