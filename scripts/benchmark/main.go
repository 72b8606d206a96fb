package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL   = flag.String("api-url", "http://localhost:8080", "report API base URL")
	apiKey   = flag.String("api-key", "", "API key for authenticated requests")
	runs     = flag.Int("runs", 3, "number of runs per report type for averaging")
	output   = flag.String("output", "benchmark-results.json", "JSON output file path")
	playerID = flag.String("player-id", "", "player id for pitching/hitting runs")
	teamID   = flag.String("team-id", "", "team id for scouting runs and umpire home side")
	awayID   = flag.String("away-team-id", "", "away team id for umpire runs")
	start    = flag.String("start-date", "", "window start, YYYY-MM-DD")
	end      = flag.String("end-date", "", "window end, YYYY-MM-DD")
	noScrape = flag.Bool("disable-scraping", true, "skip chart capture so runs measure the stats path only")
)

// --- Request / Response types (mirrors models package) ---

type reportRequest struct {
	PlayerID        string `json:"player_id,omitempty"`
	TeamID          string `json:"team_id,omitempty"`
	AwayTeamID      string `json:"away_team_id,omitempty"`
	StartDate       string `json:"start_date,omitempty"`
	EndDate         string `json:"end_date,omitempty"`
	DisableScraping bool   `json:"disable_scraping,omitempty"`
}

type reportResponse struct {
	Success bool   `json:"success"`
	PDFPath string `json:"pdf_path"`
	Charts  []struct {
		Name string `json:"name"`
	} `json:"charts"`
	Timing struct {
		TotalMs  int64 `json:"total_ms"`
		ScrapeMs int64 `json:"scrape_ms"`
	} `json:"timing"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// --- Benchmark result types ---

type runResult struct {
	Run      int    `json:"run"`
	TotalMs  int64  `json:"total_ms"`
	ScrapeMs int64  `json:"scrape_ms"`
	Charts   int    `json:"charts"`
	PDFPath  string `json:"pdf_path,omitempty"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

type kindAverages struct {
	TotalMs  float64 `json:"total_ms"`
	ScrapeMs float64 `json:"scrape_ms"`
	Charts   float64 `json:"charts"`
}

type kindResult struct {
	Kind     string        `json:"kind"`
	Runs     []runResult   `json:"runs"`
	Averages *kindAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp   string       `json:"timestamp"`
	APIURL      string       `json:"api_url"`
	RunsPerKind int          `json:"runs_per_kind"`
	Results     []kindResult `json:"results"`
}

func main() {
	flag.Parse()

	kinds := selectKinds()
	if len(kinds) == 0 {
		fmt.Fprintln(os.Stderr, "Error: set -player-id and/or -team-id (-away-team-id for umpire runs)")
		os.Exit(1)
	}

	fmt.Println("=== Report Benchmark Suite ===")
	fmt.Printf("API URL:    %s\n", *apiURL)
	fmt.Printf("Runs/kind:  %d\n", *runs)
	fmt.Printf("Kinds:      %s\n", strings.Join(kinds, ", "))
	fmt.Printf("Output:     %s\n", *output)
	fmt.Println()

	// Quick connectivity check.
	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure trureport-server is running\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		APIURL:      *apiURL,
		RunsPerKind: *runs,
	}

	for _, kind := range kinds {
		fmt.Printf("Benchmarking [%s] ...\n", kind)
		kr := kindResult{Kind: kind}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkKind(kind, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %d charts\n", rr.TotalMs, rr.Charts)
			} else {
				fmt.Printf("FAILED: %s\n", rr.Error)
			}
			kr.Runs = append(kr.Runs, rr)
		}

		kr.Averages = computeAverages(kr.Runs)
		report.Results = append(report.Results, kr)
		fmt.Println()
	}

	// Print summary table.
	printTable(report.Results)

	// Write JSON report.
	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

// selectKinds picks the report types the provided flags can drive.
// Scouting is excluded: it cannot run without chart scraping, so its
// timings say nothing about the stats path.
func selectKinds() []string {
	var kinds []string
	if *playerID != "" {
		kinds = append(kinds, "pitching", "hitting")
	}
	if *teamID != "" && *awayID != "" && *start != "" {
		kinds = append(kinds, "umpire")
	}
	return kinds
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkKind(kind string, run int) runResult {
	rr := runResult{Run: run}

	reqBody := reportRequest{
		PlayerID:        *playerID,
		TeamID:          *teamID,
		AwayTeamID:      *awayID,
		StartDate:       *start,
		EndDate:         *end,
		DisableScraping: *noScrape,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		rr.Error = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	req, err := http.NewRequest("POST", *apiURL+"/api/v1/reports/"+kind, bytes.NewReader(bodyBytes))
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("X-API-Key", *apiKey)
	}

	client := &http.Client{Timeout: 20 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var sr reportResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}

	rr.Success = sr.Success
	rr.TotalMs = sr.Timing.TotalMs
	rr.ScrapeMs = sr.Timing.ScrapeMs
	rr.Charts = len(sr.Charts)
	rr.PDFPath = sr.PDFPath

	if sr.Error != nil {
		rr.Error = sr.Error.Message
	}

	return rr
}

func computeAverages(runs []runResult) *kindAverages {
	var successCount int
	var avg kindAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.TotalMs += float64(r.TotalMs)
		avg.ScrapeMs += float64(r.ScrapeMs)
		avg.Charts += float64(r.Charts)
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.TotalMs /= n
	avg.ScrapeMs /= n
	avg.Charts /= n
	return &avg
}

func printTable(results []kindResult) {
	fmt.Println(strings.Repeat("─", 60))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Report\tAvg Total\tAvg Scrape\tCharts\n")
	fmt.Fprintf(w, "──────\t─────────\t──────────\t──────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\tFAILED\t-\t-\n", r.Kind)
			continue
		}

		fmt.Fprintf(w, "%s\t%dms\t%dms\t%.1f\n",
			r.Kind,
			int64(r.Averages.TotalMs),
			int64(r.Averages.ScrapeMs),
			r.Averages.Charts,
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 60))
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
