// Command trureport generates one report from the command line and
// prints a framed JSON result line as its final output, so schedulers
// can parse the outcome without scraping logs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/afbaseball/trureport/cache"
	"github.com/afbaseball/trureport/catalog"
	"github.com/afbaseball/trureport/config"
	"github.com/afbaseball/trureport/models"
	"github.com/afbaseball/trureport/report"
	"github.com/afbaseball/trureport/trumedia"
)

const usage = `usage: trureport <command> [flags]

commands:
  pitching   pitcher development report (two pages, per-pitch-type stats)
  hitting    hitter report with left/right splits
  umpire     post-game umpire accuracy report
  scouting   opponent pitching staff heat map book
  sync       refresh the local team/player catalog

run "trureport <command> -h" for the command's flags
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	initLogger(cfg.Log)

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "pitching", "hitting", "umpire", "scouting":
		runReport(cfg, models.ReportKind(cmd), args)
	case "sync":
		runSync(cfg, args)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stderr, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}

func runReport(cfg *config.Config, kind models.ReportKind, args []string) {
	fs := flag.NewFlagSet(string(kind), flag.ExitOnError)
	var req models.ReportRequest
	fs.StringVar(&req.PlayerID, "player-id", "", "vendor player id (pitching, hitting)")
	fs.StringVar(&req.PlayerName, "player-name", "", "player display name for the header")
	fs.StringVar(&req.TeamID, "team-id", "", "vendor team id (scouting; home team for umpire)")
	fs.StringVar(&req.TeamName, "team-name", "", "team display name")
	fs.StringVar(&req.AwayTeamID, "away-team-id", "", "away team id (umpire)")
	fs.StringVar(&req.AwayTeamName, "away-team-name", "", "away team display name")
	fs.IntVar(&req.Season, "season", 0, "season year (default from config)")
	fs.StringVar(&req.StartDate, "start-date", "", "window start, YYYY-MM-DD")
	fs.StringVar(&req.EndDate, "end-date", "", "window end, YYYY-MM-DD")
	fs.BoolVar(&req.DisableScraping, "disable-scraping", false, "skip chart capture, render placeholders")
	outputDir := fs.String("output-dir", "", "override the configured output directory")
	timeout := fs.Duration("timeout", 15*time.Minute, "overall run timeout")
	fs.Parse(args)

	if *outputDir != "" {
		cfg.Report.OutputDir = *outputDir
	}

	client := trumedia.NewClient(cfg.Vendor, cache.New(cfg.Cache.TokenTTL), cfg.RateLimit)
	gen := report.NewGenerator(cfg, client)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := gen.Generate(ctx, kind, req)

	var result models.ReportResult
	if err != nil {
		slog.Error("report failed", "type", string(kind), "error", err)
		result = models.FailureResult(err)
	} else {
		result = models.SuccessResult(resp.PDFPath)
	}
	if err := result.Emit(os.Stdout); err != nil {
		slog.Error("emitting result failed", "error", err)
	}
	os.Exit(result.ExitCode())
}

func runSync(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	season := fs.Int("season", cfg.Report.Season, "season year to sync")
	players := fs.Bool("players", false, "also sync the player table")
	minPA := fs.Int("min-pa", 0, "minimum plate appearances for player rows")
	csvOut := fs.String("csv", "", "also export the team catalog to this CSV file")
	fs.Parse(args)

	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		slog.Error("opening catalog failed", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client := trumedia.NewClient(cfg.Vendor, cache.New(cfg.Cache.TokenTTL), cfg.RateLimit)
	svc := catalog.NewService(store, client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	teams, err := svc.SyncTeams(ctx, *season)
	if err != nil {
		slog.Error("team sync failed", "season", *season, "error", err)
		os.Exit(1)
	}
	fmt.Printf("synced %d teams for %d\n", teams, *season)

	if *players {
		n, err := svc.SyncPlayers(ctx, *season, *minPA)
		if err != nil {
			slog.Error("player sync failed", "season", *season, "error", err)
			os.Exit(1)
		}
		fmt.Printf("synced %d players for %d\n", n, *season)
	}

	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			slog.Error("creating csv export failed", "path", *csvOut, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := store.ExportTeamsCSV(ctx, f); err != nil {
			slog.Error("csv export failed", "path", *csvOut, "error", err)
			os.Exit(1)
		}
		fmt.Printf("exported team catalog to %s\n", *csvOut)
	}
}

// initLogger configures slog from the LogConfig. Report commands log to
// stderr so the stdout result line stays machine-parseable.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
