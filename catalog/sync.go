package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/afbaseball/trureport/trumedia"
)

var playerColumns = []string{
	"[PA]", "[AB]", "[H]", "[HR]", "[RBI]", "[BB]", "[K]",
	"[AVG]", "[OBP]", "[SLG]", "[OPS]",
}

// Service wires the sqlite store to the vendor API for syncing and
// serves the read paths.
type Service struct {
	store  *Store
	client *trumedia.Client
}

// NewService builds a catalog service.
func NewService(store *Store, client *trumedia.Client) *Service {
	return &Service{store: store, client: client}
}

// Store exposes the underlying store, for CSV exports.
func (s *Service) Store() *Store { return s.store }

// Teams lists catalog teams.
func (s *Service) Teams(ctx context.Context) ([]Team, error) {
	return s.store.Teams(ctx)
}

// Players lists a team's players.
func (s *Service) Players(ctx context.Context, teamID string) ([]Player, error) {
	return s.store.Players(ctx, teamID)
}

// SyncTeams fetches the season's Division 1 team list and replaces the
// local table with it. Returns the number of teams stored.
func (s *Service) SyncTeams(ctx context.Context, season int) (int, error) {
	table, err := s.client.DirectedQuery(ctx, trumedia.Query{
		Source: trumedia.SourceAllTeams,
		Season: season,
		Filter: trumedia.DivisionOne,
		Label:  "teams",
	})
	if err != nil {
		return 0, err
	}

	ids := table.Column("teamId")
	names := table.Column("fullName", "teamName", "name")
	abbrevs := table.Column("abbrevName", "abbrev")

	teams := make([]Team, 0, len(ids))
	for i, id := range ids {
		t := Team{TeamID: strings.TrimSpace(id), Season: season}
		if i < len(names) {
			t.Name = strings.TrimSpace(names[i])
		}
		if i < len(abbrevs) {
			t.Abbrev = strings.TrimSpace(abbrevs[i])
		}
		teams = append(teams, t)
	}

	if err := s.store.ReplaceTeams(ctx, season, teams); err != nil {
		return 0, err
	}
	slog.Info("team catalog synced", "season", season, "teams", len(teams))
	return len(teams), nil
}

// SyncPlayers fetches season player totals, optionally limited to
// players with at least minPA plate appearances, and upserts them.
func (s *Service) SyncPlayers(ctx context.Context, season, minPA int) (int, error) {
	q := trumedia.Query{
		Source:  trumedia.SourcePlayerTotals,
		Season:  season,
		Columns: playerColumns,
		Label:   "players",
	}
	if minPA > 0 {
		q.Qualification = fmt.Sprintf("[PA] >= %d", minPA)
	}

	table, err := s.client.DirectedQuery(ctx, q)
	if err != nil {
		return 0, err
	}

	ids := table.Column("playerId")
	names := table.Column("playerFullName", "fullName", "playerName")
	teamIDs := table.Column("teamId")
	pas := table.Column("PA")
	avgs := table.Column("AVG")
	obps := table.Column("OBP")
	slgs := table.Column("SLG")
	opss := table.Column("OPS")

	// Per-row parsing keeps columns index-aligned with ids even when a
	// row has a blank stat cell.
	num := func(vals []string, i int) float64 {
		if i >= len(vals) {
			return 0
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(vals[i]), 64)
		if err != nil {
			return 0
		}
		return f
	}

	players := make([]Player, 0, len(ids))
	for i, id := range ids {
		p := Player{
			PlayerID: strings.TrimSpace(id),
			Season:   season,
			PA:       int(num(pas, i)),
			AVG:      num(avgs, i),
			OBP:      num(obps, i),
			SLG:      num(slgs, i),
			OPS:      num(opss, i),
		}
		if i < len(names) {
			p.Name = strings.TrimSpace(names[i])
		}
		if i < len(teamIDs) {
			p.TeamID = strings.TrimSpace(teamIDs[i])
		}
		players = append(players, p)
	}

	if err := s.store.UpsertPlayers(ctx, season, players); err != nil {
		return 0, err
	}
	slog.Info("player catalog synced", "season", season, "players", len(players), "minPA", minPA)
	return len(players), nil
}
