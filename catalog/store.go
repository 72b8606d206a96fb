// Package catalog maintains a local sqlite snapshot of the vendor's
// team and player tables, so entity ids resolve without a round trip
// per lookup.
package catalog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	_ "modernc.org/sqlite"
)

// Team is one row of the team catalog.
type Team struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
	Season int    `json:"season"`
}

// Player is one row of the player catalog with headline season totals.
type Player struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	TeamID   string  `json:"team_id"`
	Season   int     `json:"season"`
	PA       int     `json:"pa"`
	AVG      float64 `json:"avg"`
	OBP      float64 `json:"obp"`
	SLG      float64 `json:"slg"`
	OPS      float64 `json:"ops"`
}

const schema = `
CREATE TABLE IF NOT EXISTS teams (
	team_id TEXT NOT NULL,
	name    TEXT NOT NULL,
	abbrev  TEXT NOT NULL DEFAULT '',
	season  INTEGER NOT NULL,
	PRIMARY KEY (team_id, season)
);
CREATE TABLE IF NOT EXISTS players (
	player_id TEXT NOT NULL,
	name      TEXT NOT NULL,
	team_id   TEXT NOT NULL DEFAULT '',
	season    INTEGER NOT NULL,
	pa        INTEGER NOT NULL DEFAULT 0,
	avg       REAL NOT NULL DEFAULT 0,
	obp       REAL NOT NULL DEFAULT 0,
	slg       REAL NOT NULL DEFAULT 0,
	ops       REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (player_id, season)
);
CREATE INDEX IF NOT EXISTS idx_players_team ON players (team_id, season);
`

// Store is the sqlite-backed catalog.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	// sqlite handles one writer; more connections just queue on the
	// file lock.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceTeams swaps the season's team table wholesale. The vendor's
// team list is authoritative; stale local rows only cause misroutes.
func (s *Store) ReplaceTeams(ctx context.Context, season int, teams []Team) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE season = ?`, season); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO teams (team_id, name, abbrev, season) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range teams {
		if t.TeamID == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, t.TeamID, t.Name, t.Abbrev, season); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpsertPlayers inserts or refreshes player rows for a season.
func (s *Store) UpsertPlayers(ctx context.Context, season int, players []Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (player_id, name, team_id, season, pa, avg, obp, slg, ops)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id, season) DO UPDATE SET
			name = excluded.name, team_id = excluded.team_id, pa = excluded.pa,
			avg = excluded.avg, obp = excluded.obp, slg = excluded.slg, ops = excluded.ops`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		if p.PlayerID == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			p.PlayerID, p.Name, p.TeamID, season, p.PA, p.AVG, p.OBP, p.SLG, p.OPS); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Teams lists the catalog's teams, newest season first, name order.
func (s *Store) Teams(ctx context.Context) ([]Team, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team_id, name, abbrev, season FROM teams ORDER BY season DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.TeamID, &t.Name, &t.Abbrev, &t.Season); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Players lists a team's players, newest season first.
func (s *Store) Players(ctx context.Context, teamID string) ([]Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, name, team_id, season, pa, avg, obp, slg, ops
		FROM players WHERE team_id = ? ORDER BY season DESC, name`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.TeamID, &p.Season,
			&p.PA, &p.AVG, &p.OBP, &p.SLG, &p.OPS); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// ExportTeamsCSV writes the team catalog as CSV.
func (s *Store) ExportTeamsCSV(ctx context.Context, w io.Writer) error {
	teams, err := s.Teams(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"team_id", "name", "abbrev", "season"}); err != nil {
		return err
	}
	for _, t := range teams {
		if err := cw.Write([]string{t.TeamID, t.Name, t.Abbrev, strconv.Itoa(t.Season)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
