package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/ysmood/gson"
)

type fakeRosterPage struct {
	roster      []map[string]any
	heads       []string
	headshotErr error
}

func (p *fakeRosterPage) Eval(js string, args ...any) (gson.JSON, error) {
	switch js {
	case rosterJS:
		out := make([]any, 0, len(p.roster))
		for _, r := range p.roster {
			out = append(out, r)
		}
		return jsonVal(out), nil
	case headshotsJS:
		if p.headshotErr != nil {
			return gson.New(nil), p.headshotErr
		}
		out := make([]any, 0, len(p.heads))
		for _, u := range p.heads {
			out = append(out, u)
		}
		return jsonVal(out), nil
	}
	return gson.New(nil), nil
}

func TestExtractRoster(t *testing.T) {
	page := &fakeRosterPage{
		roster: []map[string]any{
			{"name": "John Smith", "number": "21", "handedness": "R"},
			{"name": "Alex Rivera", "number": "34", "handedness": "L"},
			{"name": "", "number": "99", "handedness": "R"}, // nameless card dropped
		},
		heads: []string{
			"https://cdn.example.com/p/21.png",
			"https://cdn.example.com/p/34.png",
		},
	}

	roster, err := ExtractRoster(context.Background(), page)
	if err != nil {
		t.Fatalf("ExtractRoster: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("roster size = %d, want 2: %+v", len(roster), roster)
	}
	if roster[0].Name != "John Smith" || roster[0].Number != "21" || roster[0].Handedness != "R" {
		t.Errorf("entry[0] = %+v", roster[0])
	}
	if roster[0].HeadshotURL != "https://cdn.example.com/p/21.png" {
		t.Errorf("entry[0] headshot = %q", roster[0].HeadshotURL)
	}
	if roster[1].HeadshotURL != "https://cdn.example.com/p/34.png" {
		t.Errorf("entry[1] headshot = %q", roster[1].HeadshotURL)
	}
}

func TestExtractRoster_Empty(t *testing.T) {
	roster, err := ExtractRoster(context.Background(), &fakeRosterPage{})
	if err != nil {
		t.Fatalf("ExtractRoster: %v", err)
	}
	if roster != nil {
		t.Errorf("empty page should yield nil roster, got %+v", roster)
	}
}

func TestExtractRoster_FewerHeadshotsThanPlayers(t *testing.T) {
	page := &fakeRosterPage{
		roster: []map[string]any{
			{"name": "John Smith", "number": "21", "handedness": "R"},
			{"name": "Alex Rivera", "number": "34", "handedness": "L"},
		},
		heads: []string{"https://cdn.example.com/p/21.png"},
	}

	roster, err := ExtractRoster(context.Background(), page)
	if err != nil {
		t.Fatal(err)
	}
	if roster[0].HeadshotURL == "" {
		t.Error("first entry should have a headshot")
	}
	if roster[1].HeadshotURL != "" {
		t.Errorf("unmatched entry should have no headshot, got %q", roster[1].HeadshotURL)
	}
}

func TestExtractRoster_HeadshotFailureTolerated(t *testing.T) {
	page := &fakeRosterPage{
		roster:      []map[string]any{{"name": "John Smith", "number": "21", "handedness": "R"}},
		headshotErr: errors.New("detached"),
	}

	roster, err := ExtractRoster(context.Background(), page)
	if err != nil {
		t.Fatalf("headshot failure should not sink the roster: %v", err)
	}
	if len(roster) != 1 || roster[0].HeadshotURL != "" {
		t.Errorf("roster = %+v", roster)
	}
}
