package trumedia

import (
	"net/url"
	"strings"
	"testing"
)

func TestPlayerPitchingURL(t *testing.T) {
	p := PageURLs{Base: "https://example.trumedianetworks.com"}
	u := p.PlayerPitching("John Smith", "12345", "2025-03-01", "2025-03-15")

	if !strings.HasPrefix(u, "https://example.trumedianetworks.com/baseball/player-custom-pages-pitching/John%20Smith/12345?") {
		t.Fatalf("unexpected URL prefix: %s", u)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("url does not parse: %v", err)
	}
	q := parsed.Query()

	cp := q.Get("cp")
	if !strings.Contains(cp, `"selectedReportId":107`) {
		t.Errorf("cp param missing report id: %s", cp)
	}
	if !strings.Contains(cp, `"playerIds":["12345"]`) {
		t.Errorf("cp param missing player id: %s", cp)
	}

	f := q.Get("f")
	if !strings.Contains(f, `"bdr":["2025-03-01","2025-03-15"]`) {
		t.Errorf("f param missing date range: %s", f)
	}
	if !strings.Contains(f, `"bseason":["def"]`) {
		t.Errorf("f param should keep the default season: %s", f)
	}
}

func TestPlayerBattingURL(t *testing.T) {
	p := PageURLs{Base: "https://example.trumedianetworks.com"}
	u := p.PlayerBatting("Jane Doe", "777", 2025)

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("url does not parse: %v", err)
	}
	q := parsed.Query()

	if !strings.Contains(q.Get("cp"), `"selectedReportId":108`) {
		t.Errorf("cp param missing batting report id: %s", q.Get("cp"))
	}
	if !strings.Contains(q.Get("f"), `"bseason":[2025]`) {
		t.Errorf("f param missing season: %s", q.Get("f"))
	}
	if !strings.Contains(q.Get("s"), "filterBaseballPitcherHand") {
		t.Errorf("s param missing pitcher-hand split: %s", q.Get("s"))
	}
}

func TestTeamPitchingURL(t *testing.T) {
	p := PageURLs{Base: "https://example.trumedianetworks.com"}
	u := p.TeamPitching("Air Force", "42", 2025)

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("url does not parse: %v", err)
	}
	q := parsed.Query()

	if !strings.Contains(q.Get("cp"), `"teamIds":[42]`) {
		t.Errorf("cp param should carry the numeric team id: %s", q.Get("cp"))
	}
	if !strings.Contains(q.Get("cp"), `"selectedReportId":83`) {
		t.Errorf("cp param missing scouting report id: %s", q.Get("cp"))
	}
}

func TestUmpireTeamURL_SideFilter(t *testing.T) {
	p := PageURLs{Base: "https://example.trumedianetworks.com"}

	withSide := p.UmpireTeam("Air Force", "42", "2025-04-01", "2025-04-01", "t")
	parsed, _ := url.Parse(withSide)
	if !strings.Contains(parsed.Query().Get("f"), `"bside":["t"]`) {
		t.Errorf("side filter missing: %s", parsed.Query().Get("f"))
	}

	without := p.UmpireTeam("Air Force", "42", "2025-04-01", "2025-04-01", "")
	parsed, _ = url.Parse(without)
	if strings.Contains(parsed.Query().Get("f"), "bside") {
		t.Errorf("empty side should omit the bside filter: %s", parsed.Query().Get("f"))
	}
}
