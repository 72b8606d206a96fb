package trumedia

import (
	"fmt"
	"strings"
)

// Filter is a boolean expression in the vendor's query grammar. Filters
// are composed as plain text and URL-encoded once, when the request is
// built.
type Filter string

// And joins filters with AND, skipping empties.
func And(filters ...Filter) Filter {
	return join(" AND ", filters)
}

// Or joins filters with OR, skipping empties.
func Or(filters ...Filter) Filter {
	return join(" OR ", filters)
}

func join(op string, filters []Filter) Filter {
	var nonEmpty []Filter
	for _, f := range filters {
		if f != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return ""
	case 1:
		// A lone filter passes through untouched; wrapping or trimming a
		// compound expression would unbalance its parentheses.
		return nonEmpty[0]
	}
	parts := make([]string, len(nonEmpty))
	for i, f := range nonEmpty {
		parts[i] = "(" + string(f) + ")"
	}
	return Filter(strings.Join(parts, op))
}

// DateRange bounds events to a game-date window. The end date carries an
// explicit end-of-day time; without it the API treats the bound as
// midnight and drops the final day's games.
func DateRange(start, end string) Filter {
	if start == "" || end == "" {
		return ""
	}
	return Filter(fmt.Sprintf("(game.gameDate >= '%s') AND (game.gameDate <= '%s 23:59:59')", start, end))
}

// PitchGroup is one row of the report's pitch-type breakdown.
type PitchGroup struct {
	Name   string
	Filter Filter
}

// PitchGroups maps report pitch-type rows to the event codes the vendor
// tags pitches with. Sinkers and two-seamers count as fastballs; the
// curveball group folds in slow curves and knuckle curves.
var PitchGroups = []PitchGroup{
	{"Fastball", Or("event.pitchType IN ('FA','FF')", "event.pitchType IN ('SI', 'FT')")},
	{"Cutter", "event.pitchType = 'FC'"},
	{"Slider", "event.pitchType IN ('SL')"},
	{"Curveball", "event.pitchType IN ('CU','CS','KC')"},
	{"Changeup", "event.pitchType = 'CH'"},
}

// Count selects pitches thrown at one ball-strike count.
func Count(balls, strikes int) Filter {
	return Filter(fmt.Sprintf("event.balls = %d AND event.strikes = %d", balls, strikes))
}

// AttackCounts selects pitches thrown in attack counts (0-0, 0-1).
var AttackCounts = Or(Count(0, 0), Count(0, 1))

// FinishCounts selects pitches thrown in put-away counts (0-2, 1-2, 2-2).
var FinishCounts = Or(Count(0, 2), Count(1, 2), Count(2, 2))

// InZoneCalledBall selects pitches inside the zone called balls: the
// umpire's I-Zone misses.
const InZoneCalledBall Filter = "((event.inOfZone)) AND ((event.pitchResult = 'BL'))"

// OutZoneCalledStrike selects pitches outside the zone called strikes:
// the umpire's O-Zone misses.
const OutZoneCalledStrike Filter = "((event.outOfZone)) AND ((event.pitchResult = 'SL'))"

// DivisionOne narrows the season-wide team table to Division 1
// baseball and softball programs.
const DivisionOne Filter = "(season.seasonLevel IN ('BBC','SFT') AND team.game.gameLeague = 'D1')"

// PitcherHand narrows to pitchers throwing with hand "L" or "R".
func PitcherHand(hand string) Filter {
	if hand == "" {
		return ""
	}
	return Filter(fmt.Sprintf("(event.pitcherHand = '%s')", hand))
}

// BatterHand narrows to batters hitting from side "L" or "R".
func BatterHand(hand string) Filter {
	if hand == "" {
		return ""
	}
	return Filter(fmt.Sprintf("(event.batterHand = '%s')", hand))
}

// InningSide narrows to the top or bottom half of innings. A team's
// pitchers work the half when the other team bats, so the home staff is
// "top" and the away staff "bottom".
func InningSide(side string) Filter {
	switch side {
	case "top":
		return "(event.top)"
	case "bottom":
		return "(event.bottom)"
	}
	return ""
}
