package models

// PitcherRosterEntry is one pitcher row scraped from a team dashboard
// page. HeadshotURL is matched to the roster by element order on the page,
// so it can be empty or, if the page interleaves other player media, point
// at the wrong player.
type PitcherRosterEntry struct {
	Name        string `json:"name"`
	Number      string `json:"number,omitempty"`
	Handedness  string `json:"handedness,omitempty"` // "L" or "R" when shown
	HeadshotURL string `json:"headshotUrl,omitempty"`
}
