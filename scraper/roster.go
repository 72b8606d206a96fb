package scraper

import (
	"context"
	"log/slog"

	"github.com/afbaseball/trureport/models"
)

// rosterJS pulls pitcher cards out of the team page. The cards live two
// shadow boundaries deep: entity-container divs in the app's subtree hold
// entity-description elements whose own shadow roots hold the entity-item
// cards. Each card's cells mix jersey number, handedness marker and name
// text, so the fields are teased apart with pattern checks and the name
// trimmed to its first two words.
const rosterJS = `(rootTag) => {
	const app = document.querySelector(rootTag);
	if (!app || !app.shadowRoot) return [];
	const roster = [];

	function searchShadowDOM(root) {
		if (!root) return;
		const entityContainers = root.querySelectorAll('div.entity-container, [class*="entity-container"]');
		entityContainers.forEach(container => {
			container.querySelectorAll('tmn-entity-description-baseball').forEach(entityDesc => {
				if (!entityDesc.shadowRoot) return;
				const entityItems = entityDesc.shadowRoot.querySelectorAll('div.entity-item, [class*="entity-item"]');
				entityItems.forEach(card => {
					const cells = card.querySelectorAll('div.cell, [class*="cell"]');
					let number = '';
					let handedness = '';
					let nameParts = [];

					cells.forEach(cell => {
						const text = cell.textContent.trim();
						if (!text) return;
						const numberMatch = text.match(/#*(\d+)/);
						if (numberMatch && !number) number = numberMatch[1];
						if (text.match(/^[LR]$/i) || text.match(/^\([LR]\)$/i)) {
							const handMatch = text.match(/\(?([LR])\)?/i);
							if (handMatch) handedness = handMatch[1].toUpperCase();
							return;
						}
						let cleanText = text
							.replace(/^#*\d+\s*/, '')
							.replace(/\s*\([LR]\)\s*/gi, ' ')
							.trim();
						if (cleanText) nameParts.push(cleanText);
					});

					let name = '';
					if (nameParts.length > 0) {
						const words = nameParts.join(' ').split(/\s+/);
						name = words.slice(0, 2).join(' ');
					}
					if (name && !roster.some(p => p.name === name)) {
						roster.push({name, number, handedness: handedness || 'R'});
					}
				});
			});
		});

		root.querySelectorAll('*').forEach(el => {
			if (el.shadowRoot) searchShadowDOM(el.shadowRoot);
		});
	}

	searchShadowDOM(app.shadowRoot);
	return roster;
}`

// headshotsJS collects player headshot URLs from the entity-logo elements,
// deduplicated in document order.
const headshotsJS = `() => {
	const logos = [];
	function search(node) {
		if (!node) return;
		logos.push(...node.querySelectorAll('tmn-baseball-entity-logo[entitytype="player"]'));
		node.querySelectorAll('*').forEach(el => {
			if (el.shadowRoot) search(el.shadowRoot);
		});
	}
	search(document);

	const urls = [];
	const seen = new Set();
	for (const logo of logos) {
		if (!logo.shadowRoot) continue;
		const img = logo.shadowRoot.querySelector('img');
		if (img && img.src && !seen.has(img.src)) {
			urls.push(img.src);
			seen.add(img.src);
		}
	}
	return urls;
}`

// ExtractRoster reads the pitcher roster from the current team page and
// pairs each entry with a headshot URL. Headshots come from a separate
// pass over the page's player-logo elements and are matched to roster
// rows by position, which holds only while the page renders exactly one
// logo per roster card in the same order. A wrong face on a card is a
// known failure mode of this correlation.
func ExtractRoster(ctx context.Context, ev Evaluator) ([]models.PitcherRosterEntry, error) {
	res, err := ev.Eval(rosterJS, models.RootAppTag)
	if err != nil {
		return nil, err
	}

	var roster []models.PitcherRosterEntry
	for _, item := range res.Arr() {
		entry := models.PitcherRosterEntry{
			Name:       item.Get("name").Str(),
			Number:     item.Get("number").Str(),
			Handedness: item.Get("handedness").Str(),
		}
		if entry.Name == "" {
			continue
		}
		roster = append(roster, entry)
	}
	if len(roster) == 0 {
		return nil, nil
	}

	heads, err := ev.Eval(headshotsJS)
	if err != nil {
		slog.Warn("headshot extraction failed", "error", err)
		return roster, nil
	}
	urls := heads.Arr()
	for i := range roster {
		if i < len(urls) {
			roster[i].HeadshotURL = urls[i].Str()
		}
	}
	return roster, nil
}
