package scraper

import (
	"github.com/afbaseball/trureport/models"
)

// findChartsJS walks the dashboard's shadow DOM and reports every chart
// custom element in document order. The walk recurses into open shadow
// roots inline, so a host's shadow content is visited right after the
// host itself; closed shadow roots read as null and end that branch.
// Chart elements never nest inside other chart elements.
const findChartsJS = `(rootTag, chartTypes) => {
	function findCharts(root) {
		if (!root) return [];
		let charts = [];
		root.querySelectorAll('*').forEach(el => {
			const tag = el.tagName?.toLowerCase();
			if (chartTypes.includes(tag)) charts.push({tag});
			if (el.shadowRoot) charts = charts.concat(findCharts(el.shadowRoot));
		});
		return charts;
	}
	const app = document.querySelector(rootTag);
	if (!app || !app.shadowRoot) return [];
	return findCharts(app.shadowRoot);
}`

// FindCharts discovers chart elements on the current page and assigns
// each a per-tag ordinal in traversal order. A page without the root app
// element, or with its shadow root inaccessible, yields an empty slice
// and no error; that page simply has no charts to offer.
//
// The ordinals are only stable while the page state is stable. Anything
// that mounts or unmounts chart elements between discovery and capture
// shifts them.
func FindCharts(ev Evaluator, tags []models.ChartTag) ([]models.ChartDescriptor, error) {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}

	res, err := ev.Eval(findChartsJS, models.RootAppTag, names)
	if err != nil {
		return nil, err
	}

	seen := make(map[models.ChartTag]int)
	var found []models.ChartDescriptor
	for _, item := range res.Arr() {
		tag := models.ChartTag(item.Get("tag").Str())
		if tag == "" {
			continue
		}
		found = append(found, models.ChartDescriptor{Tag: tag, Index: seen[tag]})
		seen[tag]++
	}
	return found, nil
}
