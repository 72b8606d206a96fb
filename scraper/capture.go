package scraper

import (
	"github.com/afbaseball/trureport/models"
)

// captureChartJS re-walks the shadow DOM to the index-th element with the
// target tag, then resolves its content. The walk must match findChartsJS
// exactly (same inline shadow recursion, shared ordinal counter) or the
// ordinals drift between discovery and capture.
//
// Content resolution inside the matched element:
//   - findSvg: first svg descendant, crossing shadow boundaries.
//   - captureImage: an img with a data: src is returned as-is; an img
//     with a remote src is redrawn onto an offscreen canvas and exported;
//     a bare canvas is exported directly; an svg <image> ref is resolved
//     to an absolute URL and fetched with a credentialed sync XHR, and
//     when the fetch is refused the URL itself is returned for the
//     caller's downloader.
//
// Order between the two is caller-chosen: vector first normally, raster
// first for charts the vendor paints as bitmaps.
const captureChartJS = `(rootTag, targetTag, targetIndex, preferImage) => {
	function deepQuery(node, selector, depth = 0) {
		if (!node || depth > 12) return null;
		if (node.matches && node.matches(selector)) return node;
		if (node.querySelector) {
			const direct = node.querySelector(selector);
			if (direct) return direct;
		}
		if (node.shadowRoot) {
			const shadowResult = deepQuery(node.shadowRoot, selector, depth + 1);
			if (shadowResult) return shadowResult;
		}
		const children = node.children ? Array.from(node.children) : [];
		for (const child of children) {
			const found = deepQuery(child, selector, depth + 1);
			if (found) return found;
		}
		return null;
	}
	function findChart(root, state) {
		if (!root) return null;
		const nodes = root.querySelectorAll('*');
		for (const el of nodes) {
			const tag = el.tagName?.toLowerCase();
			if (tag === targetTag) {
				if (state.idx === targetIndex) {
					function findSvg(node) {
						if (!node) return null;
						if (node.tagName?.toLowerCase() === 'svg') return node;
						const descendants = node.querySelectorAll ? node.querySelectorAll('*') : [];
						for (const child of descendants) {
							const found = findSvg(child);
							if (found) return found;
						}
						return node.shadowRoot ? findSvg(node.shadowRoot) : null;
					}
					function captureImage(node) {
						const img = deepQuery(node, 'img');
						if (img) {
							const src = img.getAttribute('src') || img.currentSrc || '';
							if (src.startsWith('data:image/')) return {kind:'inline', data:src};
							const canvas = document.createElement('canvas');
							const w = img.naturalWidth || img.width || 0;
							const h = img.naturalHeight || img.height || 0;
							if (w && h) {
								canvas.width = w;
								canvas.height = h;
								canvas.getContext('2d').drawImage(img, 0, 0, w, h);
								return {kind:'inline', data:canvas.toDataURL('image/png')};
							}
						}
						const canvasEl = deepQuery(node, 'canvas');
						if (canvasEl) {
							try { return {kind:'inline', data:canvasEl.toDataURL('image/png')}; } catch(e) {}
						}
						const svgImg = deepQuery(node, 'image');
						if (svgImg) {
							const href = svgImg.getAttribute('href') || svgImg.getAttribute('xlink:href');
							if (href) {
								const abs = new URL(href, location.href).toString();
								try {
									const xhr = new XMLHttpRequest();
									xhr.open('GET', abs, false);
									xhr.withCredentials = true;
									xhr.responseType = 'arraybuffer';
									xhr.send();
									if (xhr.status >= 200 && xhr.status < 300) {
										const bytes = new Uint8Array(xhr.response || []);
										let bin = '';
										for (const b of bytes) bin += String.fromCharCode(b);
										const base64 = btoa(bin);
										const type = xhr.getResponseHeader('Content-Type') || 'image/png';
										return {kind:'inline', data:'data:' + type + ';base64,' + base64, mime:type};
									}
								} catch(e) {}
								return {kind:'href', href:abs};
							}
						}
						return null;
					}
					const svg = findSvg(el);
					const svgResult = svg ? {kind:'svg', svg: svg.outerHTML} : null;
					const imageResult = captureImage(el);
					if (preferImage === true) {
						if (imageResult) return imageResult;
						if (svgResult) return svgResult;
					} else {
						if (svgResult) return svgResult;
						if (imageResult) return imageResult;
					}
					return {kind:'missing'};
				}
				state.idx++;
			}
			if (el.shadowRoot) {
				const result = findChart(el.shadowRoot, state);
				if (result) return result;
			}
		}
		return null;
	}
	const app = document.querySelector(rootTag);
	if (!app || !app.shadowRoot) return {kind:'missing', reason:'main-app'};
	return findChart(app.shadowRoot, {idx: 0}) || {kind:'missing'};
}`

// CaptureChart resolves the content of the index-th chart with the given
// tag. When the page holds fewer instances than index requires, the
// result is KindMissing; asking for a chart that is not there is routine
// (layouts vary by player), not an error.
func CaptureChart(ev Evaluator, tag models.ChartTag, index int, preferRaster bool) (models.ChartContent, error) {
	res, err := ev.Eval(captureChartJS, models.RootAppTag, string(tag), index, preferRaster)
	if err != nil {
		return models.ChartContent{}, err
	}

	switch res.Get("kind").Str() {
	case "svg":
		if markup := res.Get("svg").Str(); markup != "" {
			return models.ChartContent{Kind: models.KindSVG, Markup: markup}, nil
		}
	case "inline":
		if data := res.Get("data").Str(); data != "" {
			return models.ChartContent{Kind: models.KindInline, DataURL: data}, nil
		}
	case "href":
		if href := res.Get("href").Str(); href != "" {
			return models.ChartContent{Kind: models.KindRemote, URL: href}, nil
		}
	}
	return models.ChartContent{Kind: models.KindMissing}, nil
}
