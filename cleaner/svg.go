package cleaner

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// SanitizeSVG strips active content from captured chart markup before it
// is written to disk. Vendor charts embed event-handler scripts and
// foreignObject overlays that are useless outside the dashboard and that
// SVG renderers choke on. If the markup does not parse, it is returned
// unchanged; a raw chart beats no chart.
func SanitizeSVG(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	doc.Find("script, foreignObject").Remove()

	svg := doc.Find("svg").First()
	if svg.Length() == 0 {
		return markup
	}
	out, err := goquery.OuterHtml(svg)
	if err != nil {
		return markup
	}
	return out
}

// StripLegend removes legend groups from chart markup. Umpire zone charts
// carry a color legend that crowds the small PDF slots; the data marks
// survive without it. Elements are dropped when any class token contains
// "legend" or "leg".
func StripLegend(markup string) (string, error) {
	sel, err := cascadia.Parse(`[class*="leg"]`)
	if err != nil {
		return markup, err
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return markup, err
	}

	for _, node := range cascadia.QueryAll(doc, sel) {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}

	svg := cascadia.Query(doc, cascadia.MustCompile("svg"))
	if svg == nil {
		return markup, nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, svg); err != nil {
		return markup, err
	}
	return buf.String(), nil
}

// Dimensions reports the intrinsic width and height of SVG markup, in
// CSS pixels. Explicit width/height attributes win; a viewBox is the
// fallback. Zero values mean the markup declares nothing usable.
func Dimensions(markup string) (w, h float64) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 0, 0
	}
	svg := doc.Find("svg").First()
	if svg.Length() == 0 {
		return 0, 0
	}

	parse := func(attr string) float64 {
		v, _ := svg.Attr(attr)
		v = strings.TrimSuffix(strings.TrimSpace(v), "px")
		if v == "" || strings.HasSuffix(v, "%") {
			return 0
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	}

	w, h = parse("width"), parse("height")
	if w > 0 && h > 0 {
		return w, h
	}

	// The HTML parser lowercases attribute names, so viewBox arrives as
	// viewbox.
	if vb, ok := svg.Attr("viewbox"); ok {
		parts := strings.Fields(vb)
		if len(parts) == 4 {
			vw, errW := strconv.ParseFloat(parts[2], 64)
			vh, errH := strconv.ParseFloat(parts[3], 64)
			if errW == nil && errH == nil {
				return vw, vh
			}
		}
	}
	return w, h
}
