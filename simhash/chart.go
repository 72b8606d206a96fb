package simhash

import (
	"strings"

	"golang.org/x/net/html"
)

// FingerprintChart computes a SimHash fingerprint of an SVG chart.
// Charts of the same type share their tag structure, so the token
// stream carries the geometry attributes alongside the tag names: two
// zone charts with different pitch dots diverge, the same chart
// captured twice does not.
func FingerprintChart(markup string) uint64 {
	tokens := extractDrawTokens(markup)
	if len(tokens) == 0 {
		return 0
	}

	shingles := makeShingles(tokens, 3)
	if len(shingles) == 0 {
		// Fall back to the token sequence itself when the chart is too
		// small for shingles.
		return Fingerprint(strings.Join(tokens, " "))
	}

	return Fingerprint(strings.Join(shingles, " "))
}

// geometryAttrs are the SVG attributes that place drawn content.
var geometryAttrs = map[string]bool{
	"d":         true,
	"points":    true,
	"cx":        true,
	"cy":        true,
	"r":         true,
	"x":         true,
	"y":         true,
	"x1":        true,
	"y1":        true,
	"x2":        true,
	"y2":        true,
	"width":     true,
	"height":    true,
	"transform": true,
}

// extractDrawTokens walks the markup with the tokenizer and collects
// open tag names plus geometry attribute values, in document order.
func extractDrawTokens(markup string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var tokens []string

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return tokens
		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := tokenizer.TagName()
			tokens = append(tokens, string(tn))
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = tokenizer.TagAttr()
				if geometryAttrs[string(key)] {
					tokens = append(tokens, strings.Fields(string(val))...)
				}
			}
		}
	}
}

// makeShingles creates n-gram shingles from a slice of tokens.
func makeShingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}

	shingles := make([]string, 0, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		shingles = append(shingles, strings.Join(tokens[i:i+n], "_"))
	}
	return shingles
}
