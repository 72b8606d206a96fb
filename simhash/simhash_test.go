package simhash

import (
	"testing"
)

func TestFingerprint_IdenticalTexts(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	fp1 := Fingerprint(text)
	fp2 := Fingerprint(text)

	if fp1 != fp2 {
		t.Errorf("identical texts produced different fingerprints: %064b vs %064b", fp1, fp2)
	}
}

func TestFingerprint_SimilarTexts(t *testing.T) {
	text1 := "the quick brown fox jumps over the lazy dog"
	text2 := "the quick brown fox leaps over the lazy dog"

	fp1 := Fingerprint(text1)
	fp2 := Fingerprint(text2)

	dist := Distance(fp1, fp2)
	if dist > 10 {
		t.Errorf("similar texts have too large distance: %d (fingerprints: %064b, %064b)", dist, fp1, fp2)
	}
}

func TestFingerprint_EmptyInput(t *testing.T) {
	fp := Fingerprint("")
	if fp != 0 {
		t.Errorf("empty input should produce fingerprint 0, got: %064b", fp)
	}
}

func TestFingerprint_WhitespaceOnly(t *testing.T) {
	fp := Fingerprint("   \t\n  ")
	if fp != 0 {
		t.Errorf("whitespace-only input should produce fingerprint 0, got: %064b", fp)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want int
	}{
		{"identical", 0xFF, 0xFF, 0},
		{"all different", 0, ^uint64(0), 64},
		{"one bit", 0, 1, 1},
		{"two bits", 0, 3, 2},
		{"zero zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Distance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilar(t *testing.T) {
	fp1 := Fingerprint("the quick brown fox")
	fp2 := Fingerprint("the quick brown fox")

	if !Similar(fp1, fp2, 0) {
		t.Error("identical fingerprints should be similar at threshold 0")
	}

	fp3 := Fingerprint("a completely different text about nothing related")
	dist := Distance(fp1, fp3)

	if Similar(fp1, fp3, dist-1) {
		t.Errorf("different texts should not be similar at threshold %d (distance is %d)", dist-1, dist)
	}
	if !Similar(fp1, fp3, dist) {
		t.Errorf("should be similar at threshold equal to distance (%d)", dist)
	}
}

func TestFingerprintChart_SameCaptureTwice(t *testing.T) {
	svg := `<svg viewBox="0 0 100 100"><rect x="10" y="10" width="80" height="80"/><circle cx="30" cy="40" r="3"/><circle cx="55" cy="62" r="3"/></svg>`

	fp1 := FingerprintChart(svg)
	fp2 := FingerprintChart(svg)

	if fp1 != fp2 {
		t.Errorf("same markup should produce same fingerprint, distance: %d", Distance(fp1, fp2))
	}
}

func TestFingerprintChart_SameStructureDifferentGeometry(t *testing.T) {
	// Two zone charts: identical tag structure, dots in different spots.
	chart1 := `<svg viewBox="0 0 100 100"><rect x="25" y="25" width="50" height="50"/><circle cx="30" cy="40" r="3"/><circle cx="55" cy="62" r="3"/><circle cx="71" cy="18" r="3"/></svg>`
	chart2 := `<svg viewBox="0 0 100 100"><rect x="25" y="25" width="50" height="50"/><circle cx="12" cy="88" r="3"/><circle cx="44" cy="29" r="3"/><circle cx="63" cy="51" r="3"/></svg>`

	fp1 := FingerprintChart(chart1)
	fp2 := FingerprintChart(chart2)

	if fp1 == fp2 {
		t.Error("charts with different geometry should produce different fingerprints")
	}
}

func TestFingerprintChart_EmptyMarkup(t *testing.T) {
	fp := FingerprintChart("")
	if fp != 0 {
		t.Errorf("empty markup should produce fingerprint 0, got: %064b", fp)
	}
}

func TestFingerprintChart_PlainText(t *testing.T) {
	fp := FingerprintChart("just some text with no elements")
	if fp != 0 {
		t.Errorf("markup with no tags should produce fingerprint 0, got: %064b", fp)
	}
}

func TestExtractDrawTokens(t *testing.T) {
	svg := `<svg viewBox="0 0 10 10"><g class="grid"><line x1="0" y1="5" x2="10" y2="5"/></g></svg>`
	tokens := extractDrawTokens(svg)

	expected := []string{"svg", "g", "line", "0", "5", "10", "5"}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}

	for i, tok := range tokens {
		if tok != expected[i] {
			t.Errorf("token[%d] = %q, want %q", i, tok, expected[i])
		}
	}
}

func TestMakeShingles(t *testing.T) {
	tokens := []string{"a", "b", "c", "d"}

	shingles := makeShingles(tokens, 3)
	expected := []string{"a_b_c", "b_c_d"}

	if len(shingles) != len(expected) {
		t.Fatalf("expected %d shingles, got %d: %v", len(expected), len(shingles), shingles)
	}

	for i, s := range shingles {
		if s != expected[i] {
			t.Errorf("shingle[%d] = %q, want %q", i, s, expected[i])
		}
	}
}

func TestMakeShingles_TooFewTokens(t *testing.T) {
	shingles := makeShingles([]string{"a", "b"}, 3)
	if shingles != nil {
		t.Errorf("expected nil for fewer tokens than n, got: %v", shingles)
	}
}
