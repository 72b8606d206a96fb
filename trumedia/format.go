package trumedia

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatStat renders a numeric stat for a report cell. NaN and the API's
// textual null markers render blank; blankIfZero additionally blanks
// exact zeros, which the API uses for "did not happen" on count stats.
func FormatStat(value float64, decimals int, blankIfZero bool) string {
	if math.IsNaN(value) {
		return ""
	}
	if blankIfZero && value == 0 {
		return ""
	}
	if decimals == 0 {
		return strconv.Itoa(int(value))
	}
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

// FormatStatString renders a stat that may arrive as text (Tilt values
// like "1:30"). Null markers render blank; numeric text is reformatted
// through FormatStat.
func FormatStatString(value string, decimals int) string {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "", "nan", "n/a", "none":
		return ""
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return FormatStat(f, decimals, false)
	}
	return v
}

// FormatPercentage renders a percentage cell. The API is inconsistent
// about units: some endpoints return ratios (0.47), others percentages
// (47.0). Values within [0, 1] are scaled up, so both arrive at the
// same rendering. A true sub-1% rate read from a percentage column is
// misscaled by this rule; the original data never exercises that range.
func FormatPercentage(value float64, decimals int) string {
	if math.IsNaN(value) {
		return ""
	}
	if value >= 0 && value <= 1 {
		value *= 100
	}
	return fmt.Sprintf("%.*f%%", decimals, value)
}
