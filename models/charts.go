package models

import "strings"

// ChartTag is the custom-element tag name of a dashboard chart.
type ChartTag string

// Chart custom elements rendered by the vendor dashboard. The app mounts
// them at arbitrary depth inside nested shadow roots.
const (
	TagPieChart          ChartTag = "tmn-pie-chart-baseball"
	TagPitchChart        ChartTag = "tmn-pitch-chart-baseball"
	TagPitchBreakChart   ChartTag = "tmn-pitch-break-chart-baseball"
	TagReleasePointChart ChartTag = "tmn-release-point-chart-baseball"
	TagRadialHistogram   ChartTag = "tmn-radial-histogram-chart-baseball"
	TagExtensionPoint    ChartTag = "tmn-extension-point-chart-baseball"
	TagHeatMap           ChartTag = "tmn-heat-map-baseball"
)

// RootAppTag is the dashboard's root custom element. Chart discovery
// starts from its shadow root.
const RootAppTag = "tmn-ferp-app"

// DefaultChartTags is the set searched by ScrapePage when the caller does
// not narrow it.
var DefaultChartTags = []ChartTag{
	TagPieChart,
	TagPitchChart,
	TagPitchBreakChart,
	TagReleasePointChart,
	TagRadialHistogram,
	TagExtensionPoint,
	TagHeatMap,
}

// ShortName strips the vendor prefix and sport suffix from a chart tag,
// yielding the stem used for asset file names ("tmn-heat-map-baseball"
// becomes "heat-map").
func (t ChartTag) ShortName() string {
	s := strings.TrimPrefix(string(t), "tmn-")
	s = strings.TrimSuffix(s, "-baseball")
	return s
}

// ChartDescriptor identifies one chart instance on the current page.
// Index is the 0-based rank among elements with the same tag in traversal
// order; (Tag, Index) is unique within one discovery pass.
type ChartDescriptor struct {
	Tag   ChartTag `json:"tag"`
	Index int      `json:"index"`
}

// ContentKind discriminates the forms chart content arrives in.
type ContentKind int

const (
	// KindMissing means the element exists but exposed no usable content.
	KindMissing ContentKind = iota

	// KindSVG is serialized vector markup ready to write as an .svg file.
	KindSVG

	// KindInline is raster bytes delivered in-page as a data URL.
	KindInline

	// KindRemote is a URL that must be downloaded through the page's
	// authenticated context.
	KindRemote
)

func (k ContentKind) String() string {
	switch k {
	case KindSVG:
		return "svg"
	case KindInline:
		return "inline"
	case KindRemote:
		return "remote"
	default:
		return "missing"
	}
}

// ChartContent is the resolved content of one chart instance. Exactly the
// fields implied by Kind are meaningful; consumers switch on Kind and treat
// any unknown value as missing.
type ChartContent struct {
	Kind ContentKind

	// Markup is the serialized SVG for KindSVG.
	Markup string

	// DataURL is the raster payload for KindInline.
	DataURL string

	// URL is the absolute resource location for KindRemote.
	URL string
}

// CapturedAsset records one chart image persisted to disk.
type CapturedAsset struct {
	Name string `json:"name"` // file stem, e.g. "heat-map_3"
	Path string `json:"path"` // absolute or dir-relative file path
	Kind string `json:"kind"` // content kind that produced it
}
