package scraper

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/afbaseball/trureport/browser"
	"github.com/afbaseball/trureport/cleaner"
	"github.com/afbaseball/trureport/config"
	"github.com/afbaseball/trureport/models"
	"github.com/afbaseball/trureport/simhash"
)

// Scraper drives one browser session through the capture workflow:
// navigate, settle, discover, capture each chart to disk. It is bound to
// a single Session and, like the Session, not safe for concurrent use.
type Scraper struct {
	cfg     config.ScraperConfig
	session *browser.Session
	fetcher *HTTPFetcher
}

// NewScraper binds a scraper to a connected session.
func NewScraper(cfg config.ScraperConfig, session *browser.Session) *Scraper {
	return &Scraper{
		cfg:     cfg,
		session: session,
		fetcher: NewHTTPFetcher(),
	}
}

// Session exposes the underlying browser session.
func (s *Scraper) Session() *browser.Session { return s.session }

// Fetcher exposes the plain-HTTP fetcher for assets outside the page's
// auth context.
func (s *Scraper) Fetcher() *HTTPFetcher { return s.fetcher }

// Navigate loads the URL in the session's tab and waits for the load
// event. Chart rendering continues well past the load event; ScrapePage
// adds its own settle wait.
func (s *Scraper) Navigate(ctx context.Context, url string) error {
	page, err := s.session.Page(ctx)
	if err != nil {
		return err
	}
	if err := page.Navigate(url); err != nil {
		return models.NewReportError(models.ErrCodeNavigation, "navigation failed", err)
	}
	if err := page.WaitLoad(); err != nil {
		slog.Warn("load event wait failed, continuing", "error", err)
	}
	return nil
}

// ScrapePage captures every chart on the current page into dir and
// returns the persisted assets. No charts found is an empty result, not
// an error. Individual capture failures are logged and skipped; one
// hollow chart must not sink the rest of the page.
func (s *Scraper) ScrapePage(ctx context.Context, dir string) ([]models.CapturedAsset, error) {
	select {
	case <-time.After(s.cfg.SettleWait):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	page, err := s.session.Page(ctx)
	if err != nil {
		return nil, err
	}
	ev := PageEvaluator{Page: page}

	charts, err := FindCharts(ev, models.DefaultChartTags)
	if err != nil {
		return nil, err
	}
	if len(charts) == 0 {
		slog.Warn("no charts found on page")
		return []models.CapturedAsset{}, nil
	}
	slog.Info("charts discovered", "count", len(charts))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	counts := make(map[models.ChartTag]int)
	for _, c := range charts {
		counts[c.Tag]++
	}

	var captured []models.CapturedAsset
	fingerprints := make(map[string]uint64)
	for _, c := range charts {
		stem := c.Tag.ShortName()
		if counts[c.Tag] > 1 {
			stem = stem + "_" + strconv.Itoa(c.Index)
		}
		asset, capErr := s.CaptureToFile(ctx, ev, c.Tag, c.Index, filepath.Join(dir, stem))
		if capErr != nil {
			slog.Warn("chart capture failed", "tag", c.Tag, "index", c.Index, "error", capErr)
			continue
		}
		if asset.Path == "" {
			continue
		}
		checkDuplicate(asset, fingerprints)
		captured = append(captured, asset)
		slog.Info("chart captured", "file", filepath.Base(asset.Path))
	}
	return captured, nil
}

// checkDuplicate flags a captured vector chart that is near-identical to
// an earlier one on the same page. Distinct charts never resolve to the
// same content, so a match means the capture walk drifted from the
// discovery walk and two ordinals landed on one element.
func checkDuplicate(asset models.CapturedAsset, seen map[string]uint64) {
	if filepath.Ext(asset.Path) != ".svg" {
		return
	}
	markup, err := os.ReadFile(asset.Path)
	if err != nil {
		return
	}
	fp := simhash.FingerprintChart(string(markup))
	if fp == 0 {
		return
	}
	for name, prior := range seen {
		if simhash.Similar(fp, prior, 3) {
			slog.Warn("captured chart nearly identical to an earlier capture",
				"chart", asset.Name, "duplicateOf", name)
			break
		}
	}
	seen[asset.Name] = fp
}

// CaptureToFile resolves one chart's content and persists it at stem with
// a kind-appropriate extension. A missing chart yields a zero asset and
// no error.
func (s *Scraper) CaptureToFile(ctx context.Context, ev Evaluator, tag models.ChartTag, index int, stem string) (models.CapturedAsset, error) {
	preferRaster := s.cfg.HeatMapRaster && tag == models.TagHeatMap

	content, err := CaptureChart(ev, tag, index, preferRaster)
	if err != nil {
		return models.CapturedAsset{}, err
	}

	var path string
	switch content.Kind {
	case models.KindSVG:
		markup := cleaner.SanitizeSVG(content.Markup)
		path = stem + ".svg"
		if err = os.WriteFile(path, []byte(markup), 0o644); err != nil {
			return models.CapturedAsset{}, err
		}
	case models.KindInline:
		path, err = WriteDataURL(stem, content.DataURL)
		if err != nil {
			return models.CapturedAsset{}, err
		}
	case models.KindRemote:
		page, pageErr := s.session.Page(ctx)
		if pageErr != nil {
			return models.CapturedAsset{}, pageErr
		}
		frameID, frameErr := s.session.FrameID(ctx)
		if frameErr != nil {
			return models.CapturedAsset{}, frameErr
		}
		path, err = DownloadResource(page, frameID, content.URL, stem)
		if err != nil {
			return models.CapturedAsset{}, err
		}
	default:
		slog.Info("chart has no capturable content", "tag", tag, "index", index)
		return models.CapturedAsset{}, nil
	}
	if path == "" {
		return models.CapturedAsset{}, nil
	}

	return models.CapturedAsset{
		Name: filepath.Base(stem),
		Path: path,
		Kind: content.Kind.String(),
	}, nil
}
