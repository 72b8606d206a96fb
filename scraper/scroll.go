package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/afbaseball/trureport/models"
)

const pageHeightJS = `() => document.body.scrollHeight`

// ProgressiveScroll walks the page down in fixed increments to trigger
// lazy chart mounting, re-reading the document height after each step
// because mounted content extends it. It finishes with a scroll to the
// bottom and back to the top so every chart has been in the viewport at
// least once.
//
// Lazy mounting is what makes chart ordinals fragile: an element mounted
// after discovery shifts every later ordinal of its tag. Scrolling the
// whole page before discovery is the mitigation, not a guarantee.
func (s *Scraper) ProgressiveScroll(ctx context.Context) error {
	page, err := s.session.Page(ctx)
	if err != nil {
		return err
	}
	ev := PageEvaluator{Page: page}

	scrollTo := func(y int) error {
		_, evalErr := ev.Eval(`(y) => window.scrollTo(0, y)`, y)
		return evalErr
	}
	height := func() (int, error) {
		res, evalErr := ev.Eval(pageHeightJS)
		if evalErr != nil {
			return 0, evalErr
		}
		return res.Int(), nil
	}

	total, err := height()
	if err != nil {
		return err
	}

	pause := func(d time.Duration) error {
		select {
		case <-time.After(d):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for pos := 0; pos < total; {
		pos += s.cfg.ScrollStep
		if err := scrollTo(pos); err != nil {
			return err
		}
		if err := pause(s.cfg.ScrollPause); err != nil {
			return err
		}
		if grown, hErr := height(); hErr == nil && grown > total {
			total = grown
			slog.Info("page height grew during scroll", "height", grown)
		}
	}

	if err := scrollTo(total); err != nil {
		return err
	}
	if err := pause(3 * time.Second); err != nil {
		return err
	}
	if err := scrollTo(0); err != nil {
		return err
	}
	if err := pause(2 * time.Second); err != nil {
		return err
	}
	slog.Info("progressive scroll complete", "height", total)
	return nil
}

// rosterCountJS counts roster card elements across every shadow subtree.
const rosterCountJS = `(rootTag) => {
	const app = document.querySelector(rootTag);
	if (!app || !app.shadowRoot) return 0;
	function countEntityItems(root) {
		let count = root.querySelectorAll('[class*="entity-item"], .entity-item').length;
		root.querySelectorAll('*').forEach(el => {
			if (el.shadowRoot) count += countEntityItems(el.shadowRoot);
		});
		return count;
	}
	return countEntityItems(app.shadowRoot);
}`

// AwaitRoster polls for roster cards until the configured budget runs
// out. Returns the count found; zero after the full wait means the team
// page never produced a roster, which the scouting workflow treats as
// fatal.
func (s *Scraper) AwaitRoster(ctx context.Context) (int, error) {
	page, err := s.session.Page(ctx)
	if err != nil {
		return 0, err
	}
	ev := PageEvaluator{Page: page}

	deadline := time.Now().Add(s.cfg.RosterWait)
	for {
		res, evalErr := ev.Eval(rosterCountJS, models.RootAppTag)
		if evalErr == nil {
			if n := res.Int(); n > 0 {
				slog.Info("roster loaded", "entityItems", n)
				return n, nil
			}
		}
		if time.Now().After(deadline) {
			slog.Warn("roster never appeared", "waited", s.cfg.RosterWait)
			return 0, nil
		}
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}
