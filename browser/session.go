package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/afbaseball/trureport/config"
	"github.com/afbaseball/trureport/models"
)

// Session owns one connection to a Chrome instance exposing the remote
// debugging protocol. The browser is usually long-lived and externally
// owned (a logged-in dashboard session); Session attaches to it, drives
// one tab, and detaches without disturbing it. When nothing listens on
// the debug port and a bootstrap command is configured, Session launches
// its own child browser and owns its lifetime.
//
// Session is not safe for concurrent use. One report run drives one
// Session from start to finish.
type Session struct {
	cfg     config.BrowserConfig
	httpc   *http.Client
	browser *rod.Browser
	page    *rod.Page
	cmd     *exec.Cmd
	spawned bool

	frameID proto.PageFrameID
}

// NewSession builds an unconnected session. Call Connect before use and
// Close on every exit path.
func NewSession(cfg config.BrowserConfig) *Session {
	return &Session{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *Session) addr() string {
	return net.JoinHostPort(s.cfg.DebugHost, fmt.Sprint(s.cfg.DebugPort))
}

func (s *Session) endpoint(path string) string {
	return "http://" + s.addr() + path
}

// Connect establishes the attachment:
//
//  1. Port probe            – is anything listening on the debug port?
//  2. Bootstrap launch      – spawn Chrome if configured, wait for the port
//  3. Debugger readiness    – poll /json/version for webSocketDebuggerUrl
//  4. Tab availability      – /json/list must show a page target, /json/new otherwise
//  5. Attach                – rod websocket connect, retried with re-verification
//
// Steps 3-5 each carry their own bounded retry budget; the ctx deadline
// caps the whole sequence.
func (s *Session) Connect(ctx context.Context) error {
	// ── 1-2. Port probe and bootstrap ────────────────────────────────
	if !s.portOpen() {
		if s.cfg.BootstrapCmd == "" {
			return models.NewReportError(
				models.ErrCodeLaunchTimeout,
				fmt.Sprintf("nothing listening on %s and no bootstrap command configured", s.addr()),
				nil,
			)
		}
		if err := s.launch(ctx); err != nil {
			return err
		}
	}

	// ── 3. Debugger readiness ────────────────────────────────────────
	wsURL, err := s.awaitDebugger(ctx, s.cfg.ReadyWait)
	if err != nil {
		return err
	}

	// ── 4. Tab availability ──────────────────────────────────────────
	if err := s.ensureTab(ctx); err != nil {
		return err
	}

	// ── 5. Attach with backoff ───────────────────────────────────────
	// The debugger sometimes accepts HTTP probes before its websocket
	// endpoint will hold a connection. Between attempts, readiness and
	// tab availability are re-verified with a short budget so a browser
	// that died mid-sequence fails fast.
	var attachErr error
	for attempt := 0; attempt < 4; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt+1) * time.Second // 2s, 3s, 4s
			slog.Info("retrying browser attach", "attempt", attempt+1, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return models.NewReportError(models.ErrCodeAttachFailed, "attach cancelled", ctx.Err())
			}
			if wsURL, attachErr = s.awaitDebugger(ctx, 15*time.Second); attachErr != nil {
				continue
			}
			if attachErr = s.ensureTab(ctx); attachErr != nil {
				continue
			}
		}

		b := rod.New().ControlURL(wsURL)
		if attachErr = b.Connect(); attachErr == nil {
			s.browser = b
			slog.Info("attached to browser", "addr", s.addr(), "spawned", s.spawned)
			return nil
		}
		slog.Warn("browser attach failed", "attempt", attempt+1, "error", attachErr)
	}

	re := models.NewReportError(models.ErrCodeAttachFailed, "could not attach to browser debugger", attachErr)
	re.Diagnostics = s.snapshot(ctx)
	return re
}

// Page returns the tab the session drives, attaching to the first page
// target or creating one. Stealth JS is injected only on browsers this
// session spawned; an externally-owned logged-in browser must not be
// touched before navigation.
func (s *Session) Page(ctx context.Context) (*rod.Page, error) {
	if s.page != nil {
		return s.page, nil
	}
	if s.browser == nil {
		return nil, models.NewReportError(models.ErrCodeAttachFailed, "session not connected", nil)
	}

	pages, err := s.browser.Pages()
	if err != nil {
		return nil, models.NewReportError(models.ErrCodeNoTabAvailable, "could not list pages", err)
	}

	var page *rod.Page
	if len(pages) > 0 {
		page = pages.First()
	} else {
		page, err = s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
		if err != nil {
			return nil, models.NewReportError(models.ErrCodeNoTabAvailable, "could not create page", err)
		}
	}

	if s.spawned {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}

	s.page = page.Context(ctx)
	return s.page, nil
}

// FrameID resolves and caches the top frame id of the session's page.
// Resource downloads must be scoped to this frame so the page's cookie
// and auth context applies.
func (s *Session) FrameID(ctx context.Context) (proto.PageFrameID, error) {
	if s.frameID != "" {
		return s.frameID, nil
	}
	page, err := s.Page(ctx)
	if err != nil {
		return "", err
	}
	tree, err := proto.PageGetFrameTree{}.Call(page)
	if err != nil {
		return "", models.NewReportError(models.ErrCodeAttachFailed, "could not read frame tree", err)
	}
	s.frameID = tree.FrameTree.Frame.ID
	return s.frameID, nil
}

// Close detaches from the browser. An externally-owned browser keeps
// running; a spawned child is killed. Safe to call on a session that
// never connected.
func (s *Session) Close() {
	if s.browser != nil {
		// Close drops the websocket without killing the remote process.
		if err := s.browser.Close(); err != nil {
			slog.Warn("browser disconnect failed", "error", err)
		}
		s.browser = nil
		s.page = nil
	}
	if s.spawned && s.cmd != nil && s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil {
			slog.Warn("could not kill spawned browser", "pid", s.cmd.Process.Pid, "error", err)
		}
		s.cmd = nil
	}
}

// ── bootstrap ────────────────────────────────────────────────────────

func (s *Session) portOpen() bool {
	conn, err := net.DialTimeout("tcp", s.addr(), time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// launch runs the bootstrap command and waits for the debug port to open.
func (s *Session) launch(ctx context.Context) error {
	parts := strings.Fields(s.cfg.BootstrapCmd)
	cmd := exec.Command(parts[0], parts[1:]...)
	if err := cmd.Start(); err != nil {
		return models.NewReportError(models.ErrCodeLaunchTimeout, "bootstrap command failed to start", err)
	}
	s.cmd = cmd
	s.spawned = true
	slog.Info("spawned browser", "pid", cmd.Process.Pid)

	deadline := time.Now().Add(s.cfg.LaunchWait)
	for !s.portOpen() {
		if time.Now().After(deadline) {
			return models.NewReportError(
				models.ErrCodeLaunchTimeout,
				fmt.Sprintf("debug port %s not open after %s", s.addr(), s.cfg.LaunchWait),
				nil,
			)
		}
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return models.NewReportError(models.ErrCodeLaunchTimeout, "launch cancelled", ctx.Err())
		}
	}

	// A freshly started browser accepts TCP before the debugger is
	// actually usable. Give it a moment.
	select {
	case <-time.After(s.cfg.ColdStartSettle):
	case <-ctx.Done():
		return models.NewReportError(models.ErrCodeLaunchTimeout, "launch cancelled", ctx.Err())
	}
	return nil
}

// ── debugger HTTP endpoints ──────────────────────────────────────────

type versionInfo struct {
	Browser              string `json:"Browser"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

type targetInfo struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

func (s *Session) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(path), nil)
	if err != nil {
		return err
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// awaitDebugger polls /json/version until the debugger advertises its
// websocket URL or the budget runs out.
func (s *Session) awaitDebugger(ctx context.Context, budget time.Duration) (string, error) {
	deadline := time.Now().Add(budget)
	var lastErr error
	for {
		var v versionInfo
		if lastErr = s.getJSON(ctx, "/json/version", &v); lastErr == nil && v.WebSocketDebuggerURL != "" {
			return v.WebSocketDebuggerURL, nil
		}
		if time.Now().After(deadline) {
			return "", models.NewReportError(
				models.ErrCodeDebuggerNotReady,
				fmt.Sprintf("debugger not ready after %s", budget),
				lastErr,
			)
		}
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			return "", models.NewReportError(models.ErrCodeDebuggerNotReady, "readiness wait cancelled", ctx.Err())
		}
	}
}

func (s *Session) pageTargets(ctx context.Context) ([]targetInfo, error) {
	var targets []targetInfo
	if err := s.getJSON(ctx, "/json/list", &targets); err != nil {
		return nil, err
	}
	pages := targets[:0]
	for _, t := range targets {
		if t.Type == "page" {
			pages = append(pages, t)
		}
	}
	return pages, nil
}

// ensureTab verifies at least one page target exists, creating one via
// /json/new when the browser came up with no tabs. Creation is retried
// because some builds reject /json/new for a short window after start.
func (s *Session) ensureTab(ctx context.Context) error {
	pages, err := s.pageTargets(ctx)
	if err == nil && len(pages) > 0 {
		return nil
	}

	var lastErr error = err
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return models.NewReportError(models.ErrCodeNoTabAvailable, "tab wait cancelled", ctx.Err())
			}
		}
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint("/json/new?about:blank"), nil)
		if reqErr != nil {
			lastErr = reqErr
			continue
		}
		resp, doErr := s.httpc.Do(req)
		if doErr != nil {
			lastErr = doErr
			continue
		}
		_ = resp.Body.Close()

		if pages, err = s.pageTargets(ctx); err == nil && len(pages) > 0 {
			return nil
		}
		lastErr = err
	}
	return models.NewReportError(models.ErrCodeNoTabAvailable, "no page target available", lastErr)
}

// snapshot captures the debugger's HTTP endpoints for attach diagnostics.
func (s *Session) snapshot(ctx context.Context) map[string]string {
	snap := make(map[string]string, 2)
	for _, path := range []string{"/json/version", "/json/list"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(path), nil)
		if err != nil {
			snap[path] = "error: " + err.Error()
			continue
		}
		resp, err := s.httpc.Do(req)
		if err != nil {
			snap[path] = "error: " + err.Error()
			continue
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		snap[path] = string(body)
	}
	return snap
}

// Probe reports whether a remote debugger answers on the configured
// port. It never launches a browser; health checks call it to tell
// "reachable" from "would need a cold start".
func Probe(ctx context.Context, cfg config.BrowserConfig) bool {
	url := "http://" + net.JoinHostPort(cfg.DebugHost, fmt.Sprint(cfg.DebugPort)) + "/json/version"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
