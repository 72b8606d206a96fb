package trumedia

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/afbaseball/trureport/cache"
	"github.com/afbaseball/trureport/config"
	"github.com/afbaseball/trureport/models"
)

// Query sources: which per-entity aggregation the DirectedQuery endpoint
// serves.
const (
	SourcePlayerGames  = "PlayerGames"
	SourceTeamGames    = "TeamGames"
	SourceAllGames     = "AllGames"
	SourcePlayerTotals = "PlayerTotals"
	SourceTeamTotals   = "TeamTotals"
	SourceAllTeams     = "AllTeams"
)

// Query describes one DirectedQuery CSV fetch.
type Query struct {
	Source  string   // one of the Source constants
	Season  int      // seasonYear parameter
	Player  string   // playerId, when entity-scoped to a player
	Team    string   // teamId, when entity-scoped to a team
	Columns []string // bracketed column names, e.g. "[Vel]"; empty keeps the source's defaults
	Filter  Filter   // optional boolean filter

	// Qualification is an optional row qualifier, e.g. "[PA] >= 50".
	Qualification string

	// Label propagates to the returned table, tagging which fetch
	// produced it.
	Label string
}

// Client talks to the vendor stats API. A short-lived temp token is
// exchanged for the configured master token and cached; requests are
// paced by a shared limiter because a report run fires dozens of CSV
// fetches back to back.
type Client struct {
	cfg     config.VendorConfig
	http    *resty.Client
	tokens  *cache.TokenCache
	limiter *rate.Limiter
}

// NewClient builds a stats API client.
func NewClient(cfg config.VendorConfig, tokens *cache.TokenCache, rl config.RateLimitConfig) *Client {
	httpc := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second)

	return &Client{
		cfg:     cfg,
		http:    httpc,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), rl.Burst),
	}
}

func (c *Client) cacheKey() string {
	return cache.Key(c.cfg.Username, c.cfg.Sitename, c.cfg.MasterToken)
}

// TempToken returns a short-lived API token, reusing a cached one when
// the TTL allows.
func (c *Client) TempToken(ctx context.Context) (string, error) {
	key := c.cacheKey()
	if tok, ok := c.tokens.Get(key); ok {
		return tok, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var body struct {
		PBTempToken string `json:"pbTempToken"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"username": c.cfg.Username,
			"sitename": c.cfg.Sitename,
			"token":    c.cfg.MasterToken,
		}).
		SetResult(&body).
		Post("/v1/siteadmin/api/createTempPBToken")
	if err != nil {
		return "", models.NewReportError(models.ErrCodeAPIFailure, "temp token request failed", err)
	}
	if resp.IsError() || body.PBTempToken == "" {
		return "", models.NewReportError(
			models.ErrCodeAPIFailure,
			fmt.Sprintf("temp token request returned %d", resp.StatusCode()),
			nil,
		)
	}

	c.tokens.Set(key, body.PBTempToken)
	return body.PBTempToken, nil
}

// DirectedQuery runs one CSV fetch and parses the result. A cached temp
// token can be revoked server-side before its TTL is up; a 401/403
// drops it from the cache and the query retries once with a fresh one.
func (c *Client) DirectedQuery(ctx context.Context, q Query) (*Table, error) {
	resp, err := c.runQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		slog.Warn("cached token rejected, retrying with a fresh one",
			"source", q.Source, "status", resp.StatusCode())
		c.tokens.Invalidate(c.cacheKey())
		if resp, err = c.runQuery(ctx, q); err != nil {
			return nil, err
		}
	}
	if resp.IsError() {
		return nil, models.NewReportError(
			models.ErrCodeAPIFailure,
			fmt.Sprintf("directed query %s returned %d", q.Source, resp.StatusCode()),
			nil,
		)
	}

	table, err := ParseTable(string(resp.Body()))
	if err != nil {
		return nil, models.NewReportError(models.ErrCodeAPIFailure, "directed query returned malformed csv", err)
	}
	table.Label = q.Label
	return table, nil
}

func (c *Client) runQuery(ctx context.Context, q Query) (*resty.Response, error) {
	token, err := c.TempToken(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("seasonYear", strconv.Itoa(q.Season)).
		SetQueryParam("token", token).
		SetQueryParam("format", "RAW")
	if len(q.Columns) > 0 {
		req.SetQueryParam("columns", strings.Join(q.Columns, ","))
	}
	if q.Qualification != "" {
		req.SetQueryParam("qualification", q.Qualification)
	}
	if q.Player != "" {
		req.SetQueryParam("playerId", q.Player)
	}
	if q.Team != "" {
		req.SetQueryParam("teamId", q.Team)
	}
	if q.Filter != "" {
		req.SetQueryParam("filters", "("+string(q.Filter)+")")
	}

	resp, err := req.Get("/v1/mlbapi/custom/baseball/DirectedQuery/" + q.Source + ".csv")
	if err != nil {
		return nil, models.NewReportError(models.ErrCodeAPIFailure, "directed query failed", err)
	}
	return resp, nil
}

// QuerySoft runs DirectedQuery but degrades failures to an empty table
// with a warning. Most per-statistic fetches are decorative enough that
// a blank cell beats a dead report.
func (c *Client) QuerySoft(ctx context.Context, q Query) *Table {
	table, err := c.DirectedQuery(ctx, q)
	if err != nil {
		slog.Warn("stats fetch failed, continuing with empty table",
			"source", q.Source, "label", q.Label, "error", err)
		return &Table{Label: q.Label}
	}
	return table
}
