package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. It is built once at startup
// and passed explicitly to constructors; nothing reads the environment
// after Load returns.
type Config struct {
	Vendor    VendorConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Report    ReportConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Catalog   CatalogConfig
	Log       LogConfig
}

// VendorConfig identifies the TruMedia site and API credentials.
type VendorConfig struct {
	// Username is the TruMedia account email.
	Username string

	// Sitename is the TruMedia site identifier.
	Sitename string

	// MasterToken is the long-lived token exchanged for temp API tokens.
	MasterToken string

	// TeamID is the default team id for player lookups.
	TeamID string

	// SiteBaseURL is the interactive dashboard origin.
	SiteBaseURL string // default: "https://<sitename>.trumedianetworks.com"

	// APIBaseURL is the stats API origin.
	APIBaseURL string // default: "https://api.trumedianetworks.com"
}

// BrowserConfig controls the remote-debugging Chrome connection.
type BrowserConfig struct {
	// DebugHost is the host the debugger listens on.
	DebugHost string // default: "127.0.0.1"

	// DebugPort is the remote-debugging port.
	DebugPort int // default: 9222

	// BootstrapCmd launches Chrome with debugging enabled when the port is
	// closed. Empty disables launching; Connect then fails if nothing listens.
	BootstrapCmd string

	// LaunchWait bounds the wait for the debug port after a cold launch.
	LaunchWait time.Duration // default: 30s

	// ReadyWait bounds the wait for the debugger's version endpoint.
	ReadyWait time.Duration // default: 60s

	// ColdStartSettle is the extra delay after a cold launch before the
	// browser is considered attachable.
	ColdStartSettle time.Duration // default: 5s
}

// ScraperConfig controls chart discovery and capture behavior.
type ScraperConfig struct {
	// SettleWait is the fixed delay after navigation before chart discovery.
	SettleWait time.Duration // default: 7s

	// HeatMapRaster prefers raster capture over vector markup for heat maps.
	// The vendor renders heat maps as bitmaps, so the markup alone is hollow.
	HeatMapRaster bool // default: true

	// ScrollStep is the progressive-scroll increment in pixels.
	ScrollStep int // default: 1000

	// ScrollPause is the pause between scroll increments.
	ScrollPause time.Duration // default: 500ms

	// RosterWait bounds the polling loop for roster elements on team pages.
	RosterWait time.Duration // default: 10s
}

// ReportConfig controls report output.
type ReportConfig struct {
	// OutputDir is where PDFs and chart directories are written.
	OutputDir string // default: "."

	// LogoPath is the organization logo drawn in report headers.
	LogoPath string

	// Season is the default season year.
	Season int // default: current year
}

// ServerConfig controls the optional HTTP service mode.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"

	// WebhookSecret signs async result deliveries.
	WebhookSecret string
}

// AuthConfig controls API key authentication in service mode.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting in service mode.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// CacheConfig controls vendor temp-token caching.
type CacheConfig struct {
	// TokenTTL is how long a temp token is reused before a fresh one is
	// requested. The vendor issues tokens valid for roughly an hour; a
	// shorter TTL keeps a safety margin.
	TokenTTL time.Duration // default: 10m
}

// CatalogConfig controls the team/player catalog store.
type CatalogConfig struct {
	// Path is the sqlite database file.
	Path string // default: "trureport.db"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	sitename := envOr("TRUMEDIA_SITENAME", "airforce-ncaabaseball")
	return &Config{
		Vendor: VendorConfig{
			Username:    os.Getenv("TRUMEDIA_USERNAME"),
			Sitename:    sitename,
			MasterToken: os.Getenv("TRUMEDIA_MASTER_TOKEN"),
			TeamID:      os.Getenv("TRUMEDIA_TEAM_ID"),
			SiteBaseURL: envOr("TRUMEDIA_SITE_URL", "https://"+sitename+".trumedianetworks.com"),
			APIBaseURL:  envOr("TRUMEDIA_API_URL", "https://api.trumedianetworks.com"),
		},
		Browser: BrowserConfig{
			DebugHost:       envOr("CHROME_DEBUG_HOST", "127.0.0.1"),
			DebugPort:       envIntOr("CHROME_DEBUG_PORT", 9222),
			BootstrapCmd:    os.Getenv("CHROME_BOOTSTRAP_CMD"),
			LaunchWait:      envDurationOr("CHROME_LAUNCH_WAIT", 30*time.Second),
			ReadyWait:       envDurationOr("CHROME_READY_WAIT", 60*time.Second),
			ColdStartSettle: envDurationOr("CHROME_COLD_START_SETTLE", 5*time.Second),
		},
		Scraper: ScraperConfig{
			SettleWait:    envDurationOr("TRUREPORT_SETTLE_WAIT", 7*time.Second),
			HeatMapRaster: envBoolOr("TRUREPORT_HEATMAP_RASTER", true),
			ScrollStep:    envIntOr("TRUREPORT_SCROLL_STEP", 1000),
			ScrollPause:   envDurationOr("TRUREPORT_SCROLL_PAUSE", 500*time.Millisecond),
			RosterWait:    envDurationOr("TRUREPORT_ROSTER_WAIT", 10*time.Second),
		},
		Report: ReportConfig{
			OutputDir: envOr("TRUREPORT_OUTPUT_DIR", "."),
			LogoPath:  os.Getenv("TRUREPORT_LOGO"),
			Season:    envIntOr("TRUREPORT_SEASON", time.Now().Year()),
		},
		Server: ServerConfig{
			Host:          envOr("TRUREPORT_HOST", "0.0.0.0"),
			Port:          envIntOr("TRUREPORT_PORT", 8080),
			Mode:          envOr("TRUREPORT_MODE", "release"),
			WebhookSecret: os.Getenv("TRUREPORT_WEBHOOK_SECRET"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("TRUREPORT_AUTH_ENABLED", true),
			APIKeys: envSliceOr("TRUREPORT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("TRUREPORT_RATE_RPS", 5.0),
			Burst:             envIntOr("TRUREPORT_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			TokenTTL: envDurationOr("TRUREPORT_TOKEN_TTL", 10*time.Minute),
		},
		Catalog: CatalogConfig{
			Path: envOr("TRUREPORT_CATALOG_DB", "trureport.db"),
		},
		Log: LogConfig{
			Level:  envOr("TRUREPORT_LOG_LEVEL", "info"),
			Format: envOr("TRUREPORT_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
