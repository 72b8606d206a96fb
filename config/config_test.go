package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"TRUMEDIA_SITENAME", "TRUMEDIA_SITE_URL", "TRUMEDIA_API_URL",
		"CHROME_DEBUG_PORT", "TRUREPORT_SETTLE_WAIT", "TRUREPORT_HEATMAP_RASTER",
		"TRUREPORT_PORT", "TRUREPORT_AUTH_ENABLED", "TRUREPORT_API_KEYS",
		"TRUREPORT_TOKEN_TTL", "TRUREPORT_CATALOG_DB", "TRUREPORT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Vendor.Sitename != "airforce-ncaabaseball" {
		t.Errorf("Sitename = %q", cfg.Vendor.Sitename)
	}
	if cfg.Vendor.SiteBaseURL != "https://airforce-ncaabaseball.trumedianetworks.com" {
		t.Errorf("SiteBaseURL = %q", cfg.Vendor.SiteBaseURL)
	}
	if cfg.Vendor.APIBaseURL != "https://api.trumedianetworks.com" {
		t.Errorf("APIBaseURL = %q", cfg.Vendor.APIBaseURL)
	}
	if cfg.Browser.DebugPort != 9222 {
		t.Errorf("DebugPort = %d", cfg.Browser.DebugPort)
	}
	if cfg.Scraper.SettleWait != 7*time.Second {
		t.Errorf("SettleWait = %v", cfg.Scraper.SettleWait)
	}
	if !cfg.Scraper.HeatMapRaster {
		t.Error("HeatMapRaster should default on")
	}
	if cfg.Server.Port != 8080 || cfg.Server.Mode != "release" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if !cfg.Auth.Enabled {
		t.Error("Auth should default on")
	}
	if cfg.Cache.TokenTTL != 10*time.Minute {
		t.Errorf("TokenTTL = %v", cfg.Cache.TokenTTL)
	}
	if cfg.Catalog.Path != "trureport.db" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_SitenameDrivesSiteURL(t *testing.T) {
	t.Setenv("TRUMEDIA_SITENAME", "example-ncaabaseball")
	t.Setenv("TRUMEDIA_SITE_URL", "")

	cfg := Load()
	if cfg.Vendor.SiteBaseURL != "https://example-ncaabaseball.trumedianetworks.com" {
		t.Errorf("SiteBaseURL = %q", cfg.Vendor.SiteBaseURL)
	}
}

func TestLoad_ExplicitSiteURLWins(t *testing.T) {
	t.Setenv("TRUMEDIA_SITENAME", "example-ncaabaseball")
	t.Setenv("TRUMEDIA_SITE_URL", "https://staging.example.com")

	cfg := Load()
	if cfg.Vendor.SiteBaseURL != "https://staging.example.com" {
		t.Errorf("SiteBaseURL = %q", cfg.Vendor.SiteBaseURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TRUMEDIA_USERNAME", "coach@example.edu")
	t.Setenv("CHROME_DEBUG_PORT", "9333")
	t.Setenv("TRUREPORT_SETTLE_WAIT", "3s")
	t.Setenv("TRUREPORT_HEATMAP_RASTER", "false")
	t.Setenv("TRUREPORT_RATE_RPS", "2.5")
	t.Setenv("TRUREPORT_API_KEYS", "alpha, beta,,gamma")

	cfg := Load()

	if cfg.Vendor.Username != "coach@example.edu" {
		t.Errorf("Username = %q", cfg.Vendor.Username)
	}
	if cfg.Browser.DebugPort != 9333 {
		t.Errorf("DebugPort = %d", cfg.Browser.DebugPort)
	}
	if cfg.Scraper.SettleWait != 3*time.Second {
		t.Errorf("SettleWait = %v", cfg.Scraper.SettleWait)
	}
	if cfg.Scraper.HeatMapRaster {
		t.Error("HeatMapRaster override ignored")
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v", cfg.RateLimit.RequestsPerSecond)
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(cfg.Auth.APIKeys) != len(want) {
		t.Fatalf("APIKeys = %v", cfg.Auth.APIKeys)
	}
	for i, k := range want {
		if cfg.Auth.APIKeys[i] != k {
			t.Errorf("APIKeys[%d] = %q, want %q", i, cfg.Auth.APIKeys[i], k)
		}
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("CHROME_DEBUG_PORT", "not-a-port")
	t.Setenv("TRUREPORT_SETTLE_WAIT", "soon")
	t.Setenv("TRUREPORT_AUTH_ENABLED", "maybe")

	cfg := Load()
	if cfg.Browser.DebugPort != 9222 {
		t.Errorf("DebugPort = %d", cfg.Browser.DebugPort)
	}
	if cfg.Scraper.SettleWait != 7*time.Second {
		t.Errorf("SettleWait = %v", cfg.Scraper.SettleWait)
	}
	if !cfg.Auth.Enabled {
		t.Error("unparseable bool should keep the default")
	}
}
