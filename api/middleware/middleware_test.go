package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/afbaseball/trureport/config"
)

func authRouter(keys []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(keys))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestAuth_HeaderStyles(t *testing.T) {
	r := authRouter([]string{"secret-key"})

	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"x-api-key", map[string]string{"X-API-Key": "secret-key"}, http.StatusOK},
		{"bearer", map[string]string{"Authorization": "Bearer secret-key"}, http.StatusOK},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"wrong bearer", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"no credentials", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAuth_NoKeysMeansOpen(t *testing.T) {
	r := authRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("open access should pass, got %d", w.Code)
	}
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	statuses := make([]int, 3)
	for i := range statuses {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		statuses[i] = w.Code
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("burst requests should pass: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("request past the burst should be limited: %v", statuses)
	}
}

func TestRateLimit_ReportsWeighHeavier(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: reportCost + 1}))
	r.POST("/api/v1/reports/:type", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/v1/catalog/teams", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/pitching", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := post(); code != http.StatusOK {
		t.Fatalf("first report should pass, got %d", code)
	}
	// One token is left in the bucket: too few for another report, but
	// enough for a catalog read.
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("second report should be limited, got %d", code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/teams", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("catalog read should still pass, got %d", w.Code)
	}
}

func TestRateLimit_TinyBurstStillAdmitsReports(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}))
	r.POST("/api/v1/reports/:type", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/pitching", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("report cost clamps to the burst, got %d", w.Code)
	}
}
