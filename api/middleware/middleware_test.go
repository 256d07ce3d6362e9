package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/clearcart/trustlens/config"
)

func protectedRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_NoKeysConfiguredIsOpen(t *testing.T) {
	r := protectedRouter(Auth(nil))

	if w := get(r, nil); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when no keys configured", w.Code)
	}
}

func TestAuth_HeaderStyles(t *testing.T) {
	r := protectedRouter(Auth([]string{"secret-key"}))

	tests := []struct {
		name     string
		headers  map[string]string
		wantCode int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"x-api-key header", map[string]string{"X-API-Key": "secret-key"}, http.StatusOK},
		{"bearer header", map[string]string{"Authorization": "Bearer secret-key"}, http.StatusOK},
		{"bearer wrong key", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := get(r, tt.headers); w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	r := protectedRouter(RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 3}))

	for i := 0; i < 3; i++ {
		if w := get(r, nil); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200 within burst", i+1, w.Code)
		}
	}
	if w := get(r, nil); w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 once burst is spent", w.Code)
	}
}

func TestRateLimit_IdentitiesAreIndependent(t *testing.T) {
	limited := RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})

	// First identity spends its burst; a different API key still passes.
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if key := c.GetHeader("X-API-Key"); key != "" {
			c.Set("api_key", key)
		}
	}, limited)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	if w := get(r, map[string]string{"X-API-Key": "alpha"}); w.Code != http.StatusOK {
		t.Fatalf("alpha first request = %d", w.Code)
	}
	if w := get(r, map[string]string{"X-API-Key": "alpha"}); w.Code != http.StatusTooManyRequests {
		t.Errorf("alpha second request = %d, want 429", w.Code)
	}
	if w := get(r, map[string]string{"X-API-Key": "beta"}); w.Code != http.StatusOK {
		t.Errorf("beta request = %d, want 200 with its own bucket", w.Code)
	}
}
