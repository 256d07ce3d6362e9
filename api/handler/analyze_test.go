package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/clearcart/trustlens/cache"
	"github.com/clearcart/trustlens/config"
	"github.com/clearcart/trustlens/fetch"
	"github.com/clearcart/trustlens/market"
	"github.com/clearcart/trustlens/models"
	"github.com/clearcart/trustlens/registry"
	"github.com/clearcart/trustlens/report"
	"github.com/clearcart/trustlens/store"
)

// testAnalyzeHandler wires the analyze handler against local test servers so
// no request leaves the host.
func testAnalyzeHandler(t *testing.T, pageHTML string) (gin.HandlerFunc, string) {
	t.Helper()

	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(pageHTML))
	}))
	t.Cleanup(pageSrv.Close)

	regSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "enforcement") {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(regSrv.Close)

	gw := fetch.NewGateway(config.FetchConfig{})
	reg := registry.NewClient(gw, config.RegistryConfig{
		CPSCBaseURL: regSrv.URL + "/recalls",
		FDABaseURL:  regSrv.URL,
	})
	agg := market.NewAggregatorWithSources(gw, config.MarketConfig{}, nil)
	asm := report.New(gw, reg, agg, store.Noop{})

	return Analyze(asm, cache.New(10)), pageSrv.URL
}

func postAnalyze(t *testing.T, h gin.HandlerFunc, payload string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/analyze", h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeHandler_NoTarget(t *testing.T) {
	h, _ := testAnalyzeHandler(t, "")

	w := postAnalyze(t, h, `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body struct {
		Error models.ErrorDetail `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != models.ErrCodeInvalidInput {
		t.Errorf("error code = %q, want INVALID_INPUT", body.Error.Code)
	}
}

func TestAnalyzeHandler_MalformedJSON(t *testing.T) {
	h, _ := testAnalyzeHandler(t, "")

	if w := postAnalyze(t, h, `{not json`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeHandler_InvalidMode(t *testing.T) {
	h, _ := testAnalyzeHandler(t, "")

	if w := postAnalyze(t, h, `{"url":"https://example.com","mode":"drive-by"}`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown mode", w.Code)
	}
}

func TestAnalyzeHandler_ProducesReport(t *testing.T) {
	h, pageURL := testAnalyzeHandler(t,
		`<html><head><title>Handler Widget</title></head><body><p>plain page</p></body></html>`)

	w := postAnalyze(t, h, `{"url":"`+pageURL+`"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var rep models.Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.Title != "Handler Widget" {
		t.Errorf("title = %q", rep.Title)
	}
	if rep.Score != 80 || rep.Verdict != models.VerdictSecure {
		t.Errorf("score/verdict = %d/%s, want 80/SECURE", rep.Score, rep.Verdict)
	}
}

func TestAnalyzeHandler_CacheHit(t *testing.T) {
	h, pageURL := testAnalyzeHandler(t,
		`<html><head><title>Cached Widget</title></head><body></body></html>`)

	payload := `{"url":"` + pageURL + `","max_age_ms":60000}`

	if w := postAnalyze(t, h, payload); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}

	w := postAnalyze(t, h, payload)
	if w.Code != http.StatusOK {
		t.Fatalf("second request status = %d", w.Code)
	}
	var rep models.Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.CacheStatus != "hit" {
		t.Errorf("cache status = %q, want hit on the repeat request", rep.CacheStatus)
	}
}
