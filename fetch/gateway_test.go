package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clearcart/trustlens/config"
	"github.com/clearcart/trustlens/models"
)

func TestGateway_PageDirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != chromeUA {
			t.Errorf("user agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	gw := NewGateway(config.FetchConfig{})

	body, err := gw.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if body != "<html>ok</html>" {
		t.Errorf("body = %q", body)
	}
}

func TestGateway_PageEscalatesToRenderProxy(t *testing.T) {
	// The direct fetch serves an empty SPA shell; the render proxy serves the
	// real markup. Page must detect the shell and retry through the proxy.
	shell := `<html><body><div id="root"></div><script src="/app.js"></script></body></html>`
	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(shell))
	}))
	defer pageSrv.Close()

	var gotTarget string
	proxySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.URL.Query().Get("url")
		w.Write([]byte("rendered markup"))
	}))
	defer proxySrv.Close()

	gw := NewGateway(config.FetchConfig{RenderProxy: proxySrv.URL + "/render?url="})

	body, err := gw.Page(context.Background(), pageSrv.URL+"/product?id=1")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if body != "rendered markup" {
		t.Errorf("body = %q, want the proxy result", body)
	}
	if gotTarget != pageSrv.URL+"/product?id=1" {
		t.Errorf("proxy received target %q, want the url-encoded original decoded back", gotTarget)
	}
}

func TestGateway_PageKeepsDirectResultWhenRendered(t *testing.T) {
	full := "<html><body><p>" + strings.Repeat("real product text ", 20) + "</p></body></html>"
	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(full))
	}))
	defer pageSrv.Close()

	proxyCalled := false
	proxySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		proxyCalled = true
		w.Write([]byte("should not be used"))
	}))
	defer proxySrv.Close()

	gw := NewGateway(config.FetchConfig{RenderProxy: proxySrv.URL + "/render?url="})

	body, err := gw.Page(context.Background(), pageSrv.URL)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if body != full {
		t.Errorf("body = %q, want the direct result", body)
	}
	if proxyCalled {
		t.Error("render proxy consulted for an already-rendered page")
	}
}

func TestGateway_ReaderPrefixesProxy(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.Write([]byte("# markdown"))
	}))
	defer srv.Close()

	gw := NewGateway(config.FetchConfig{ReaderProxy: srv.URL + "/"})

	md, err := gw.Reader(context.Background(), "https://www.target.com/s?searchTerm=widget")
	if err != nil {
		t.Fatalf("Reader: %v", err)
	}
	if md != "# markdown" {
		t.Errorf("markdown = %q", md)
	}
	if want := "/https://www.target.com/s?searchTerm=widget"; gotPath != want {
		t.Errorf("reader request path = %q, want %q", gotPath, want)
	}
}

func TestGateway_ReaderUnconfigured(t *testing.T) {
	gw := NewGateway(config.FetchConfig{})

	_, err := gw.Reader(context.Background(), "https://example.com/")
	if err == nil {
		t.Fatal("no error with unconfigured reader proxy")
	}
	var ae *models.AnalysisError
	if !errors.As(err, &ae) || ae.Code != models.ErrCodeFetchFailure {
		t.Errorf("error = %v, want typed FETCH_FAILED", err)
	}
}

func TestGateway_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	gw := NewGateway(config.FetchConfig{})

	_, err := gw.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("HTTP 403 did not produce an error")
	}
	var ae *models.AnalysisError
	if !errors.As(err, &ae) || ae.Code != models.ErrCodeFetchFailure {
		t.Errorf("error = %v, want typed FETCH_FAILED", err)
	}
}

func TestGateway_BodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for i := 0; i < 1024; i++ {
			w.Write([]byte("xxxxxxxxxxxxxxxx"))
		}
	}))
	defer srv.Close()

	gw := NewGateway(config.FetchConfig{MaxBodyBytes: 1024})

	body, err := gw.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(body) != 1024 {
		t.Errorf("body length = %d, want capped at 1024", len(body))
	}
}
