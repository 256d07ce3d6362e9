package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	tls2 "github.com/refraction-networking/utls"

	"github.com/clearcart/trustlens/config"
	"github.com/clearcart/trustlens/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Gateway performs outbound HTTP GETs with a Chrome TLS fingerprint (utls).
// It carries no business logic: callers get raw body text or a typed failure.
//
// Two proxy hooks exist:
//   - RenderProxy: an anti-bot rendering proxy; page fetches that look like
//     unrendered JS shells are retried through it.
//   - ReaderProxy: a reader/markdown proxy; a target is fetched as markdown
//     by prefixing the proxy base.
type Gateway struct {
	cfg config.FetchConfig
}

// NewGateway creates a Gateway from config.
func NewGateway(cfg config.FetchConfig) *Gateway {
	return &Gateway{cfg: cfg}
}

// Page fetches the target URL as raw HTML. The direct fetch comes first;
// when a rendering proxy is configured and the direct result looks like an
// unrendered JS shell, the fetch is retried through the proxy by appending
// the url-encoded target.
func (g *Gateway) Page(ctx context.Context, targetURL string) (string, error) {
	body, err := g.get(ctx, targetURL)
	if err == nil && (g.cfg.RenderProxy == "" || !NeedsRender(body)) {
		return string(body), nil
	}
	if g.cfg.RenderProxy == "" {
		return "", err
	}

	rendered, rerr := g.get(ctx, g.cfg.RenderProxy+url.QueryEscape(targetURL))
	if rerr != nil {
		if err != nil {
			return "", err
		}
		return string(body), nil
	}
	return string(rendered), nil
}

// Reader fetches the target URL through the reader/markdown proxy and
// returns the rendered markdown text.
func (g *Gateway) Reader(ctx context.Context, targetURL string) (string, error) {
	if g.cfg.ReaderProxy == "" {
		return "", models.NewAnalysisError(models.ErrCodeFetchFailure, "reader proxy not configured", nil)
	}
	body, err := g.get(ctx, g.cfg.ReaderProxy+targetURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Get fetches an arbitrary URL directly (no proxy rewriting). Used by the
// registry clients for their JSON endpoints.
func (g *Gateway) Get(ctx context.Context, rawURL string) ([]byte, error) {
	return g.get(ctx, rawURL)
}

func (g *Gateway) get(ctx context.Context, fetchURL string) ([]byte, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLSChrome(ctx, network, addr, g.cfg.Proxy)
		},
	}
	if g.cfg.Proxy != "" {
		proxyURL, err := url.Parse(g.cfg.Proxy)
		if err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, models.NewAnalysisError(models.ErrCodeFetchFailure, "build request", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, models.NewAnalysisError(models.ErrCodeFetchFailure, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewAnalysisError(models.ErrCodeFetchFailure,
			fmt.Sprintf("HTTP %d for %s", resp.StatusCode, fetchURL), nil)
	}

	maxBytes := g.cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, models.NewAnalysisError(models.ErrCodeFetchFailure, "read body", err)
	}
	return body, nil
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via utls.
func dialTLSChrome(ctx context.Context, network, addr, proxy string) (net.Conn, error) {
	var rawConn net.Conn
	var err error

	dialer := &net.Dialer{}

	if proxy != "" {
		proxyURL, parseErr := url.Parse(proxy)
		if parseErr == nil && (proxyURL.Scheme == "socks5" || proxyURL.Scheme == "socks5h") {
			socksConn, socksErr := dialer.DialContext(ctx, "tcp", proxyURL.Host)
			if socksErr != nil {
				return nil, fmt.Errorf("socks5 dial: %w", socksErr)
			}
			rawConn = socksConn
		}
	}

	if rawConn == nil {
		rawConn, err = dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName:         host,
		InsecureSkipVerify: false,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
