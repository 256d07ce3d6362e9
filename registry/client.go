package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/clearcart/trustlens/config"
	"github.com/clearcart/trustlens/fetch"
	"github.com/clearcart/trustlens/models"
)

// fdaEndpoints are the openFDA enforcement categories queried for a keyword.
var fdaEndpoints = []string{
	"/drug/enforcement.json",
	"/device/enforcement.json",
	"/food/enforcement.json",
}

// Client queries the CPSC and openFDA safety registries. Either registry
// may fail or time out independently; a failure degrades to "no hits" and
// is never escalated.
type Client struct {
	gw  *fetch.Gateway
	cfg config.RegistryConfig
}

// NewClient creates a registry client.
func NewClient(gw *fetch.Gateway, cfg config.RegistryConfig) *Client {
	return &Client{gw: gw, cfg: cfg}
}

// Lookup queries both registries concurrently for the keyword and returns
// whatever each produced.
func (c *Client) Lookup(ctx context.Context, keyword string) models.RegistryHits {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var hits models.RegistryHits

	var g errgroup.Group
	g.Go(func() error {
		hits.CPSC = c.cpscRecalls(ctx, keyword)
		return nil
	})
	g.Go(func() error {
		hits.FDA = c.fdaReports(ctx, keyword)
		return nil
	})
	_ = g.Wait() // tasks only ever return nil; failures degrade internally

	return hits
}

// cpscRecalls searches the CPSC SaferProducts registry by recall title.
func (c *Client) cpscRecalls(ctx context.Context, keyword string) []models.CPSCRecall {
	lookupURL := c.cfg.CPSCBaseURL + "?format=json&RecallTitle=" + url.QueryEscape(keyword)

	body, err := c.gw.Get(ctx, lookupURL)
	if err != nil {
		slog.Debug("cpsc lookup failed", "keyword", keyword, "error", err)
		return nil
	}

	var recalls []models.CPSCRecall
	if err := json.Unmarshal(body, &recalls); err != nil {
		slog.Debug("cpsc response unparseable", "keyword", keyword, "error", err)
		return nil
	}
	return recalls
}

// fdaReports queries the drug, device, and food enforcement endpoints
// concurrently and flattens their results.
func (c *Client) fdaReports(ctx context.Context, keyword string) []models.FDAReport {
	perEndpoint := make([][]models.FDAReport, len(fdaEndpoints))

	var g errgroup.Group
	for i, endpoint := range fdaEndpoints {
		g.Go(func() error {
			lookupURL := c.cfg.FDABaseURL + endpoint +
				`?search=product_description:"` + url.QueryEscape(keyword) + `"&limit=1`

			body, err := c.gw.Get(ctx, lookupURL)
			if err != nil {
				return nil // one endpoint down must not abort the rest
			}

			var payload struct {
				Results []models.FDAReport `json:"results"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil
			}
			perEndpoint[i] = payload.Results
			return nil
		})
	}
	_ = g.Wait()

	var reports []models.FDAReport
	for _, r := range perEndpoint {
		reports = append(reports, r...)
	}
	return reports
}
