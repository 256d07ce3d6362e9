package report

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/clearcart/trustlens/extract"
	"github.com/clearcart/trustlens/fetch"
	"github.com/clearcart/trustlens/market"
	"github.com/clearcart/trustlens/models"
	"github.com/clearcart/trustlens/page"
	"github.com/clearcart/trustlens/registry"
	"github.com/clearcart/trustlens/score"
	"github.com/clearcart/trustlens/signal"
	"github.com/clearcart/trustlens/store"
)

// maxExcerptLen bounds the plain-text excerpt carried in a report.
const maxExcerptLen = 3000

// Assembler merges extractor, scorer, aggregator, and registry output into
// the final report. No failure below it is fatal: every upstream degrades
// to absent data and a best-effort report is always produced.
type Assembler struct {
	gw         *fetch.Gateway
	registries *registry.Client
	market     *market.Aggregator
	store      store.Store
}

// New creates a report assembler.
func New(gw *fetch.Gateway, reg *registry.Client, agg *market.Aggregator, st store.Store) *Assembler {
	return &Assembler{gw: gw, registries: reg, market: agg, store: st}
}

// pageResult is the output of the fetch+extract task for the primary page.
type pageResult struct {
	platform page.Platform
	fields   models.ExtractedFields
	counts   models.SignalCounts
	excerpt  string
	bodyText string
}

// Analyze runs the full analysis for one request and assembles the report.
//
// The fetch+extract task for the primary page runs first because the
// registry/search keyword is derived from the extracted title; the registry
// lookups and all retailer search tasks then run concurrently and the
// request completes only after every task has settled. Individual task
// failures degrade to empty data, never abort the batch.
func (a *Assembler) Analyze(ctx context.Context, req models.AnalyzeRequest) *models.Report {
	start := time.Now()

	pr := a.analyzePage(ctx, req.URL)

	term := req.SearchQuery
	if term == "" {
		term = registry.SearchTerm(req.URL, pr.fields.Title)
	}
	slog.Info("analysis started", "url", req.URL, "mode", req.Mode, "term", term)

	var (
		wg   sync.WaitGroup
		hits models.RegistryHits
		set  models.MarketSet
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		hits = a.registries.Lookup(ctx, term)
	}()
	go func() {
		defer wg.Done()
		set = a.market.Aggregate(ctx, term)
	}()
	wg.Wait()

	result := score.Score(pr.counts, hits, pr.platform)

	rep := a.assemble(pr, hits, set, result)

	a.trackPrice(req.URL, pr)

	slog.Info("analysis finished",
		"url", req.URL,
		"score", rep.Score,
		"verdict", rep.Verdict,
		"listings", len(set.All()),
		"recall", hits.RecallFound(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rep
}

// analyzePage fetches and extracts the primary page. Any failure returns a
// zero result: all fields absent, no signals, direct-site platform.
func (a *Assembler) analyzePage(ctx context.Context, pageURL string) pageResult {
	pr := pageResult{counts: signal.Scan("")}
	if pageURL == "" {
		return pr
	}

	html, err := a.gw.Page(ctx, pageURL)
	if err != nil {
		slog.Warn("page fetch failed", "url", pageURL, "error", err)
		return pr
	}

	snap, err := page.NewSnapshot(pageURL, html)
	if err != nil {
		slog.Warn("page parse failed", "url", pageURL, "error", err)
		return pr
	}

	pr.platform = snap.Platform
	pr.fields = extract.Extract(snap)
	pr.counts = signal.Scan(snap.BodyText)
	pr.excerpt = snap.Excerpt(maxExcerptLen)
	pr.bodyText = snap.BodyText
	return pr
}

func (a *Assembler) assemble(pr pageResult, hits models.RegistryHits, set models.MarketSet, result score.Result) *models.Report {
	rep := &models.Report{
		Title:        pr.fields.Title,
		Image:        pr.fields.Image,
		Price:        pr.fields.Price,
		ShippingInfo: pr.fields.Shipping,
		Platform:     pr.platform.String(),

		Score:     result.Score,
		Verdict:   result.Verdict,
		RiskLevel: result.RiskLevel,
		Summary:   result.Summary,

		UrgencyScore:      pr.counts.Urgency,
		DropshippingScore: pr.counts.Dropshipping,
		FinePrint:         pr.counts.FinePrint,
		ReviewSummary:     pr.counts.ReviewSummary,
		Excerpt:           pr.excerpt,

		Market:       set,
		ScoreFactors: score.Factors(pr.counts, hits, pr.platform),
	}

	if hits.RecallFound() {
		rep.RecallHistory = models.RecallHistory{Found: true, Details: "CPSC Recall Found"}
		rep.Safety.CPSC = &hits.CPSC[0]
	} else {
		rep.RecallHistory = models.RecallHistory{Found: false, Details: "No active recalls."}
	}
	if len(hits.FDA) > 0 {
		rep.Safety.FDA = &hits.FDA[0]
		rep.Safety.Reports = hits.FDA
	}
	return rep
}

// trackPrice records the extracted price as a tracked price point.
// Fire-and-forget: persistence never blocks or fails the response.
func (a *Assembler) trackPrice(pageURL string, pr pageResult) {
	if pageURL == "" || pr.fields.Price == "" {
		return
	}
	price, ok := market.ParseDisplayPrice(pr.fields.Price)
	if !ok {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.store.TrackProduct(ctx, pageURL, pr.fields.Title, price); err != nil {
			slog.Warn("price tracking failed", "url", pageURL, "error", err)
		}
	}()
}
