package market

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/clearcart/trustlens/config"
	"github.com/clearcart/trustlens/fetch"
	"github.com/clearcart/trustlens/models"
)

// verifiedRetailerNames is the static allow-list that partitions listings:
// sources whose name contains one of these substrings are "verified
// retailers" (official brand storefronts); everything else is an open
// marketplace.
var verifiedRetailerNames = []string{"Nike", "Adidas", "Apple", "Microsoft"}

// Aggregator fans out one independent search task per configured retailer
// and merges the results into a MarketSet.
type Aggregator struct {
	gw      *fetch.Gateway
	cfg     config.MarketConfig
	sources []Searcher
}

// NewAggregator builds an Aggregator over the default retailer set, minus
// any retailers disabled in config.
func NewAggregator(gw *fetch.Gateway, cfg config.MarketConfig) *Aggregator {
	disabled := make(map[string]struct{}, len(cfg.Disabled))
	for _, name := range cfg.Disabled {
		disabled[strings.ToLower(name)] = struct{}{}
	}

	var sources []Searcher
	for _, s := range defaultSources() {
		if _, off := disabled[strings.ToLower(s.Name())]; off {
			continue
		}
		sources = append(sources, s)
	}
	return &Aggregator{gw: gw, cfg: cfg, sources: sources}
}

// NewAggregatorWithSources builds an Aggregator over an explicit task set.
// Used by tests to inject fake searchers.
func NewAggregatorWithSources(gw *fetch.Gateway, cfg config.MarketConfig, sources []Searcher) *Aggregator {
	return &Aggregator{gw: gw, cfg: cfg, sources: sources}
}

// Aggregate launches every retailer task concurrently, waits for all of
// them to settle, and merges the surviving results.
//
// Each task is a bulkhead: a panic, error, or timeout in one task degrades
// that retailer's contribution to empty without affecting the others.
// Output order is independent of completion timing — results keep the
// static source order as discovery order, then get partitioned and sorted.
func (a *Aggregator) Aggregate(ctx context.Context, term string) models.MarketSet {
	perSource := make([][]models.Listing, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(idx int, s Searcher) {
			defer wg.Done()
			perSource[idx] = a.runTask(ctx, s, term)
		}(i, src)
	}
	wg.Wait()

	var all []models.Listing
	for _, items := range perSource {
		all = append(all, items...)
	}
	return Partition(all)
}

// runTask runs one retailer search with its own timeout, converting any
// failure mode into an empty contribution.
func (a *Aggregator) runTask(ctx context.Context, s Searcher, term string) (items []models.Listing) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("market task panicked", "source", s.Name(), "panic", r)
			items = nil
		}
	}()

	if a.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.TaskTimeout)
		defer cancel()
	}

	items, err := s.Search(ctx, a.gw, term)
	if err != nil {
		slog.Debug("market task failed", "source", s.Name(), "error", err)
		return nil
	}
	slog.Debug("market task done", "source", s.Name(), "listings", len(items))
	return items
}

// Partition splits listings into the verified-retailer and marketplace
// groups and sorts each by ascending parsed price. The sort is stable, so
// listings without a parseable price keep discovery order at the end.
func Partition(all []models.Listing) models.MarketSet {
	set := models.MarketSet{
		Retailers:    []models.Listing{},
		Marketplaces: []models.Listing{},
	}
	for _, l := range all {
		if matchesAny(l.Source, verifiedRetailerNames) {
			set.Retailers = append(set.Retailers, l)
		} else {
			set.Marketplaces = append(set.Marketplaces, l)
		}
	}
	sortByPrice(set.Retailers)
	sortByPrice(set.Marketplaces)
	return set
}

func sortByPrice(listings []models.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return sortPrice(listings[i]) < sortPrice(listings[j])
	})
}

// sortPrice returns the numeric sort key for a listing; unparseable prices
// sort last.
func sortPrice(l models.Listing) float64 {
	if v, ok := ParseDisplayPrice(l.Price); ok {
		return v
	}
	return math.MaxFloat64
}
