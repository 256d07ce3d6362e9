package market

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/clearcart/trustlens/fetch"
	"github.com/clearcart/trustlens/models"
)

// Searcher is one retailer search task. The direct-HTML and markdown-proxy
// strategies are interchangeable implementations behind this interface.
type Searcher interface {
	// Name is the retailer name shown as the listing source.
	Name() string

	// Search runs the retailer query and returns normalized listings.
	// A failure yields (nil, err); the aggregator degrades it to an empty
	// contribution without affecting sibling tasks.
	Search(ctx context.Context, gw *fetch.Gateway, term string) ([]models.Listing, error)
}

var rePriceValue = regexp.MustCompile(`[\d,]+(?:\.\d{1,2})?`)

// ParseDisplayPrice extracts a numeric value from a display price like
// "$1,299.99". Returns false for placeholder prices ("Check Price",
// "Official Store").
func ParseDisplayPrice(display string) (float64, bool) {
	m := rePriceValue.FindString(display)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
