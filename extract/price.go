package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ysmood/gson"

	"github.com/clearcart/trustlens/page"
)

// Per-platform price selector lists for the narrow current-price variant.
// These are tried in order; the first text that parses as a number wins.
var (
	amazonPriceSelectors = []string{
		".a-price .a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		".a-price-whole",
		"#corePrice_feature_div .a-price .a-offscreen",
		"#corePriceDisplay_desktop_feature_div .a-price .a-offscreen",
		".priceToPay .a-offscreen",
		"#apex_desktop .a-price .a-offscreen",
	}
	ebayPriceSelectors = []string{
		".x-price-primary .ux-textspans",
		".x-bin-price__content .ux-textspans",
		".mainPrice",
		"[itemprop='price']",
	}
	walmartPriceSelectors = []string{
		"[itemprop='price']",
		".price-characteristic",
		"[data-testid='price-wrap'] span",
	}
	targetPriceSelectors = []string{
		"[data-test='product-price']",
		"[data-test='current-price'] span",
	}
	loosePriceSelectors = []string{
		"[itemprop='price']",
		".price",
		"[class*='price']",
	}
)

var reLoosePrice = regexp.MustCompile(`\$?\s*(\d+\.?\d*)`)

// CurrentPrice extracts just the numeric price from a page snapshot.
// Known platforms use their selector lists; everything else falls back to
// the currency meta tag, embedded structured data, then loose text-pattern
// matching. Returns false when no price could be resolved.
func CurrentPrice(snap *page.Snapshot) (float64, bool) {
	doc := snap.Doc

	var selectors []string
	switch {
	case snap.Platform == page.PlatformAmazon:
		selectors = amazonPriceSelectors
	case strings.Contains(snap.URL, "ebay.com"):
		selectors = ebayPriceSelectors
	case snap.Platform == page.PlatformWalmart:
		selectors = walmartPriceSelectors
	case snap.Platform == page.PlatformTarget:
		selectors = targetPriceSelectors
	}

	if selectors != nil {
		if p, ok := priceFromSelectors(doc, selectors); ok {
			return p, true
		}
		// Structured data as the platform fallback.
		return jsonLDPrice(doc)
	}

	// Generic path: currency meta tag first.
	if amount := doc.Meta("product:price:amount"); amount != "" {
		if p, err := strconv.ParseFloat(amount, 64); err == nil {
			return p, true
		}
	}

	if p, ok := jsonLDPrice(doc); ok {
		return p, true
	}

	// Loose text-pattern matching as the last resort.
	for _, selector := range loosePriceSelectors {
		text := doc.First(selector)
		if m := reLoosePrice.FindStringSubmatch(text); m != nil {
			if p, err := strconv.ParseFloat(m[1], 64); err == nil && p > 0 {
				return p, true
			}
		}
	}
	return 0, false
}

func priceFromSelectors(doc *page.Doc, selectors []string) (float64, bool) {
	for _, selector := range selectors {
		cleaned := stripNonNumeric(doc.First(selector))
		if cleaned == "" {
			continue
		}
		if p, err := strconv.ParseFloat(cleaned, 64); err == nil && p > 0 {
			return p, true
		}
	}
	return 0, false
}

// jsonLDPrice reads offers.price (or offers.lowPrice) from embedded
// structured data.
func jsonLDPrice(doc *page.Doc) (float64, bool) {
	var price float64
	var found bool
	doc.EachScript(func(payload string) bool {
		if !strings.Contains(payload, "offers") {
			return true
		}
		node, ok := findProductNode(gson.NewFrom(payload))
		if !ok {
			return true
		}
		offers := node.Get("offers")
		if _, isArr := offers.Val().([]interface{}); isArr {
			arr := offers.Arr()
			if len(arr) == 0 {
				return true
			}
			offers = arr[0]
		}
		for _, key := range []string{"price", "lowPrice"} {
			switch v := offers.Get(key).Val().(type) {
			case float64:
				price, found = v, v > 0
			case string:
				if p, err := strconv.ParseFloat(stripNonNumeric(v), 64); err == nil && p > 0 {
					price, found = p, true
				}
			}
			if found {
				return false
			}
		}
		return true
	})
	return price, found
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
