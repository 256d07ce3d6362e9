package market

import (
	"net/url"
	"regexp"
	"strings"
)

// Walmart result titles carry promo badges and cart counts ahead of the
// product name, and sometimes the price itself.
var walmartTrimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(Best seller|Rollback|Reduced price|Clearance|Flash Deal)\s*`),
	regexp.MustCompile(`(?i)^In \d+\+ people's carts\s*`),
	regexp.MustCompile(`\$\d{1,5}(?:\.\d{2})?(\s*Was\s*\$[\d,.]+)?`),
	regexp.MustCompile(` - Walmart\.com$`),
}

var targetTrimPatterns = []*regexp.Regexp{
	regexp.MustCompile(` - Target$`),
}

var appleTrimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`- Apple$`),
	regexp.MustCompile(`^Buy\s+`),
}

// appleProductURL accepts only shopping URLs; apple.com hosts a lot of
// support and press content that shares the domain.
func appleProductURL(u string) bool {
	if strings.Contains(u, "support.apple.com") ||
		strings.Contains(u, "legal") ||
		strings.Contains(u, "jobs") ||
		strings.Contains(u, "newsroom") ||
		strings.Contains(u, "search") {
		return false
	}
	return matchesAny(u, []string{"/shop/", "/buy-", "/iphone", "/mac", "/ipad", "/watch", "/airpods"})
}

func microsoftProductURL(u string) bool {
	return matchesAny(u, []string{"/surface", "/xbox", "/store", "/d/"})
}

// defaultSources is the configured retailer fan-out, in discovery order.
// Amazon and eBay parse search HTML directly; the rest go through the
// reader proxy.
func defaultSources() []Searcher {
	q := url.QueryEscape

	return []Searcher{
		&htmlSource{
			name:       "Amazon",
			searchURL:  func(term string) string { return "https://www.amazon.com/s?k=" + q(term) },
			cap:        10,
			confidence: 98,
			shipping:   "Free Prime",
			parseRows:  parseAmazonRows,
		},
		&htmlSource{
			name:       "eBay",
			searchURL:  func(term string) string { return "https://www.ebay.com/sch/i.html?_nkw=" + q(term) + "&_sop=12" },
			cap:        10,
			confidence: 88,
			shipping:   "Free Shipping",
			parseRows:  parseEBayRows,
		},
		&mdSource{
			name:         "Target",
			searchURL:    func(term string) string { return "https://www.target.com/s?searchTerm=" + q(term) },
			host:         "target.com",
			paths:        []string{"/p/"},
			cap:          8,
			confidence:   90,
			shipping:     "Fast Shipping",
			requirePrice: true,
			trimPatterns: targetTrimPatterns,
		},
		&mdSource{
			name:         "Walmart",
			searchURL:    func(term string) string { return "https://www.walmart.com/search?q=" + q(term) },
			host:         "walmart.com",
			paths:        []string{"/ip/"},
			cap:          8,
			confidence:   90,
			shipping:     "Fast Shipping",
			requirePrice: true,
			trimPatterns: walmartTrimPatterns,
		},
		&mdSource{
			name:         "Nike",
			searchURL:    func(term string) string { return "https://www.nike.com/w?q=" + q(term) },
			host:         "nike.com",
			cap:          6,
			confidence:   96,
			shipping:     "Free Members Shipping",
			requirePrice: true,
			firstLink:    true,
			maxTitleLen:  50,
		},
		&mdSource{
			name:         "Adidas",
			searchURL:    func(term string) string { return "https://www.adidas.com/us/search?q=" + q(term) },
			host:         "adidas.com",
			cap:          6,
			confidence:   95,
			shipping:     "Free Shipping",
			requirePrice: true,
			firstLink:    true,
			maxTitleLen:  50,
		},
		&mdSource{
			name:          "Apple",
			searchURL:     func(term string) string { return "https://www.apple.com/us/search/" + q(term) + "?src=globalnav" },
			host:          "apple.com",
			cap:           4,
			confidence:    99,
			shipping:      "Free",
			firstLink:     true,
			pathFilter:    appleProductURL,
			fallbackPrice: "Official Store",
			trimPatterns:  appleTrimPatterns,
			maxTitleLen:   50,
		},
		&mdSource{
			name:          "Microsoft",
			searchURL:     func(term string) string { return "https://www.microsoft.com/en-us/search/explore?q=" + q(term) },
			host:          "microsoft.com",
			cap:           6,
			confidence:    97,
			shipping:      "Free",
			firstLink:     true,
			pathFilter:    microsoftProductURL,
			fallbackPrice: "Official Store",
			maxTitleLen:   50,
		},
	}
}
