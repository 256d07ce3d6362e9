package market

import (
	"context"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/clearcart/trustlens/fetch"
	"github.com/clearcart/trustlens/models"
	"github.com/clearcart/trustlens/score"
)

// mdSource recovers product listings from a reader-proxy markdown rendering
// of a retailer's search page. Used for retailers whose search markup is
// impractical to parse as HTML.
//
// The extractor is a small three-phase grammar over lines:
//
//	classify:  a line is a candidate only if it holds a markdown link and
//	           (unless requirePrice is off) a price-looking token
//	extract:   pick the best link on the line, pull price/image/title
//	validate:  host check, product-path check, URL dedup, degenerate titles
type mdSource struct {
	name       string
	searchURL  func(term string) string
	host       string   // accepted URLs must contain this host
	paths      []string // product-path conventions, e.g. "/p/", "/ip/"
	cap        int
	confidence int
	shipping   string

	// requirePrice drops the price-token requirement (official stores often
	// render search results without inline prices).
	requirePrice bool

	// firstLink selects the first link on a candidate line instead of the
	// last. Brand-store renderings lead with the product link; marketplace
	// renderings lead with navigation chrome.
	firstLink bool

	// pathFilter, when set, must accept the resolved URL (replaces the
	// plain host check for stores whose non-product pages share the host).
	pathFilter func(url string) bool

	// fallbackPrice is used when a candidate line has no price token and
	// requirePrice is off.
	fallbackPrice string

	// trimPatterns are retailer-specific boilerplate strippers applied to
	// the raw link title, in order.
	trimPatterns []*regexp.Regexp

	maxTitleLen int
}

func (s *mdSource) Name() string { return s.name }

func (s *mdSource) Search(ctx context.Context, gw *fetch.Gateway, term string) ([]models.Listing, error) {
	target := s.searchURL(term)

	markdown, err := gw.Reader(ctx, target)
	if err != nil {
		// Reader proxy down: fetch the page directly and render the
		// markdown locally so the same line grammar still applies.
		html, herr := gw.Page(ctx, target)
		if herr != nil {
			return nil, err
		}
		markdown, err = htmltomarkdown.ConvertString(html)
		if err != nil {
			return nil, err
		}
	}

	return s.extract(markdown), nil
}

var (
	reMarkdownLink = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	rePriceToken   = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)
	reBarePrice    = regexp.MustCompile(`\d+\.\d{2}`)

	// Boilerplate common to all reader renderings.
	reImagePrefix   = regexp.MustCompile(`^Image \d+: `)
	reHeadingMarker = regexp.MustCompile(`^#{1,6}\s*`)
)

// extract scans markdown text line by line and returns accepted listings,
// capped at the source's limit.
func (s *mdSource) extract(markdown string) []models.Listing {
	var items []models.Listing
	seen := make(map[string]struct{})

	for _, line := range strings.Split(markdown, "\n") {
		if len(items) >= s.cap {
			break
		}

		// ── classify ─────────────────────────────────────────────
		if !strings.Contains(line, "](") {
			continue
		}
		price := rePriceToken.FindString(line)
		if s.requirePrice && price == "" && !reBarePrice.MatchString(line) {
			continue
		}
		links := reMarkdownLink.FindAllStringSubmatch(line, -1)
		if len(links) == 0 {
			continue
		}
		if s.requirePrice && price == "" {
			continue
		}

		// ── extract ──────────────────────────────────────────────
		title, url := s.chooseLink(links)
		image := findImageLink(links)

		title = s.cleanTitle(title)

		if price == "" {
			price = s.fallbackPrice
		}

		// ── validate ─────────────────────────────────────────────
		if title == "" || strings.HasPrefix(title, "![") {
			continue
		}
		if !strings.Contains(url, s.host) {
			continue
		}
		if s.pathFilter != nil && !s.pathFilter(url) {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}

		items = append(items, models.Listing{
			Title:     title,
			URL:       url,
			Source:    s.name,
			Price:     price,
			Shipping:  s.shipping,
			Condition: "New",
			Image:     image,
			Score:     s.confidence,
			Verdict:   score.ListingVerdict(s.confidence),
		})
	}
	return items
}

// chooseLink picks the listing link among all links on a candidate line.
// A link matching the retailer's product-path convention wins; otherwise
// the last link (titles earlier on the line are usually navigation chrome)
// or the first when the source says so.
func (s *mdSource) chooseLink(links [][]string) (title, url string) {
	pick := links[len(links)-1]
	if s.firstLink {
		pick = links[0]
	}
	for _, m := range links {
		if matchesAny(m[2], s.paths) {
			pick = m
			break
		}
	}
	return pick[1], pick[2]
}

// findImageLink looks for an image link among the line's links: reader
// proxies render images as links titled "Image N" or hosted on known
// image CDNs.
func findImageLink(links [][]string) string {
	for _, m := range links {
		if strings.Contains(m[1], "Image") ||
			strings.Contains(m[2], "scene7") ||
			strings.Contains(m[2], "targetimg") {
			return m[2]
		}
	}
	return ""
}

// cleanTitle strips reader and retailer boilerplate from a link title.
func (s *mdSource) cleanTitle(title string) string {
	title = reImagePrefix.ReplaceAllString(title, "")
	title = reHeadingMarker.ReplaceAllString(title, "")
	for _, re := range s.trimPatterns {
		title = re.ReplaceAllString(title, "")
	}
	title = strings.TrimSpace(title)
	if len(title) < 3 {
		return ""
	}
	if s.maxTitleLen > 0 && len(title) > s.maxTitleLen {
		title = title[:s.maxTitleLen] + "..."
	}
	return title
}

func matchesAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
