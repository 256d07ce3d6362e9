package page

import "strings"

// Platform identifies the publishing platform of a product page.
// Detection is a pure classification with a deterministic fallback to
// PlatformDirect when nothing is recognized.
type Platform int

const (
	PlatformDirect Platform = iota
	PlatformAmazon
	PlatformShopify
	PlatformTarget
	PlatformWalmart
)

// String returns the human-readable platform name used in reports.
func (p Platform) String() string {
	switch p {
	case PlatformAmazon:
		return "Amazon"
	case PlatformShopify:
		return "Shopify"
	case PlatformTarget:
		return "Target"
	case PlatformWalmart:
		return "Walmart"
	default:
		return "Direct Site"
	}
}

// DetectPlatform classifies a page by its URL and raw HTML. Shopify stores
// run on arbitrary domains, so they are recognized by theme markers in the
// body rather than the host.
func DetectPlatform(pageURL, rawHTML string) Platform {
	switch {
	case strings.Contains(pageURL, "amazon.com"):
		return PlatformAmazon
	case strings.Contains(rawHTML, "Shopify.theme") || strings.Contains(rawHTML, "cdn.shopify.com"):
		return PlatformShopify
	case strings.Contains(pageURL, "target.com"):
		return PlatformTarget
	case strings.Contains(pageURL, "walmart.com"):
		return PlatformWalmart
	default:
		return PlatformDirect
	}
}
