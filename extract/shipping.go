package extract

import (
	"regexp"
	"strings"

	"github.com/clearcart/trustlens/page"
)

// amazonShippingSelectors is the ordered allow-list of delivery-message
// containers. First non-empty match wins.
var amazonShippingSelectors = []string{
	"#deliveryBlockMessage",
	"#mir-layout-DELIVERY_BLOCK-slot-PRIMARY_DELIVERY_MESSAGE_LARGE",
	"[data-csa-c-delivery-price]",
	"#fast-track-message",
}

var reGenericShipping = regexp.MustCompile(`(?i)free shipping|shipping: \$[\d.]+`)

// detectShipping finds a shipping/delivery message for the page. Known
// platforms get a short selector allow-list; everything else falls back to
// a body-wide pattern search.
func detectShipping(snap *page.Snapshot) Field {
	doc := snap.Doc

	switch {
	case snap.Platform == page.PlatformAmazon:
		for _, selector := range amazonShippingSelectors {
			text := doc.First(selector)
			if text == "" {
				continue
			}
			if strings.Contains(text, "FREE") ||
				strings.Contains(text, "delivery") ||
				strings.Contains(text, "shipping") {
				return Some(text)
			}
		}
		// Prime badge without an explicit delivery block still implies
		// free shipping for members.
		if doc.Attr(`[aria-label*="Prime"]`, "aria-label") != "" {
			return Some("FREE Prime shipping available")
		}

	case strings.Contains(snap.URL, "ebay.com"):
		if text := doc.First(".ux-labels-values--shipping .ux-textspans"); text != "" {
			return Some(text)
		}

	case snap.Platform == page.PlatformWalmart:
		if text := doc.First(`[data-testid="fulfillment-shipping"]`); text != "" {
			return Some(text)
		}

	default:
		if m := reGenericShipping.FindString(snap.BodyText); m != "" {
			return Some(m)
		}
	}
	return None()
}
