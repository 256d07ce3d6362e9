package extract

import (
	"github.com/clearcart/trustlens/models"
	"github.com/clearcart/trustlens/page"
)

// Extract resolves title/image/price/shipping from a page snapshot through
// a fixed-priority strategy chain, independently per field:
//
//  1. Embedded JSON-LD product offers.
//  2. Social/sharing meta tags (title, image) and currency meta tags (price).
//  3. Platform-specific selector sets, generic set as last resort.
//  4. Platform-specific shipping-message detection.
//
// Each stage only fills fields the earlier stages left unset.
func Extract(snap *page.Snapshot) models.ExtractedFields {
	doc := snap.Doc
	sel := selectorsFor(snap.Platform)

	// Stage 1: structured product metadata.
	title, image, price := productMetadata(doc)

	// Stage 2: meta tags.
	title = title.
		Or(Some(doc.Meta("og:title"))).
		Or(Some(doc.Meta("twitter:title")))
	image = image.
		Or(Some(doc.Meta("og:image"))).
		Or(Some(doc.Meta("twitter:image")))
	price = price.
		OrFunc(func() Field {
			if amount := doc.Meta("og:price:amount"); amount != "" {
				return Some("$" + amount)
			}
			return None()
		}).
		Or(Some(doc.Meta("twitter:data1"))) // often carries the price

	// Stage 3: CSS selectors, then the document title as a last resort.
	title = title.
		OrFunc(func() Field { return Some(doc.FirstMatcher(sel.title)) }).
		OrFunc(func() Field { return Some(doc.Title()) })
	image = image.
		OrFunc(func() Field { return Some(doc.AttrMatcher(sel.image, "src")) })
	price = price.
		OrFunc(func() Field { return Some(doc.FirstMatcher(sel.price)) })

	// Stage 4: shipping detection.
	shipping := detectShipping(snap)

	return models.ExtractedFields{
		Title:    title.Value(),
		Image:    image.Value(),
		Price:    price.Value(),
		Shipping: shipping.Value(),
	}
}
