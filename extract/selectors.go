package extract

import (
	"github.com/andybalholm/cascadia"

	"github.com/clearcart/trustlens/page"
)

// selectorSet holds precompiled result selectors for one platform.
// Compiling once at init keeps the per-request cascade allocation-free.
type selectorSet struct {
	title cascadia.Selector
	image cascadia.Selector
	price cascadia.Selector
}

var (
	amazonSelectors = selectorSet{
		title: cascadia.MustCompile("#productTitle"),
		image: cascadia.MustCompile("#landingImage, #imgTagWrapperId img"),
		price: cascadia.MustCompile(".a-price .a-offscreen, #price_inside_buybox"),
	}
	shopifySelectors = selectorSet{
		title: cascadia.MustCompile(".product-single__title, .product-title, h1"),
		image: cascadia.MustCompile("[data-product-single-thumbnail], .product__main-photos img, .product-image"),
		price: cascadia.MustCompile(".product__price, .price, .product-price"),
	}
	targetSelectors = selectorSet{
		title: cascadia.MustCompile(`[data-test="product-title"]`),
		image: cascadia.MustCompile(`[data-test="product-image"] img`),
		price: cascadia.MustCompile(`[data-test="product-price"]`),
	}
	walmartSelectors = selectorSet{
		title: cascadia.MustCompile("h1"),
		image: cascadia.MustCompile(`[data-testid="hero-image-container"] img`),
		price: cascadia.MustCompile(`[itemprop="price"]`),
	}
	genericSelectors = selectorSet{
		title: cascadia.MustCompile("h1, .product-title, .title"),
		image: cascadia.MustCompile(`main img, .product-image img, img[itemprop="image"]`),
		price: cascadia.MustCompile(`.price, .product-price, span:contains('$')`),
	}
)

// selectorsFor returns the selector set for a detected platform, falling
// back to the generic set for unrecognized platforms.
func selectorsFor(p page.Platform) selectorSet {
	switch p {
	case page.PlatformAmazon:
		return amazonSelectors
	case page.PlatformShopify:
		return shopifySelectors
	case page.PlatformTarget:
		return targetSelectors
	case page.PlatformWalmart:
		return walmartSelectors
	default:
		return genericSelectors
	}
}
