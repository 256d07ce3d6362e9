package market

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/clearcart/trustlens/fetch"
	"github.com/clearcart/trustlens/models"
	"github.com/clearcart/trustlens/score"
)

// checkPrice is the placeholder shown when a result row carried no
// parseable price. Extraction-layer convention; see the Listing contract.
const checkPrice = "Check Price"

// htmlSource searches a retailer by parsing its search-results HTML with
// platform-specific row selectors. A row is accepted only if it yields both
// a non-empty title and a resolvable absolute URL.
type htmlSource struct {
	name       string
	searchURL  func(term string) string
	cap        int
	confidence int
	shipping   string
	parseRows  func(s *htmlSource, doc *goquery.Document) []models.Listing
}

func (s *htmlSource) Name() string { return s.name }

func (s *htmlSource) Search(ctx context.Context, gw *fetch.Gateway, term string) ([]models.Listing, error) {
	html, err := gw.Page(ctx, s.searchURL(term))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return s.parseRows(s, doc), nil
}

// newListing builds a Listing with the source's static confidence and the
// verdict band derived from it.
func (s *htmlSource) newListing(title, url, price, image string) models.Listing {
	if price == "" {
		price = checkPrice
	}
	return models.Listing{
		Title:     title,
		URL:       url,
		Source:    s.name,
		Price:     price,
		Shipping:  s.shipping,
		Condition: "New",
		Image:     image,
		Score:     s.confidence,
		Verdict:   score.ListingVerdict(s.confidence),
	}
}

// parseAmazonRows extracts result rows from an Amazon search page.
func parseAmazonRows(s *htmlSource, doc *goquery.Document) []models.Listing {
	var items []models.Listing
	doc.Find(`.s-result-item[data-component-type="s-search-result"]`).
		EachWithBreak(func(_ int, row *goquery.Selection) bool {
			if len(items) >= s.cap {
				return false
			}

			title := strings.TrimSpace(row.Find("h2 a span").Text())
			if title == "" {
				title = strings.TrimSpace(row.Find("h2").Text())
			}

			href, _ := row.Find("a.a-link-normal.s-no-outline").Attr("href")
			if href == "" {
				href, _ = row.Find("a.a-link-normal").Attr("href")
			}
			if title == "" || href == "" {
				return true
			}
			if !strings.HasPrefix(href, "http") {
				href = "https://www.amazon.com" + href
			}

			price := strings.TrimSpace(row.Find(".a-price .a-offscreen").First().Text())
			image, _ := row.Find("img.s-image").Attr("src")

			items = append(items, s.newListing(title, href, price, image))
			return true
		})
	return items
}

// parseEBayRows extracts result rows from an eBay search page. The first
// row is the "Shop on eBay" banner and is skipped; both the classic s-item
// and the newer s-card markup are recognized.
func parseEBayRows(s *htmlSource, doc *goquery.Document) []models.Listing {
	var items []models.Listing
	doc.Find(".s-item__wrapper, .s-item, .s-card").
		EachWithBreak(func(i int, row *goquery.Selection) bool {
			if i == 0 {
				return true // leading banner row
			}
			if len(items) >= s.cap {
				return false
			}

			title := strings.TrimSpace(row.Find(".s-item__title").Text())
			if title == "" {
				title = strings.TrimSpace(row.Find(".s-card__title").Text())
			}
			title = strings.TrimSpace(strings.ReplaceAll(title, "Opens in a new window or tab", ""))
			if title == "" || strings.Contains(title, "Shop on eBay") {
				return true
			}

			href, _ := row.Find("a.s-item__link").Attr("href")
			if href == "" {
				href, _ = row.Find("a.s-card__link").Attr("href")
			}
			if href == "" {
				return true
			}

			price := strings.TrimSpace(row.Find(".s-item__price").Text())
			if price == "" {
				price = strings.TrimSpace(row.Find(".s-card__price").Text())
			}
			image, _ := row.Find(".s-item__image-img").Attr("src")
			if image == "" {
				image, _ = row.Find(".s-card__image").Attr("src")
			}

			items = append(items, s.newListing(title, href, price, image))
			return true
		})
	return items
}
