package page

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/clearcart/trustlens/models"
)

// Doc wraps a parsed HTML document with the non-content nodes stripped.
// Embedded JSON-LD blocks are kept; everything else inside script/style/
// iframe/noscript is removed before any querying happens.
type Doc struct {
	doc *goquery.Document
}

// Parse loads raw HTML into a queryable tree and prunes non-content nodes.
func Parse(rawHTML string) (*Doc, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewAnalysisError(models.ErrCodeParseFailure, "load document", err)
	}
	doc.Find(`script:not([type="application/ld+json"]), style, iframe, noscript`).Remove()
	return &Doc{doc: doc}, nil
}

// First returns the whitespace-normalized text of the first element
// matching the selector, or "" when nothing matches.
func (d *Doc) First(selector string) string {
	return CleanText(d.doc.Find(selector).First().Text())
}

// FirstMatcher is First for a precompiled cascadia matcher.
func (d *Doc) FirstMatcher(m cascadia.Selector) string {
	return CleanText(d.doc.FindMatcher(m).First().Text())
}

// Attr returns the named attribute of the first element matching the
// selector, or "" when absent.
func (d *Doc) Attr(selector, name string) string {
	v, _ := d.doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

// AttrMatcher is Attr for a precompiled cascadia matcher.
func (d *Doc) AttrMatcher(m cascadia.Selector, name string) string {
	v, _ := d.doc.FindMatcher(m).First().Attr(name)
	return strings.TrimSpace(v)
}

// Meta returns the content of the first <meta> with the given property or
// name attribute value.
func (d *Doc) Meta(key string) string {
	if v := d.Attr(`meta[property="`+key+`"]`, "content"); v != "" {
		return v
	}
	return d.Attr(`meta[name="`+key+`"]`, "content")
}

// EachScript iterates over embedded JSON-LD blocks, passing each raw
// payload to fn until fn returns false.
func (d *Doc) EachScript(fn func(payload string) bool) {
	d.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		return fn(s.Text())
	})
}

// BodyText returns the whitespace-normalized visible text of <body>.
func (d *Doc) BodyText() string {
	return CleanText(d.doc.Find("body").Text())
}

// Title returns the document <title> text.
func (d *Doc) Title() string {
	return CleanText(d.doc.Find("title").First().Text())
}

// Each iterates over all elements matching the selector.
func (d *Doc) Each(selector string, fn func(s *goquery.Selection)) {
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) { fn(s) })
}

var reWhitespace = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace into single spaces and trims.
func CleanText(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}
