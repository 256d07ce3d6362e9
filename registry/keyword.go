package registry

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	reStorePrefix = regexp.MustCompile(`(?i)Amazon\.com[:\-] `)
	reTitleSuffix = regexp.MustCompile(`\|.*`)
)

// SearchTerm derives the registry/search keyword for a page. The page
// title is preferred (cleaned of marketing boilerplate and truncated to
// six words); otherwise the last meaningful URL path segment; otherwise
// the bare hostname; and finally a generic fallback.
func SearchTerm(pageURL, title string) string {
	if len(title) > 5 {
		cleaned := reStorePrefix.ReplaceAllString(title, "")
		cleaned = strings.TrimSpace(reTitleSuffix.ReplaceAllString(cleaned, ""))
		words := strings.Fields(cleaned)
		if len(words) > 6 {
			words = words[:6]
		}
		if len(words) > 0 {
			return strings.Join(words, " ")
		}
	}

	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return "Product"
	}

	segments := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
	if len(segments) > 0 {
		slug := segments[len(segments)-1]
		if slug != "" && !strings.Contains(slug, ".html") {
			slug = strings.ReplaceAll(slug, "-", " ")
			slug = strings.ReplaceAll(slug, "_", " ")
			return slug
		}
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if name, _, found := strings.Cut(host, "."); found && name != "" {
		return name
	}
	return "Product"
}
