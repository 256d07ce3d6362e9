package page

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Snapshot is the ephemeral parsed state of one fetched page. It is owned
// by a single analysis request and never persisted.
type Snapshot struct {
	URL      string
	RawHTML  string
	Platform Platform
	Doc      *Doc

	// BodyText is the full visible body text, whitespace-normalized.
	// Signal scanning runs against this, not the readability article, so
	// that urgency banners and checkout chrome are still seen.
	BodyText string
}

// NewSnapshot parses raw HTML into a Snapshot. A parse failure yields a nil
// snapshot; callers degrade to absent data.
func NewSnapshot(pageURL, rawHTML string) (*Snapshot, error) {
	doc, err := Parse(rawHTML)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		URL:      pageURL,
		RawHTML:  rawHTML,
		Platform: DetectPlatform(pageURL, rawHTML),
		Doc:      doc,
		BodyText: doc.BodyText(),
	}, nil
}

// Excerpt returns a reader-friendly plain-text slice of the page, at most
// maxLen characters. Readability output is preferred when it extracted a
// substantial article; otherwise the raw body text is used.
func (s *Snapshot) Excerpt(maxLen int) string {
	text := s.BodyText

	parsed, err := url.Parse(s.URL)
	if err == nil {
		if article, rerr := readability.FromReader(strings.NewReader(s.RawHTML), parsed); rerr == nil {
			if t := CleanText(article.TextContent); len(t) > 200 {
				text = t
			}
		}
	}

	if maxLen > 0 && len(text) > maxLen {
		return text[:maxLen]
	}
	return text
}
