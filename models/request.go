package models

// AnalyzeRequest is the payload for POST /api/v1/analyze.
//
// Either URL or SearchQuery must be supplied; a request carrying neither is
// rejected as invalid input before any work starts.
type AnalyzeRequest struct {
	// URL is the product or store page to analyze.
	URL string `json:"url,omitempty" binding:"omitempty,url"`

	// Mode selects the analysis flavour.
	// "product" (default): single product page. "website": whole-store check.
	Mode string `json:"mode,omitempty" binding:"omitempty,oneof=product website"`

	// SearchQuery is a free-text term used for market aggregation when no
	// URL is given, or to override the term derived from the page title.
	SearchQuery string `json:"search_query,omitempty"`

	// MaxAgeMs allows serving a cached report no older than this many
	// milliseconds. 0 disables cache lookup.
	MaxAgeMs int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *AnalyzeRequest) Defaults() {
	if r.Mode == "" {
		r.Mode = "product"
	}
}

// HasTarget reports whether the request names anything to analyze.
func (r *AnalyzeRequest) HasTarget() bool {
	return r.URL != "" || r.SearchQuery != ""
}
