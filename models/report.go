package models

// Verdict is the discrete trust classification derived from a numeric score.
type Verdict string

const (
	VerdictLegit   Verdict = "LEGIT"
	VerdictSecure  Verdict = "SECURE"
	VerdictNeutral Verdict = "NEUTRAL"
	VerdictCaution Verdict = "CAUTION"
	VerdictRisky   Verdict = "RISKY"
	VerdictDanger  Verdict = "DANGER"
)

// RiskLevel is the coarse three-way projection of a Verdict.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "Safe"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High Risk"
)

// ExtractedFields holds the product fields recovered from a single page.
// Empty string means the field could not be resolved; the JSON encoding
// omits unresolved fields rather than emitting sentinel values.
type ExtractedFields struct {
	Title    string `json:"title,omitempty"`
	Image    string `json:"image,omitempty"`
	Price    string `json:"price,omitempty"`
	Shipping string `json:"shipping_info,omitempty"`
}

// SignalCounts carries the pattern-scan results for a page body.
type SignalCounts struct {
	// Urgency accumulates +15 per distinct urgency phrase matched.
	Urgency int `json:"urgency_score"`

	// Dropshipping accumulates +25 per distinct dropshipping marker matched.
	Dropshipping int `json:"dropshipping_score"`

	// Positive and Negative are raw sentiment phrase counts. They feed the
	// review summary sentence, not the trust score.
	Positive int `json:"-"`
	Negative int `json:"-"`

	// FinePrint holds advisory strings for flagged fine-print phrases.
	FinePrint []string `json:"fine_print"`

	// ReviewSummary holds the one-line sentiment summary.
	ReviewSummary []string `json:"review_summary"`
}

// Listing is one aggregated search result from a retailer task.
// Immutable once created.
type Listing struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Source    string  `json:"source"`
	Price     string  `json:"price"`
	Shipping  string  `json:"shipping,omitempty"`
	Condition string  `json:"condition,omitempty"`
	Image     string  `json:"image,omitempty"`
	Score     int     `json:"score"`
	Verdict   Verdict `json:"verdict"`
}

// MarketSet partitions aggregated listings into verified retailers and
// open marketplaces. Each partition is sorted by ascending parsed price,
// ties broken by discovery order.
type MarketSet struct {
	Retailers    []Listing `json:"verified_retailers"`
	Marketplaces []Listing `json:"marketplaces"`
}

// All returns both partitions as a single slice, retailers first.
func (m MarketSet) All() []Listing {
	out := make([]Listing, 0, len(m.Retailers)+len(m.Marketplaces))
	out = append(out, m.Retailers...)
	out = append(out, m.Marketplaces...)
	return out
}

// CPSCRecall is one recall record from the CPSC SaferProducts registry.
type CPSCRecall struct {
	RecallID     int    `json:"RecallID"`
	RecallNumber string `json:"RecallNumber"`
	RecallDate   string `json:"RecallDate"`
	Description  string `json:"Description"`
	URL          string `json:"URL"`
	Title        string `json:"Title"`
}

// FDAReport is one enforcement report from the openFDA registry.
type FDAReport struct {
	RecallNumber       string `json:"recall_number"`
	ReasonForRecall    string `json:"reason_for_recall"`
	Status             string `json:"status"`
	ProductDescription string `json:"product_description"`
	RecallingFirm      string `json:"recalling_firm"`
	ReportDate         string `json:"report_date"`
}

// RegistryHits aggregates the raw results of both safety registries.
type RegistryHits struct {
	CPSC []CPSCRecall
	FDA  []FDAReport
}

// RecallFound reports whether an active recall is present. A positive
// CPSC hit forces the DANGER verdict regardless of score.
func (h RegistryHits) RecallFound() bool {
	return len(h.CPSC) > 0
}

// ScoreFactor is one labelled adjustment from the legacy scoring path.
type ScoreFactor struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Type  string `json:"type"` // "bonus" or "deduction"
}

// RecallHistory summarises registry results for the report.
type RecallHistory struct {
	Found   bool   `json:"found"`
	Details string `json:"details"`
}

// SafetyInfo exposes the leading registry hits plus the full FDA list.
type SafetyInfo struct {
	CPSC    *CPSCRecall `json:"cpsc,omitempty"`
	FDA     *FDAReport  `json:"fda,omitempty"`
	Reports []FDAReport `json:"reports,omitempty"`
}

// Report is the terminal aggregate returned by POST /api/v1/analyze.
type Report struct {
	Title        string `json:"title,omitempty"`
	Image        string `json:"image,omitempty"`
	Price        string `json:"price,omitempty"`
	ShippingInfo string `json:"shipping_info,omitempty"`
	Platform     string `json:"platform"`

	Score     int       `json:"score"`
	Verdict   Verdict   `json:"verdict"`
	RiskLevel RiskLevel `json:"risk_level"`
	Summary   string    `json:"summary"`

	UrgencyScore      int      `json:"urgency_score"`
	DropshippingScore int      `json:"dropshipping_score"`
	FinePrint         []string `json:"fine_print"`
	ReviewSummary     []string `json:"review_summary"`

	// Excerpt is a bounded plain-text slice of the page body (≤3000 chars).
	// Raw page content is never persisted beyond this.
	Excerpt string `json:"excerpt,omitempty"`

	Market        MarketSet     `json:"market"`
	RecallHistory RecallHistory `json:"recall_history"`
	Safety        SafetyInfo    `json:"safety"`
	ScoreFactors  []ScoreFactor `json:"score_factors"`

	CacheStatus string `json:"cache_status,omitempty"`
}

// PricePoint is one dated price observation for a tracked product.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// PriceHistoryResponse is the response for GET /api/v1/price-history.
type PriceHistoryResponse struct {
	CurrentPrice *float64     `json:"current_price"`
	PriceHistory []PricePoint `json:"price_history"`
	Message      string       `json:"message,omitempty"`
	Error        *ErrorDetail `json:"error,omitempty"`
}
