package score

import (
	"github.com/clearcart/trustlens/models"
	"github.com/clearcart/trustlens/page"
)

// baseline is the trust score every page starts from before any signal
// adjusts it.
const baseline = 80

// Result carries the scored verdict for one analysis.
type Result struct {
	Score     int
	Verdict   models.Verdict
	RiskLevel models.RiskLevel
	Summary   string
}

// Score combines signal counts, registry hits, and platform identity into
// a bounded 0-100 score and a discrete verdict.
//
// The signal-weighted path is canonical: the score starts at the baseline
// and subtracts the urgency and dropshipping weights the scanner already
// accumulated. An active recall forces DANGER regardless of score.
func Score(counts models.SignalCounts, hits models.RegistryHits, _ page.Platform) Result {
	s := clamp(baseline - counts.Urgency - counts.Dropshipping)

	verdict := verdictFor(s)
	if hits.RecallFound() {
		verdict = models.VerdictDanger
	}

	return Result{
		Score:     s,
		Verdict:   verdict,
		RiskLevel: riskLevelFor(verdict),
		Summary:   summaryFor(s, hits),
	}
}

// Factors is the legacy per-field scoring path, retained as a secondary
// strategy for the score_factors display field. It labels each adjustment
// but never overrides the canonical score.
func Factors(counts models.SignalCounts, hits models.RegistryHits, platform page.Platform) []models.ScoreFactor {
	factors := []models.ScoreFactor{}
	if hits.RecallFound() {
		factors = append(factors, models.ScoreFactor{Label: "Active CPSC Recall", Value: -40, Type: "deduction"})
	}
	if len(hits.FDA) > 0 {
		factors = append(factors, models.ScoreFactor{Label: "FDA Enforcement Action", Value: -20, Type: "deduction"})
	}
	if counts.Urgency > 0 {
		factors = append(factors, models.ScoreFactor{Label: "High-pressure sales loop", Value: -15, Type: "deduction"})
	}
	if counts.Dropshipping > 0 {
		factors = append(factors, models.ScoreFactor{Label: "Dropshipping source markers", Value: -25, Type: "deduction"})
	}
	if platform == page.PlatformAmazon {
		factors = append(factors, models.ScoreFactor{Label: "Verified Marketplace (Amazon)", Value: 10, Type: "bonus"})
	}
	return factors
}

// verdictFor maps a clamped score to its verdict band.
func verdictFor(s int) models.Verdict {
	switch {
	case s >= 90:
		return models.VerdictLegit
	case s >= 80:
		return models.VerdictSecure
	case s >= 60:
		return models.VerdictNeutral
	case s >= 40:
		return models.VerdictCaution
	case s >= 20:
		return models.VerdictRisky
	default:
		return models.VerdictDanger
	}
}

// riskLevelFor projects a verdict onto the coarse three-way risk level.
func riskLevelFor(v models.Verdict) models.RiskLevel {
	switch v {
	case models.VerdictLegit, models.VerdictSecure:
		return models.RiskSafe
	case models.VerdictDanger:
		return models.RiskHigh
	default:
		return models.RiskModerate
	}
}

func summaryFor(s int, hits models.RegistryHits) string {
	switch {
	case hits.RecallFound():
		return "CRITICAL: Active safety recall detected."
	case s >= 80:
		return "This target appears highly reliable."
	default:
		return "Caution: Identified potential risk factors."
	}
}

// ListingVerdict maps a source confidence score to a listing verdict band.
func ListingVerdict(confidence int) models.Verdict {
	switch {
	case confidence >= 90:
		return models.VerdictLegit
	case confidence >= 70:
		return models.VerdictSecure
	default:
		return models.VerdictCaution
	}
}

func clamp(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
