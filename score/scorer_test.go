package score

import (
	"testing"

	"github.com/clearcart/trustlens/models"
	"github.com/clearcart/trustlens/page"
)

func TestScore_Baseline(t *testing.T) {
	result := Score(models.SignalCounts{}, models.RegistryHits{}, page.PlatformDirect)

	if result.Score != 80 {
		t.Errorf("baseline score = %d, want 80", result.Score)
	}
	if result.Verdict != models.VerdictSecure {
		t.Errorf("baseline verdict = %s, want SECURE", result.Verdict)
	}
	if result.RiskLevel != models.RiskSafe {
		t.Errorf("baseline risk level = %s, want Safe", result.RiskLevel)
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	counts := []models.SignalCounts{
		{},
		{Urgency: 15},
		{Urgency: 120},
		{Dropshipping: 25},
		{Dropshipping: 175},
		{Urgency: 120, Dropshipping: 175},
		{Urgency: -50}, // hostile input still clamps
	}
	for _, c := range counts {
		result := Score(c, models.RegistryHits{}, page.PlatformDirect)
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("Score(%+v) = %d, out of [0,100]", c, result.Score)
		}
	}
}

func TestScore_SignalsReduceScore(t *testing.T) {
	counts := models.SignalCounts{Urgency: 15, Dropshipping: 25}
	result := Score(counts, models.RegistryHits{}, page.PlatformDirect)

	if result.Score != 40 {
		t.Errorf("score = %d, want 40 (80 - 15 - 25)", result.Score)
	}
	if result.Verdict != models.VerdictCaution {
		t.Errorf("verdict = %s, want CAUTION", result.Verdict)
	}
}

func TestVerdictBands(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  models.Verdict
	}{
		{"top of range", 100, models.VerdictLegit},
		{"legit boundary", 90, models.VerdictLegit},
		{"secure boundary", 80, models.VerdictSecure},
		{"just under secure", 79, models.VerdictNeutral},
		{"neutral boundary", 60, models.VerdictNeutral},
		{"caution boundary", 40, models.VerdictCaution},
		{"risky boundary", 20, models.VerdictRisky},
		{"danger", 19, models.VerdictDanger},
		{"floor", 0, models.VerdictDanger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := verdictFor(tt.score); got != tt.want {
				t.Errorf("verdictFor(%d) = %s, want %s", tt.score, got, tt.want)
			}
		})
	}
}

func TestScore_RecallForcesDanger(t *testing.T) {
	hits := models.RegistryHits{
		CPSC: []models.CPSCRecall{{RecallID: 1, Title: "Widget Recall"}},
	}

	// No negative signals: the computed score stays at the 80 baseline,
	// well above the DANGER band — the recall must override anyway.
	result := Score(models.SignalCounts{}, hits, page.PlatformAmazon)

	if result.Verdict != models.VerdictDanger {
		t.Errorf("verdict with active recall = %s, want DANGER", result.Verdict)
	}
	if result.RiskLevel != models.RiskHigh {
		t.Errorf("risk level with active recall = %s, want High Risk", result.RiskLevel)
	}
	if result.Score != 80 {
		t.Errorf("score = %d, want 80 (override changes verdict, not score)", result.Score)
	}
}

func TestRiskLevelProjection(t *testing.T) {
	tests := []struct {
		verdict models.Verdict
		want    models.RiskLevel
	}{
		{models.VerdictLegit, models.RiskSafe},
		{models.VerdictSecure, models.RiskSafe},
		{models.VerdictNeutral, models.RiskModerate},
		{models.VerdictCaution, models.RiskModerate},
		{models.VerdictRisky, models.RiskModerate},
		{models.VerdictDanger, models.RiskHigh},
	}
	for _, tt := range tests {
		if got := riskLevelFor(tt.verdict); got != tt.want {
			t.Errorf("riskLevelFor(%s) = %s, want %s", tt.verdict, got, tt.want)
		}
	}
}

func TestFactors_Legacy(t *testing.T) {
	counts := models.SignalCounts{Urgency: 30, Dropshipping: 25}
	hits := models.RegistryHits{
		CPSC: []models.CPSCRecall{{RecallID: 7}},
		FDA:  []models.FDAReport{{RecallNumber: "F-123"}},
	}

	factors := Factors(counts, hits, page.PlatformAmazon)

	if len(factors) != 5 {
		t.Fatalf("got %d factors, want 5", len(factors))
	}

	var bonuses, deductions int
	for _, f := range factors {
		switch f.Type {
		case "bonus":
			bonuses++
			if f.Value <= 0 {
				t.Errorf("bonus %q has non-positive value %d", f.Label, f.Value)
			}
		case "deduction":
			deductions++
			if f.Value >= 0 {
				t.Errorf("deduction %q has non-negative value %d", f.Label, f.Value)
			}
		default:
			t.Errorf("factor %q has unknown type %q", f.Label, f.Type)
		}
	}
	if bonuses != 1 || deductions != 4 {
		t.Errorf("got %d bonuses / %d deductions, want 1 / 4", bonuses, deductions)
	}
}

func TestListingVerdict(t *testing.T) {
	tests := []struct {
		confidence int
		want       models.Verdict
	}{
		{99, models.VerdictLegit},
		{90, models.VerdictLegit},
		{88, models.VerdictSecure},
		{70, models.VerdictSecure},
		{69, models.VerdictCaution},
	}
	for _, tt := range tests {
		if got := ListingVerdict(tt.confidence); got != tt.want {
			t.Errorf("ListingVerdict(%d) = %s, want %s", tt.confidence, got, tt.want)
		}
	}
}
