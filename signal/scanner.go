package signal

import (
	"regexp"

	"github.com/clearcart/trustlens/models"
)

// Pattern libraries. All matching is case-insensitive against the full
// body text; duplicate occurrences of the same pattern count once.
var (
	urgencyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)only \d+ left`),
		regexp.MustCompile(`(?i)limited time`),
		regexp.MustCompile(`(?i)flash sale`),
		regexp.MustCompile(`(?i)hurry`),
		regexp.MustCompile(`(?i)ending soon`),
		regexp.MustCompile(`(?i)\d+ people are viewing`),
		regexp.MustCompile(`(?i)fomo`),
		regexp.MustCompile(`(?i)almost gone`),
	}

	dropshippingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)epacket`),
		regexp.MustCompile(`(?i)shipping calculated at checkout`),
		regexp.MustCompile(`(?i)please allow \d+-\d+ weeks`),
		regexp.MustCompile(`(?i)ships from china`),
		regexp.MustCompile(`(?i)aliexpress`),
		regexp.MustCompile(`(?i)oberlo`),
		regexp.MustCompile(`(?i)direct from factory`),
	}

	positivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)excellent`),
		regexp.MustCompile(`(?i)high quality`),
		regexp.MustCompile(`(?i)fast shipping`),
		regexp.MustCompile(`(?i)great customer service`),
		regexp.MustCompile(`(?i)highly recommend`),
		regexp.MustCompile(`(?i)authentic`),
		regexp.MustCompile(`(?i)original`),
	}

	negativePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)scam`),
		regexp.MustCompile(`(?i)fake`),
		regexp.MustCompile(`(?i)late delivery`),
		regexp.MustCompile(`(?i)never arrived`),
		regexp.MustCompile(`(?i)bad quality`),
		regexp.MustCompile(`(?i)terrible support`),
		regexp.MustCompile(`(?i)overpriced`),
		regexp.MustCompile(`(?i)not as described`),
	}
)

// Signal weights. Each distinct matched pattern contributes once.
const (
	urgencyWeight      = 15
	dropshippingWeight = 25
)

// Fine-print phrases flagged as advisories.
var finePrintAdvisories = []struct {
	phrase string
	notice string
}{
	{"restocking fee", "Caution: Re-stocking fee."},
	{"no refunds", "Warning: No Refunds."},
}

var reFinePrint = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(finePrintAdvisories))
	for i, fp := range finePrintAdvisories {
		out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(fp.phrase))
	}
	return out
}()

// Scan applies the urgency, dropshipping, sentiment, and fine-print
// libraries to a page body and returns the accumulated counts.
func Scan(bodyText string) models.SignalCounts {
	counts := models.SignalCounts{
		FinePrint:     []string{},
		ReviewSummary: []string{},
	}
	if bodyText == "" {
		counts.ReviewSummary = append(counts.ReviewSummary, "Neutral sentiment detected.")
		return counts
	}

	for _, p := range urgencyPatterns {
		if p.MatchString(bodyText) {
			counts.Urgency += urgencyWeight
		}
	}
	for _, p := range dropshippingPatterns {
		if p.MatchString(bodyText) {
			counts.Dropshipping += dropshippingWeight
		}
	}
	for _, p := range positivePatterns {
		if p.MatchString(bodyText) {
			counts.Positive++
		}
	}
	for _, p := range negativePatterns {
		if p.MatchString(bodyText) {
			counts.Negative++
		}
	}

	switch {
	case counts.Negative > counts.Positive:
		counts.ReviewSummary = append(counts.ReviewSummary,
			"Warning: Surface sentiment reveals multiple quality complaints.")
	case counts.Positive > 2:
		counts.ReviewSummary = append(counts.ReviewSummary,
			"General sentiment appears positive.")
	default:
		counts.ReviewSummary = append(counts.ReviewSummary,
			"Neutral sentiment detected.")
	}

	for i, re := range reFinePrint {
		if re.MatchString(bodyText) {
			counts.FinePrint = append(counts.FinePrint, finePrintAdvisories[i].notice)
		}
	}

	return counts
}
