package brand

import (
	"fmt"
	"strings"
)

// CheckResult is the outcome of a brand compliance check. Issues block
// publication, suggestions are advisory.
type CheckResult struct {
	Compliant   bool     `json:"compliant"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// Check validates content against the brand guidelines. contentType
// selects which disclaimer rules apply and may be empty.
func Check(content, contentType string) CheckResult {
	var issues, suggestions []string
	lower := strings.ToLower(content)

	for _, term := range ForbiddenTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			issues = append(issues, fmt.Sprintf("Contains forbidden term: '%s'", term))
		}
	}

	if contentType == "blog" || contentType == "market_report" {
		if !strings.Contains(lower, strings.ToLower(DisclaimerMarketAnalysis)) {
			suggestions = append(suggestions,
				fmt.Sprintf("Consider adding market analysis disclaimer: '%s'", DisclaimerMarketAnalysis))
		}
	}

	hasTrackRecord := false
	for _, term := range trackRecordTerms {
		if strings.Contains(lower, term) {
			hasTrackRecord = true
			break
		}
	}
	if hasTrackRecord && !strings.Contains(lower, strings.ToLower(DisclaimerTrackRecord)) {
		issues = append(issues,
			fmt.Sprintf("Track record mentioned without disclaimer: '%s'", DisclaimerTrackRecord))
	}

	return CheckResult{
		Compliant:   len(issues) == 0,
		Issues:      issues,
		Suggestions: suggestions,
	}
}
