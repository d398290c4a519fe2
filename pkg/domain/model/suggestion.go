package model

import "github.com/secmon-lab/buddyguard/pkg/domain/types"

// MinAnalyzableLength is the shortest description the advisory classifier is asked about
const MinAnalyzableLength = 10

// Suggestion is the advisory classification of a report description. It is
// never authoritative.
type Suggestion struct {
	SuggestedType string         `json:"suggestedType"`
	Severity      types.Severity `json:"severity"`
	Reasoning     string         `json:"reasoning"`
}

// IsAnalyzable reports whether a description is long enough to classify
func IsAnalyzable(description string) bool {
	return len([]rune(description)) >= MinAnalyzableLength
}
