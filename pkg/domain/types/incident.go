package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// IncidentType is the category of an incident
type IncidentType string

const (
	IncidentTypeBullying   IncidentType = "Bullying"
	IncidentTypeLanguage   IncidentType = "Language Misuse"
	IncidentTypeDigital    IncidentType = "Digital Misuse"
	IncidentTypeAcademic   IncidentType = "Academic Dishonesty"
	IncidentTypeVandalism  IncidentType = "Vandalism"
	IncidentTypeMedical    IncidentType = "Medical/Emergency"
	IncidentTypeBehavioral IncidentType = "Behavioral Issue"
	IncidentTypeOther      IncidentType = "Other"
)

// AllIncidentTypes lists incident types in the order they are offered to reporters
var AllIncidentTypes = []IncidentType{
	IncidentTypeBullying,
	IncidentTypeLanguage,
	IncidentTypeDigital,
	IncidentTypeAcademic,
	IncidentTypeVandalism,
	IncidentTypeMedical,
	IncidentTypeBehavioral,
	IncidentTypeOther,
}

// String returns the string representation of the incident type
func (t IncidentType) String() string {
	return string(t)
}

// IsValid checks if the incident type is in the closed set
func (t IncidentType) IsValid() bool {
	for _, v := range AllIncidentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// MatchIncidentType maps free text to the first incident type whose name it
// contains, case-insensitively. Text matching nothing maps to Other.
func MatchIncidentType(text string) IncidentType {
	lower := strings.ToLower(text)
	for _, t := range AllIncidentTypes {
		if strings.Contains(lower, strings.ToLower(t.String())) {
			return t
		}
	}
	return IncidentTypeOther
}

// Severity is the urgency of an incident
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the severity is one of Low, Medium or High
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// NormalizeSeverity maps free text to a Severity case-insensitively.
// Unrecognized text maps to Medium.
func NormalizeSeverity(text string) Severity {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "low":
		return SeverityLow
	case "high":
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// IncidentStatus represents the status of an incident
type IncidentStatus string

const (
	IncidentStatusNew             IncidentStatus = "New"
	IncidentStatusUnderReview     IncidentStatus = "Under Review"
	IncidentStatusUnderCounseling IncidentStatus = "Under Counseling"
	IncidentStatusActionTaken     IncidentStatus = "Action Taken"
	IncidentStatusResolved        IncidentStatus = "Resolved"
	IncidentStatusSeen            IncidentStatus = "Seen"
	IncidentStatusForwarded       IncidentStatus = "Forwarded"
)

// String returns the string representation of the status
func (s IncidentStatus) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentStatusNew, IncidentStatusUnderReview, IncidentStatusUnderCounseling,
		IncidentStatusActionTaken, IncidentStatusResolved, IncidentStatusSeen, IncidentStatusForwarded:
		return true
	default:
		return false
	}
}

// ParseIncidentStatus converts a display value into an IncidentStatus
func ParseIncidentStatus(s string) (IncidentStatus, error) {
	status := IncidentStatus(s)
	if !status.IsValid() {
		return "", goerr.New("unknown incident status", goerr.V("status", s))
	}
	return status, nil
}
