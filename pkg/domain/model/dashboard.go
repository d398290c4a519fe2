package model

import (
	"sort"
	"strings"

	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

// CountItem is one bar of a breakdown chart
type CountItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats holds dashboard figures
type Stats struct {
	Total      int  `json:"total"`
	Resolved   int  `json:"resolved"`
	Critical   int  `json:"critical"`
	Counseling int  `json:"counseling"`
	Fallback   bool `json:"fallback"`

	Categories []CountItem `json:"categories,omitempty"`
	Grades     []CountItem `json:"grades,omitempty"`
}

// DefaultStats returns the figures shown when the store cannot be read
func DefaultStats() *Stats {
	return &Stats{
		Total:      42,
		Resolved:   24,
		Critical:   6,
		Counseling: 8,
		Fallback:   true,
	}
}

// ComputeStats aggregates incidents. Breakdowns are only filled when withCharts is set.
func ComputeStats(incidents []*Incident, withCharts bool) *Stats {
	stats := &Stats{Total: len(incidents)}

	categories := make(map[types.IncidentType]int)
	grades := make(map[string]int)

	for _, inc := range incidents {
		switch inc.Status {
		case types.IncidentStatusResolved:
			stats.Resolved++
		case types.IncidentStatusUnderCounseling:
			stats.Counseling++
		}
		if inc.Severity == types.SeverityHigh {
			stats.Critical++
		}
		categories[inc.IncidentType]++
		grades[GradeLevel(inc.GradeSection)]++
	}

	if !withCharts {
		return stats
	}

	for _, t := range types.AllIncidentTypes {
		if n := categories[t]; n > 0 {
			stats.Categories = append(stats.Categories, CountItem{Name: t.String(), Count: n})
		}
	}

	for name, n := range grades {
		stats.Grades = append(stats.Grades, CountItem{Name: name, Count: n})
	}
	sort.Slice(stats.Grades, func(i, j int) bool {
		return stats.Grades[i].Name < stats.Grades[j].Name
	})

	return stats
}

// GradeLevel extracts the grade part of a grade/section label,
// e.g. "Grade 10 - A" -> "Grade 10", "7-B" -> "7".
func GradeLevel(gradeSection string) string {
	level, _, _ := strings.Cut(gradeSection, "-")
	level = strings.TrimSpace(level)
	if level == "" {
		return "Unknown"
	}
	return level
}
