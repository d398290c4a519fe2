package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

// FallbackData is the non-authoritative sample set shown when reads fail
type FallbackData struct {
	Incidents []*Incident `yaml:"incidents"`
	Profiles  []*Profile  `yaml:"profiles"`
}

// DefaultFallbackData returns the built-in sample set
func DefaultFallbackData() *FallbackData {
	return &FallbackData{
		Incidents: []*Incident{
			{
				ID:           "1",
				StudentName:  "Juan dela Cruz",
				GradeSection: "Grade 10 - A",
				IncidentType: types.IncidentTypeBullying,
				Description:  "Physical confrontation in the hallway after lunch.",
				Date:         "2025-02-10",
				Status:       types.IncidentStatusNew,
				ReportedBy:   types.RoleAnonymous,
				Severity:     types.SeverityHigh,
			},
			{
				ID:           "2",
				StudentName:  "Mary Anne Valdez",
				GradeSection: "Grade 8 - C",
				IncidentType: types.IncidentTypeAcademic,
				Description:  "Caught using unauthorized materials during Mathematics test.",
				Date:         "2025-02-11",
				Status:       types.IncidentStatusUnderReview,
				ReportedBy:   types.RoleTeacher,
				Severity:     types.SeverityMedium,
			},
			{
				ID:           "3",
				StudentName:  "Pedro Penduko",
				GradeSection: "Grade 10 - A",
				IncidentType: types.IncidentTypeLanguage,
				Description:  "Repeated use of inappropriate language in the cafeteria.",
				Date:         "2025-02-12",
				Status:       types.IncidentStatusUnderCounseling,
				ReportedBy:   types.RoleTeacher,
				Severity:     types.SeverityLow,
			},
			{
				ID:           "4",
				StudentName:  "Maria Clara Santos",
				GradeSection: "Grade 12 - B",
				IncidentType: types.IncidentTypeDigital,
				Description:  "Cyberbullying incident reported via school forum.",
				Date:         "2025-02-13",
				Status:       types.IncidentStatusForwarded,
				ReportedBy:   types.RoleAnonymous,
				Severity:     types.SeverityHigh,
			},
		},
		Profiles: []*Profile{
			{ID: "u1", Name: "Admin User", Role: types.RoleAdmin, Active: true},
			{ID: "u2", Name: "Mrs. Gatmaitan", Role: types.RoleTeacher, Active: true},
			{ID: "u3", Name: "Dr. Dimagiba", Role: types.RoleGuidance, Active: true},
		},
	}
}

// Validate checks the sample set loaded from a file
func (f *FallbackData) Validate() error {
	if len(f.Incidents) == 0 {
		return goerr.New("fallback data needs at least one incident")
	}

	seen := make(map[types.IncidentID]bool)
	for i, inc := range f.Incidents {
		if inc == nil || inc.ID == "" {
			return goerr.New("fallback incident ID is required", goerr.V("index", i))
		}
		if seen[inc.ID] {
			return goerr.New("duplicate fallback incident ID", goerr.V("id", inc.ID))
		}
		seen[inc.ID] = true

		if !inc.IncidentType.IsValid() {
			return goerr.New("invalid fallback incident type",
				goerr.V("id", inc.ID),
				goerr.V("incidentType", inc.IncidentType))
		}
		if !inc.Status.IsValid() {
			return goerr.New("invalid fallback incident status",
				goerr.V("id", inc.ID),
				goerr.V("status", inc.Status))
		}
		if !inc.Severity.IsValid() {
			return goerr.New("invalid fallback incident severity",
				goerr.V("id", inc.ID),
				goerr.V("severity", inc.Severity))
		}
	}

	for i, p := range f.Profiles {
		if p == nil || p.ID == "" {
			return goerr.New("fallback profile ID is required", goerr.V("index", i))
		}
		if !p.Role.IsStaff() {
			return goerr.New("fallback profile role must be a staff role",
				goerr.V("id", p.ID),
				goerr.V("role", p.Role))
		}
	}

	return nil
}

// CloneIncidents returns copies of the sample incidents
func (f *FallbackData) CloneIncidents() []*Incident {
	result := make([]*Incident, 0, len(f.Incidents))
	for _, inc := range f.Incidents {
		result = append(result, inc.Clone())
	}
	return result
}

// CloneProfiles returns copies of the sample profiles
func (f *FallbackData) CloneProfiles() []*Profile {
	result := make([]*Profile, 0, len(f.Profiles))
	for _, p := range f.Profiles {
		c := *p
		result = append(result, &c)
	}
	return result
}
