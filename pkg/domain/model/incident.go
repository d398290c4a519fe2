package model

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

var validate = validator.New()

// Incident represents a submitted safety report
type Incident struct {
	ID             types.IncidentID     `json:"id" yaml:"id"`
	StudentName    string               `json:"studentName" yaml:"studentName"`
	GradeSection   string               `json:"gradeSection" yaml:"gradeSection"`
	IncidentType   types.IncidentType   `json:"incidentType" yaml:"incidentType"`
	Description    string               `json:"description" yaml:"description"`
	Date           string               `json:"date" yaml:"date"` // YYYY-MM-DD
	Status         types.IncidentStatus `json:"status" yaml:"status"`
	Severity       types.Severity       `json:"severity" yaml:"severity"`
	ReportedBy     types.Role           `json:"reportedBy" yaml:"reportedBy"`
	AdminNotes     string               `json:"adminNotes,omitempty" yaml:"adminNotes,omitempty"`
	TeacherRemarks string               `json:"teacherRemarks,omitempty" yaml:"teacherRemarks,omitempty"`
	GuidanceNotes  string               `json:"guidanceNotes,omitempty" yaml:"guidanceNotes,omitempty"`
}

// Clone returns a copy of the incident
func (i *Incident) Clone() *Incident {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// Note returns the content of the given note field
func (i *Incident) Note(field types.NoteField) string {
	switch field {
	case types.NoteFieldAdminNotes:
		return i.AdminNotes
	case types.NoteFieldTeacherRemarks:
		return i.TeacherRemarks
	case types.NoteFieldGuidanceNotes:
		return i.GuidanceNotes
	default:
		return ""
	}
}

// Draft is the payload of a new report before it is persisted
type Draft struct {
	StudentName  string             `json:"studentName" validate:"required"`
	GradeSection string             `json:"gradeSection" validate:"required"`
	IncidentType types.IncidentType `json:"incidentType"`
	Description  string             `json:"description" validate:"required"`
	Date         string             `json:"date" validate:"required,datetime=2006-01-02"`

	// Accepted is the advisory suggestion the reporter explicitly accepted, if any
	Accepted *Suggestion `json:"acceptedSuggestion,omitempty"`
}

// Validate trims the draft and checks required fields and the incident type
func (d *Draft) Validate() error {
	d.StudentName = strings.TrimSpace(d.StudentName)
	d.GradeSection = strings.TrimSpace(d.GradeSection)
	d.Description = strings.TrimSpace(d.Description)
	d.Date = strings.TrimSpace(d.Date)

	if err := validate.Struct(d); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		return goerr.New("required field is missing or malformed",
			goerr.T(ErrTagValidation),
			goerr.V("fields", fields),
			goerr.V("detail", err.Error()))
	}

	if d.IncidentType != "" && !d.IncidentType.IsValid() {
		return goerr.New("unknown incident type",
			goerr.T(ErrTagValidation),
			goerr.V("incidentType", d.IncidentType))
	}

	return nil
}

// ApplySuggestion accepts an advisory suggestion: the suggested free-text type
// is mapped onto the closed type set and its severity is used for the report.
func (d *Draft) ApplySuggestion(s *Suggestion) {
	if s == nil {
		return
	}
	d.IncidentType = types.MatchIncidentType(s.SuggestedType)
	d.Accepted = s
}

// NewIncident builds a new incident from a draft. An accepted suggestion
// overrides the draft's type and severity. The ID is left empty; it is
// assigned by the repository.
func NewIncident(d *Draft, reportedBy types.Role) (*Incident, error) {
	if d == nil {
		return nil, goerr.New("draft is nil", goerr.T(ErrTagValidation))
	}
	if d.Accepted != nil {
		d.ApplySuggestion(d.Accepted)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if !reportedBy.IsValid() {
		return nil, goerr.New("invalid reporting role", goerr.V("role", reportedBy))
	}

	incidentType := d.IncidentType
	if incidentType == "" {
		incidentType = types.IncidentTypeOther
	}

	severity := types.SeverityMedium
	if d.Accepted != nil {
		severity = types.NormalizeSeverity(d.Accepted.Severity.String())
	}

	return &Incident{
		StudentName:  d.StudentName,
		GradeSection: d.GradeSection,
		IncidentType: incidentType,
		Description:  d.Description,
		Date:         d.Date,
		Status:       types.IncidentStatusNew,
		Severity:     severity,
		ReportedBy:   reportedBy,
	}, nil
}

// IncidentPatch is a partial update of an incident. Nil fields are left untouched.
type IncidentPatch struct {
	Status         *types.IncidentStatus
	AdminNotes     *string
	TeacherRemarks *string
	GuidanceNotes  *string
}

// StatusPatch creates a patch that only changes the status
func StatusPatch(status types.IncidentStatus) IncidentPatch {
	return IncidentPatch{Status: &status}
}

// NotePatch creates a patch that only changes the given note field
func NotePatch(field types.NoteField, text string) (IncidentPatch, error) {
	switch field {
	case types.NoteFieldAdminNotes:
		return IncidentPatch{AdminNotes: &text}, nil
	case types.NoteFieldTeacherRemarks:
		return IncidentPatch{TeacherRemarks: &text}, nil
	case types.NoteFieldGuidanceNotes:
		return IncidentPatch{GuidanceNotes: &text}, nil
	default:
		return IncidentPatch{}, goerr.New("no writable note field",
			goerr.T(ErrTagNoWritableField),
			goerr.V("field", field))
	}
}

// IsEmpty reports whether the patch changes nothing
func (p IncidentPatch) IsEmpty() bool {
	return p.Status == nil && p.AdminNotes == nil && p.TeacherRemarks == nil && p.GuidanceNotes == nil
}

// ApplyTo writes the non-nil fields of the patch into the incident
func (p IncidentPatch) ApplyTo(i *Incident) {
	if p.Status != nil {
		i.Status = *p.Status
	}
	if p.AdminNotes != nil {
		i.AdminNotes = *p.AdminNotes
	}
	if p.TeacherRemarks != nil {
		i.TeacherRemarks = *p.TeacherRemarks
	}
	if p.GuidanceNotes != nil {
		i.GuidanceNotes = *p.GuidanceNotes
	}
}

// IncidentFilter narrows the safety log
type IncidentFilter struct {
	Query string             // case-insensitive substring of student name or description
	Type  types.IncidentType // exact match; empty means all types
}

// Matches reports whether the incident passes the filter
func (f IncidentFilter) Matches(i *Incident) bool {
	if f.Type != "" && i.IncidentType != f.Type {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(i.StudentName), q) ||
		strings.Contains(strings.ToLower(i.Description), q)
}

// IncidentList is the result of a safety log read
type IncidentList struct {
	Incidents []*Incident      `json:"incidents"`
	Source    types.DataSource `json:"source"`
}
