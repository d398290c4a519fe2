package repository

import (
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

// incidentRecord is the stored shape of an incident. Field names are snake_case
// on the wire while the domain model uses camelCase.
type incidentRecord struct {
	ID             string `firestore:"id" db:"id" json:"id"`
	StudentName    string `firestore:"student_name" db:"student_name" json:"student_name"`
	GradeSection   string `firestore:"grade_section" db:"grade_section" json:"grade_section"`
	IncidentType   string `firestore:"incident_type" db:"incident_type" json:"incident_type"`
	Description    string `firestore:"description" db:"description" json:"description"`
	Date           string `firestore:"date" db:"date" json:"date"`
	Status         string `firestore:"status" db:"status" json:"status"`
	Severity       string `firestore:"severity" db:"severity" json:"severity"`
	ReportedBy     string `firestore:"reported_by" db:"reported_by" json:"reported_by"`
	AdminNotes     string `firestore:"admin_notes" db:"admin_notes" json:"admin_notes"`
	TeacherRemarks string `firestore:"teacher_remarks" db:"teacher_remarks" json:"teacher_remarks"`
	GuidanceNotes  string `firestore:"guidance_notes" db:"guidance_notes" json:"guidance_notes"`
}

func newIncidentRecord(inc *model.Incident) *incidentRecord {
	return &incidentRecord{
		ID:             inc.ID.String(),
		StudentName:    inc.StudentName,
		GradeSection:   inc.GradeSection,
		IncidentType:   inc.IncidentType.String(),
		Description:    inc.Description,
		Date:           inc.Date,
		Status:         inc.Status.String(),
		Severity:       inc.Severity.String(),
		ReportedBy:     inc.ReportedBy.String(),
		AdminNotes:     inc.AdminNotes,
		TeacherRemarks: inc.TeacherRemarks,
		GuidanceNotes:  inc.GuidanceNotes,
	}
}

func (r *incidentRecord) toModel() *model.Incident {
	return &model.Incident{
		ID:             types.IncidentID(r.ID),
		StudentName:    r.StudentName,
		GradeSection:   r.GradeSection,
		IncidentType:   types.IncidentType(r.IncidentType),
		Description:    r.Description,
		Date:           r.Date,
		Status:         types.IncidentStatus(r.Status),
		Severity:       types.Severity(r.Severity),
		ReportedBy:     types.Role(r.ReportedBy),
		AdminNotes:     r.AdminNotes,
		TeacherRemarks: r.TeacherRemarks,
		GuidanceNotes:  r.GuidanceNotes,
	}
}

type fieldValue struct {
	name  string
	value string
}

// patchFields translates a patch into stored field names, in a fixed order
func patchFields(p model.IncidentPatch) []fieldValue {
	var fields []fieldValue
	if p.Status != nil {
		fields = append(fields, fieldValue{"status", p.Status.String()})
	}
	if p.AdminNotes != nil {
		fields = append(fields, fieldValue{"admin_notes", *p.AdminNotes})
	}
	if p.TeacherRemarks != nil {
		fields = append(fields, fieldValue{"teacher_remarks", *p.TeacherRemarks})
	}
	if p.GuidanceNotes != nil {
		fields = append(fields, fieldValue{"guidance_notes", *p.GuidanceNotes})
	}
	return fields
}
