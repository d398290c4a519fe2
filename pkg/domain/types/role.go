package types

import "github.com/m-mizutani/goerr/v2"

// Role represents the role chosen when a session opens
type Role string

const (
	RoleAnonymous Role = "Anonymous"
	RoleAdmin     Role = "Admin"
	RoleTeacher   Role = "Teacher"
	RoleGuidance  Role = "Guidance"
)

// AllRoles lists every role in display order
var AllRoles = []Role{RoleAnonymous, RoleTeacher, RoleGuidance, RoleAdmin}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAnonymous, RoleAdmin, RoleTeacher, RoleGuidance:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role can be held by a persisted staff profile.
// Anonymous is never persisted.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleGuidance:
		return true
	case RoleAnonymous:
		return false
	default:
		return false
	}
}

// ParseRole converts a display value into a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", goerr.New("unknown role", goerr.V("role", s))
	}
	return r, nil
}

// Destination is a navigation target of the dashboard
type Destination string

const (
	DestinationDashboard    Destination = "dashboard"
	DestinationSafetyLog    Destination = "safety-log"
	DestinationSubmitReport Destination = "submit-report"
	DestinationUsers        Destination = "users"
)

// Panel is a dashboard panel that may be hidden per role
type Panel string

const (
	PanelSummary       Panel = "summary"
	PanelCategoryChart Panel = "category-chart"
	PanelGradeChart    Panel = "grade-chart"
)

// NoteField identifies one of the three role-owned note fields of an incident
type NoteField string

const (
	NoteFieldNone           NoteField = ""
	NoteFieldAdminNotes     NoteField = "adminNotes"
	NoteFieldTeacherRemarks NoteField = "teacherRemarks"
	NoteFieldGuidanceNotes  NoteField = "guidanceNotes"
)

// String returns the string representation of the note field
func (f NoteField) String() string {
	return string(f)
}
