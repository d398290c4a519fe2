// Package policy decides what each role may see and do. All functions are
// pure and total over the four roles.
package policy

import "github.com/secmon-lab/buddyguard/pkg/domain/types"

// VisibleNav returns the navigation destinations available to a role, in display order
func VisibleNav(role types.Role) []types.Destination {
	switch role {
	case types.RoleAdmin:
		return []types.Destination{
			types.DestinationDashboard,
			types.DestinationSafetyLog,
			types.DestinationSubmitReport,
			types.DestinationUsers,
		}
	case types.RoleTeacher, types.RoleGuidance:
		return []types.Destination{
			types.DestinationDashboard,
			types.DestinationSafetyLog,
			types.DestinationSubmitReport,
		}
	case types.RoleAnonymous:
		return []types.Destination{types.DestinationSubmitReport}
	default:
		return nil
	}
}

// CanNavigate reports whether the destination is visible to the role
func CanNavigate(role types.Role, dest types.Destination) bool {
	for _, d := range VisibleNav(role) {
		if d == dest {
			return true
		}
	}
	return false
}

// VisiblePanels returns the dashboard panels visible to a role
func VisiblePanels(role types.Role) []types.Panel {
	switch role {
	case types.RoleAdmin, types.RoleGuidance:
		return []types.Panel{types.PanelSummary, types.PanelCategoryChart, types.PanelGradeChart}
	case types.RoleTeacher:
		return []types.Panel{types.PanelSummary}
	default:
		return nil
	}
}

// ShowsCharts reports whether the breakdown charts are visible to the role
func ShowsCharts(role types.Role) bool {
	for _, p := range VisiblePanels(role) {
		if p == types.PanelCategoryChart || p == types.PanelGradeChart {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the target statuses a role may set.
// The current status of the incident plays no part.
func AllowedTransitions(role types.Role) []types.IncidentStatus {
	switch role {
	case types.RoleAdmin:
		return []types.IncidentStatus{
			types.IncidentStatusResolved,
			types.IncidentStatusUnderCounseling,
			types.IncidentStatusActionTaken,
		}
	case types.RoleGuidance:
		return []types.IncidentStatus{
			types.IncidentStatusUnderCounseling,
			types.IncidentStatusActionTaken,
		}
	case types.RoleTeacher:
		return []types.IncidentStatus{types.IncidentStatusActionTaken}
	default:
		return nil
	}
}

// CanTransition reports whether the role may move an incident to target
func CanTransition(role types.Role, _ types.IncidentStatus, target types.IncidentStatus) bool {
	for _, s := range AllowedTransitions(role) {
		if s == target {
			return true
		}
	}
	return false
}

// NoteFieldFor returns the single note field a role owns
func NoteFieldFor(role types.Role) types.NoteField {
	switch role {
	case types.RoleAdmin:
		return types.NoteFieldAdminNotes
	case types.RoleTeacher:
		return types.NoteFieldTeacherRemarks
	case types.RoleGuidance:
		return types.NoteFieldGuidanceNotes
	default:
		return types.NoteFieldNone
	}
}

// CanManageProfiles reports whether the role may administer staff profiles
func CanManageProfiles(role types.Role) bool {
	return role == types.RoleAdmin
}

// CanViewIncidents reports whether the role may read the safety log
func CanViewIncidents(role types.Role) bool {
	return CanNavigate(role, types.DestinationSafetyLog)
}

// CanViewDashboard reports whether the role may read dashboard figures
func CanViewDashboard(role types.Role) bool {
	return CanNavigate(role, types.DestinationDashboard)
}
