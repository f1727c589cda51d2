package auth

import "github.com/campusworks/college-portal/internal/domain"

// Action names a protected operation.
type Action string

const (
	ActionViewProfile        Action = "view_profile"
	ActionViewAdminDashboard Action = "view_admin_dashboard"
	ActionCreateUser         Action = "create_user"
	ActionListUsers          Action = "list_users"
	ActionUpdateUserRole     Action = "update_user_role"
	ActionCreateCourse       Action = "create_course"
	ActionViewCourses        Action = "view_courses"
	ActionUpdateCourse       Action = "update_course"
	ActionDeleteCourse       Action = "delete_course"
	ActionSubmitAttendance   Action = "submit_attendance"
	ActionViewOwnAttendance  Action = "view_own_attendance"
	ActionSubmitGrade        Action = "submit_grade"
	ActionViewOwnGrades      Action = "view_own_grades"
)

var everyone = NewRoleSet(domain.RoleStudent, domain.RoleTeacher, domain.RoleHOD, domain.RoleSuperuser)

// AllowedRoles returns the roles declared for a. Undeclared actions allow nobody.
func (a Action) AllowedRoles() RoleSet {
	switch a {
	case ActionViewProfile, ActionViewCourses, ActionViewOwnAttendance:
		return everyone
	case ActionViewAdminDashboard, ActionCreateUser, ActionListUsers, ActionUpdateUserRole:
		return NewRoleSet(domain.RoleSuperuser)
	case ActionCreateCourse, ActionUpdateCourse:
		return NewRoleSet(domain.RoleHOD, domain.RoleSuperuser)
	case ActionDeleteCourse:
		return NewRoleSet(domain.RoleSuperuser)
	case ActionSubmitAttendance, ActionSubmitGrade:
		return NewRoleSet(domain.RoleTeacher)
	case ActionViewOwnGrades:
		return NewRoleSet(domain.RoleStudent)
	default:
		return 0
	}
}
