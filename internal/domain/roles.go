package domain

type Role string

const (
	// Regular member: can enroll in courses, post on the forum, join events.
	RoleUser Role = "user"
	// Mentor: everything a user can do, plus mentorship management.
	RoleMentor Role = "mentor"
	// Admin: platform moderation, role management, user management.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleMentor) || r == string(RoleAdmin)
}

// RoleRank: bigger => higher privilege.
func RoleRank(r string) int {
	switch r {
	case string(RoleUser):
		return 1
	case string(RoleMentor):
		return 2
	case string(RoleAdmin):
		return 3
	default:
		return 0
	}
}
