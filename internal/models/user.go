package models

type UserRole string

const (
	RoleSuperAdmin     UserRole = "super_admin"
	RoleHR             UserRole = "hr"
	RoleProjectManager UserRole = "project_manager"
	RoleEmployee       UserRole = "employee"
)

// ValidRole: роли, которые вообще существуют в системе.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleSuperAdmin, RoleHR, RoleProjectManager, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	Model
	Username     string   `gorm:"uniqueIndex;size:50;not null" json:"username"`
	FullName     string   `gorm:"size:255" json:"full_name"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
}
