package models

// Employee binds a user to an organization, optionally a department, and a role.
type Employee struct {
	Base
	DepartmentRef
	RoleRef
	OrganizationID uint64 `gorm:"not null;uniqueIndex:idx_employees_organization_user" json:"organization_id"`
	UserID         uint64 `gorm:"not null;uniqueIndex:idx_employees_organization_user" json:"user_id"`

	// Relations
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role     Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Meetings []Meeting `gorm:"many2many:employee_meetings;constraint:OnDelete:CASCADE" json:"-"`
}

// InDepartment reports whether the employee is attached to deptID. A nil
// department never matches.
func (e *Employee) InDepartment(deptID *uint64) bool {
	if e.DepartmentID == nil || deptID == nil {
		return false
	}
	return *e.DepartmentID == *deptID
}

// SameDepartment reports whether both employees share a non-nil department.
func (e *Employee) SameDepartment(other *Employee) bool {
	return e.InDepartment(other.DepartmentID)
}
