package models

import "time"

// Base holds the primary key and timestamps shared by every table.
type Base struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRef marks the user who created the row.
type UserRef struct {
	UserID uint64 `gorm:"not null;index" json:"user_id"`
}

// OrganizationRef ties a row to its tenant.
type OrganizationRef struct {
	OrganizationID uint64 `gorm:"not null;index" json:"organization_id"`
}

// DepartmentRef is nullable: an employee may belong to an organization
// without a department.
type DepartmentRef struct {
	DepartmentID *uint64 `gorm:"index" json:"department_id"`
}

type RoleRef struct {
	RoleID uint64 `gorm:"not null;index" json:"role_id"`
}

// TaskRef is used by rows hanging off a task.
type TaskRef struct {
	TaskID uint64 `gorm:"not null;index" json:"task_id"`
}
