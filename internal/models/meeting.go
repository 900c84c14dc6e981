package models

import "time"

type Meeting struct {
	Base
	CreatedBy    uint64    `gorm:"not null;index" json:"created_by"`
	DepartmentID uint64    `gorm:"not null;index" json:"department_id"`
	Description  string    `gorm:"type:text" json:"description"`
	StartAt      time.Time `gorm:"not null;index" json:"start_at"`
	EndAt        time.Time `gorm:"not null" json:"end_at"`

	// Relations
	Creator   Employee   `gorm:"foreignKey:CreatedBy" json:"-"`
	Employees []Employee `gorm:"many2many:employee_meetings;constraint:OnDelete:CASCADE" json:"employees"`
}

// Overlaps reports whether the meeting window intersects [start, end).
// Windows that only touch at a boundary do not overlap.
func (m *Meeting) Overlaps(start, end time.Time) bool {
	return m.StartAt.Before(end) && start.Before(m.EndAt)
}
