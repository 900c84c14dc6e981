package models

import "time"

type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "NEW"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the enumerated statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	Base
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedBy   uint64     `gorm:"not null;index" json:"created_by"`
	Assignee    uint64     `gorm:"not null;index" json:"assignee"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'NEW';index" json:"status"`
	Deadline    time.Time  `gorm:"not null" json:"deadline"`

	// Relations
	Author    Employee  `gorm:"foreignKey:CreatedBy" json:"-"`
	Performer Employee  `gorm:"foreignKey:Assignee" json:"-"`
	Score     *Score    `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"score,omitempty"`
	Comments  []Comment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}
