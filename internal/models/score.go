package models

type Score struct {
	Base
	TaskID     uint64 `gorm:"not null;uniqueIndex" json:"task_id"`
	EmployeeID uint64 `gorm:"not null;index" json:"employee_id"`
	InTime     int    `gorm:"not null" json:"in_time"`
	Integrity  int    `gorm:"not null" json:"integrity"`
	Quality    int    `gorm:"not null" json:"quality"`
}

// Total is the sum the user score report averages over.
func (s Score) Total() int {
	return s.InTime + s.Integrity + s.Quality
}
