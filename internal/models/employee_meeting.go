package models

// EmployeeMeeting is the attendee join row; rows go away with the meeting.
type EmployeeMeeting struct {
	EmployeeID uint64 `gorm:"primarykey" json:"employee_id"`
	MeetingID  uint64 `gorm:"primarykey" json:"meeting_id"`
}
