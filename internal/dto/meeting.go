package dto

import (
	"time"

	"github.com/yukikurage/business-management-api/internal/models"
)

type MeetingDTO struct {
	ID           uint64        `json:"id"`
	CreatedBy    uint64        `json:"created_by"`
	DepartmentID uint64        `json:"department_id"`
	Description  string        `json:"description"`
	StartAt      time.Time     `json:"start_at"`
	EndAt        time.Time     `json:"end_at"`
	Employees    []EmployeeDTO `json:"employees"`
}

// BookingDTO is the response to a booking or reschedule. Occupied lists the
// requested employees left out because of an overlapping meeting.
type BookingDTO struct {
	MeetingDTO
	Occupied []EmployeeDTO `json:"occupied_employees"`
}

func ToMeetingDTO(meeting models.Meeting) MeetingDTO {
	return MeetingDTO{
		ID:           meeting.ID,
		CreatedBy:    meeting.CreatedBy,
		DepartmentID: meeting.DepartmentID,
		Description:  meeting.Description,
		StartAt:      meeting.StartAt,
		EndAt:        meeting.EndAt,
		Employees:    toEmployeeDTOs(meeting.Employees),
	}
}

func ToBookingDTO(meeting models.Meeting, occupied []models.Employee) BookingDTO {
	return BookingDTO{
		MeetingDTO: ToMeetingDTO(meeting),
		Occupied:   toEmployeeDTOs(occupied),
	}
}
