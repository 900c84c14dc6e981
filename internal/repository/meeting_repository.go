package repository

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MeetingRepository persists meetings together with their attendee rows
type MeetingRepository struct {
	*Repository[models.Meeting]
}

// NewMeetingRepository creates a new MeetingRepository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{Repository: NewRepository[models.Meeting](db, "Meeting")}
}

// CreateWithEmployees inserts the meeting and its attendee rows.
func (r *MeetingRepository) CreateWithEmployees(ctx context.Context, meeting *models.Meeting, employees []models.Employee) error {
	if err := r.DB(ctx).Omit(clause.Associations).Create(meeting).Error; err != nil {
		return r.translate(err)
	}
	return r.attach(ctx, meeting, employees)
}

// ReplaceEmployees clears the attendee rows and attaches employees, so the
// roster never mixes old and new members.
func (r *MeetingRepository) ReplaceEmployees(ctx context.Context, meeting *models.Meeting, employees []models.Employee) error {
	if err := r.DB(ctx).Where("meeting_id = ?", meeting.ID).Delete(&models.EmployeeMeeting{}).Error; err != nil {
		return r.translate(err)
	}
	return r.attach(ctx, meeting, employees)
}

// DeleteWithEmployees removes the attendee rows and then the meeting.
func (r *MeetingRepository) DeleteWithEmployees(ctx context.Context, id uint64) error {
	if err := r.DB(ctx).Where("meeting_id = ?", id).Delete(&models.EmployeeMeeting{}).Error; err != nil {
		return r.translate(err)
	}
	return r.Delete(ctx, id)
}

// ListForDepartment lists meetings booked for a department, and meetings
// booked by or attended by its employees.
func (r *MeetingRepository) ListForDepartment(ctx context.Context, deptID uint64) ([]models.Meeting, error) {
	db := r.DB(ctx)
	members := db.Model(&models.Employee{}).Select("id").Where("department_id = ?", deptID)
	attended := r.DB(ctx).Model(&models.EmployeeMeeting{}).
		Select("employee_meetings.meeting_id").
		Joins("JOIN employees ON employees.id = employee_meetings.employee_id").
		Where("employees.department_id = ?", deptID)

	var meetings []models.Meeting
	err := r.DB(ctx).
		Where("meetings.department_id = ? OR meetings.created_by IN (?) OR meetings.id IN (?)", deptID, members, attended).
		Preload("Employees").
		Order("meetings.start_at").
		Find(&meetings).Error
	if err != nil {
		return nil, r.translate(err)
	}
	return meetings, nil
}

func (r *MeetingRepository) attach(ctx context.Context, meeting *models.Meeting, employees []models.Employee) error {
	if len(employees) == 0 {
		meeting.Employees = []models.Employee{}
		return nil
	}
	rows := make([]models.EmployeeMeeting, len(employees))
	for i, emp := range employees {
		rows[i] = models.EmployeeMeeting{EmployeeID: emp.ID, MeetingID: meeting.ID}
	}
	if err := r.DB(ctx).Create(&rows).Error; err != nil {
		return r.translate(err)
	}
	meeting.Employees = employees
	return nil
}
