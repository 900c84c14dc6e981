package services

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/access"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/metrics"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/repository"
	"go.uber.org/zap"
)

// MeetingService books department meetings for managers.
type MeetingService struct {
	repos *repository.Repositories
	log   *zap.Logger
}

func NewMeetingService(repos *repository.Repositories, log *zap.Logger) *MeetingService {
	return &MeetingService{repos: repos, log: log}
}

// MeetingInput describes a booking request scoped to a department.
type MeetingInput struct {
	OrganizationID uint64
	DepartmentID   uint64
	Description    string
	Window         Window
	EmployeeIDs    []uint64
}

// Booking is a persisted meeting plus the candidates left out because they
// were busy.
type Booking struct {
	Meeting  *models.Meeting
	Occupied []models.Employee
}

// Book creates a meeting with every available candidate.
func (s *MeetingService) Book(ctx context.Context, user *models.User, input MeetingInput) (*Booking, error) {
	if err := input.Window.Validate(); err != nil {
		return nil, err
	}

	var booking *Booking
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		manager, err := s.manager(ctx, tx, user, input.OrganizationID, input.DepartmentID)
		if err != nil {
			return err
		}

		candidates, err := tx.Employees.LockForBooking(ctx, uniqueIDs(input.EmployeeIDs))
		if err != nil {
			return err
		}
		available, occupied := ResolveAttendees(manager, candidates, input.Window)

		meeting := &models.Meeting{
			CreatedBy:    manager.ID,
			DepartmentID: input.DepartmentID,
			Description:  input.Description,
			StartAt:      input.Window.Start,
			EndAt:        input.Window.End,
		}
		if err := tx.Meetings.CreateWithEmployees(ctx, meeting, available); err != nil {
			return err
		}
		booking = &Booking{Meeting: meeting, Occupied: occupied}
		return nil
	})
	if err != nil {
		metrics.ObserveMeetingBooking("rejected", 0)
		return nil, err
	}

	metrics.ObserveMeetingBooking("booked", len(booking.Occupied))
	s.log.Info("meeting booked",
		zap.Uint64("meeting_id", booking.Meeting.ID),
		zap.Int("attendees", len(booking.Meeting.Employees)),
		zap.Int("occupied", len(booking.Occupied)),
	)
	return booking, nil
}

// Update reschedules a meeting and replaces its roster. Only the creator may
// update it.
func (s *MeetingService) Update(ctx context.Context, user *models.User, meetingID uint64, input MeetingInput) (*Booking, error) {
	if err := input.Window.Validate(); err != nil {
		return nil, err
	}

	var booking *Booking
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		manager, err := s.manager(ctx, tx, user, input.OrganizationID, input.DepartmentID)
		if err != nil {
			return err
		}
		if _, err := s.owned(ctx, tx, manager, input.DepartmentID, meetingID); err != nil {
			return err
		}

		candidates, err := tx.Employees.LockForBooking(ctx, uniqueIDs(input.EmployeeIDs))
		if err != nil {
			return err
		}
		available, occupied := ResolveAttendees(manager, withoutMeeting(candidates, meetingID), input.Window)

		meeting, err := tx.Meetings.Update(ctx, meetingID, map[string]interface{}{
			"description": input.Description,
			"start_at":    input.Window.Start,
			"end_at":      input.Window.End,
		})
		if err != nil {
			return err
		}
		if err := tx.Meetings.ReplaceEmployees(ctx, meeting, available); err != nil {
			return err
		}
		booking = &Booking{Meeting: meeting, Occupied: occupied}
		return nil
	})
	if err != nil {
		metrics.ObserveMeetingBooking("rejected", 0)
		return nil, err
	}

	metrics.ObserveMeetingBooking("rescheduled", len(booking.Occupied))
	return booking, nil
}

// Cancel deletes a meeting together with its attendee rows.
func (s *MeetingService) Cancel(ctx context.Context, user *models.User, orgID, deptID, meetingID uint64) error {
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		manager, err := s.manager(ctx, tx, user, orgID, deptID)
		if err != nil {
			return err
		}
		if _, err := s.owned(ctx, tx, manager, deptID, meetingID); err != nil {
			return err
		}
		return tx.Meetings.DeleteWithEmployees(ctx, meetingID)
	})
}

// List returns the meetings booked within a department.
func (s *MeetingService) List(ctx context.Context, user *models.User, orgID, deptID uint64) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := departmentIn(ctx, tx, orgID, deptID); err != nil {
			return err
		}
		employee, err := employeeIn(ctx, tx, user, orgID, nil)
		if err != nil {
			return err
		}
		if err := access.CanAccessDepartment(employee, orgID, deptID); err != nil {
			return err
		}
		meetings, err = tx.Meetings.ListForDepartment(ctx, deptID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// manager resolves the caller as a manager attached to the department.
func (s *MeetingService) manager(ctx context.Context, tx *repository.Repositories, user *models.User, orgID, deptID uint64) (*models.Employee, error) {
	if _, err := departmentIn(ctx, tx, orgID, deptID); err != nil {
		return nil, err
	}
	manager, err := employeeIn(ctx, tx, user, orgID, access.ManagerPermissions)
	if err != nil {
		return nil, err
	}
	if err := access.CanAccessDepartment(manager, orgID, deptID); err != nil {
		return nil, err
	}
	return manager, nil
}

// owned loads a meeting of deptID created by manager. A meeting booked for
// another department is reported as missing.
func (s *MeetingService) owned(ctx context.Context, tx *repository.Repositories, manager *models.Employee, deptID, meetingID uint64) (*models.Meeting, error) {
	meeting, err := tx.Meetings.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.DepartmentID != deptID {
		return nil, apierrors.NewNotFound("Meeting")
	}
	if meeting.CreatedBy != manager.ID {
		return nil, apierrors.NewPermissionDenied("Only the meeting creator can update the data")
	}
	return meeting, nil
}
