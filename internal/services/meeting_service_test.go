package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
)

var tenAM = time.Date(2030, time.March, 4, 10, 0, 0, 0, time.UTC)

func window(start, end time.Duration) Window {
	return Window{Start: tenAM.Add(start), End: tenAM.Add(end)}
}

func deptPtr(id uint64) *uint64 { return &id }

func candidate(id, deptID uint64, meetings ...Window) models.Employee {
	emp := models.Employee{
		Base:           models.Base{ID: id},
		DepartmentRef:  models.DepartmentRef{DepartmentID: deptPtr(deptID)},
		OrganizationID: 1,
	}
	for i, w := range meetings {
		emp.Meetings = append(emp.Meetings, models.Meeting{
			Base:    models.Base{ID: uint64(100 + i)},
			StartAt: w.Start,
			EndAt:   w.End,
		})
	}
	return emp
}

func ids(employees []models.Employee) []uint64 {
	out := make([]uint64, len(employees))
	for i, e := range employees {
		out[i] = e.ID
	}
	return out
}

func TestResolveAttendees_HalfOpenOverlap(t *testing.T) {
	manager := candidate(1, 7)
	manager.Role = models.Role{Name: models.RoleOwner}
	busy := candidate(2, 7, window(0, time.Hour)) // 10:00-11:00

	cases := []struct {
		name      string
		w         Window
		available bool
	}{
		{"overlapping start", window(30*time.Minute, 90*time.Minute), false},
		{"touching end", window(time.Hour, 2*time.Hour), true},
		{"touching start", window(-time.Hour, 0), true},
		{"enclosing", window(-time.Hour, 2*time.Hour), false},
		{"enclosed", window(15*time.Minute, 45*time.Minute), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			available, conflicted := ResolveAttendees(&manager, []models.Employee{busy}, tc.w)
			if tc.available {
				assert.Equal(t, []uint64{2}, ids(available))
				assert.Empty(t, conflicted)
			} else {
				assert.Empty(t, available)
				assert.Equal(t, []uint64{2}, ids(conflicted))
			}
		})
	}
}

func TestResolveAttendees_Scope(t *testing.T) {
	manager := candidate(1, 7)
	manager.Role = models.Role{Name: models.RoleOwner}
	colleague := candidate(2, 7)
	otherDept := candidate(3, 8)
	otherOrg := candidate(4, 7)
	otherOrg.OrganizationID = 2

	all := []models.Employee{colleague, otherDept, otherOrg}

	available, conflicted := ResolveAttendees(&manager, all, window(0, time.Hour))
	assert.Equal(t, []uint64{2}, ids(available))
	assert.NotNil(t, conflicted)
	assert.Empty(t, conflicted)

	manager.Role = models.Role{Name: models.RoleAdmin}
	available, _ = ResolveAttendees(&manager, all, window(0, time.Hour))
	assert.Equal(t, []uint64{2, 3}, ids(available), "admins book across departments, never across organizations")
}

func TestResolveAttendees_NoCandidates(t *testing.T) {
	manager := candidate(1, 7)
	available, conflicted := ResolveAttendees(&manager, nil, window(0, time.Hour))
	assert.NotNil(t, available)
	assert.NotNil(t, conflicted)
	assert.Empty(t, available)
	assert.Empty(t, conflicted)
}

func TestWindow_Validate(t *testing.T) {
	assert.NoError(t, window(0, time.Minute).Validate())
	assert.ErrorIs(t, window(time.Hour, 0).Validate(), apierrors.ErrInvalidData)
	assert.ErrorIs(t, window(0, 0).Validate(), apierrors.ErrInvalidData)
	assert.ErrorIs(t, Window{End: tenAM}.Validate(), apierrors.ErrInvalidData)
}

func (e *env) book(user *models.User, w Window, employees ...uint64) (*Booking, error) {
	return e.meetingService().Book(e.ctx, user, MeetingInput{
		OrganizationID: e.org.ID,
		DepartmentID:   e.engineering.ID,
		Description:    "sync",
		Window:         w,
		EmployeeIDs:    employees,
	})
}

func TestMeeting_BookSkipsBusyEmployees(t *testing.T) {
	e := newEnv(t)

	first, err := e.book(e.managerUser, window(0, time.Hour), e.worker.ID, e.seller.ID, 9999)
	require.NoError(t, err)
	assert.Equal(t, []uint64{e.worker.ID}, ids(first.Meeting.Employees), "other departments and unknown ids are dropped")
	assert.Empty(t, first.Occupied)

	second, err := e.book(e.managerUser, window(30*time.Minute, 90*time.Minute), e.worker.ID)
	require.NoError(t, err)
	assert.Empty(t, second.Meeting.Employees)
	assert.Equal(t, []uint64{e.worker.ID}, ids(second.Occupied))

	third, err := e.book(e.managerUser, window(time.Hour, 2*time.Hour), e.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{e.worker.ID}, ids(third.Meeting.Employees))
	assert.Empty(t, third.Occupied)

	assert.Equal(t, int64(3), e.count(&models.Meeting{}))
	assert.Equal(t, int64(2), e.count(&models.EmployeeMeeting{}))
}

func TestMeeting_BookRequiresManagerInDepartment(t *testing.T) {
	e := newEnv(t)

	_, err := e.book(e.workerUser, window(0, time.Hour))
	assert.ErrorIs(t, err, apierrors.ErrPermissionDenied)

	salesManager, _ := e.newMember("sales-manager", e.sales, models.RoleOwner)
	_, err = e.book(salesManager, window(0, time.Hour))
	assert.ErrorIs(t, err, apierrors.ErrPermissionDenied)

	_, err = e.book(e.managerUser, window(time.Hour, 0))
	assert.ErrorIs(t, err, apierrors.ErrInvalidData)
	assert.Zero(t, e.count(&models.Meeting{}))
}

func TestMeeting_AdminBooksAcrossDepartments(t *testing.T) {
	e := newEnv(t)

	booking, err := e.book(e.admin, window(0, time.Hour), e.worker.ID, e.seller.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{e.worker.ID, e.seller.ID}, ids(booking.Meeting.Employees))
}

func TestMeeting_UpdateReplacesRoster(t *testing.T) {
	e := newEnv(t)
	_, colleague := e.newMember("colleague", e.engineering, models.RoleContributor)

	booking, err := e.book(e.managerUser, window(0, time.Hour), e.worker.ID)
	require.NoError(t, err)

	// Moving the meeting within its own slot must not conflict with itself.
	updated, err := e.meetingService().Update(e.ctx, e.managerUser, booking.Meeting.ID, MeetingInput{
		OrganizationID: e.org.ID,
		DepartmentID:   e.engineering.ID,
		Description:    "moved",
		Window:         window(30*time.Minute, 90*time.Minute),
		EmployeeIDs:    []uint64{e.worker.ID, colleague.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "moved", updated.Meeting.Description)
	assert.ElementsMatch(t, []uint64{e.worker.ID, colleague.ID}, ids(updated.Meeting.Employees))
	assert.Empty(t, updated.Occupied)

	var rows []models.EmployeeMeeting
	require.NoError(t, e.db.Where("meeting_id = ?", booking.Meeting.ID).Find(&rows).Error)
	assert.Len(t, rows, 2)
}

func TestMeeting_OnlyCreatorUpdatesOrCancels(t *testing.T) {
	e := newEnv(t)
	deputy, _ := e.newMember("deputy", e.engineering, models.RoleOwner)

	booking, err := e.book(e.managerUser, window(0, time.Hour), e.worker.ID)
	require.NoError(t, err)

	err = e.meetingService().Cancel(e.ctx, deputy, e.org.ID, e.engineering.ID, booking.Meeting.ID)
	require.ErrorIs(t, err, apierrors.ErrPermissionDenied)
	var domainErr *apierrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "Only the meeting creator can update the data", domainErr.Description)

	_, err = e.meetingService().Update(e.ctx, deputy, booking.Meeting.ID, MeetingInput{
		OrganizationID: e.org.ID,
		DepartmentID:   e.engineering.ID,
		Window:         window(0, time.Hour),
	})
	assert.ErrorIs(t, err, apierrors.ErrPermissionDenied)

	require.NoError(t, e.meetingService().Cancel(e.ctx, e.managerUser, e.org.ID, e.engineering.ID, booking.Meeting.ID))
	assert.Zero(t, e.count(&models.Meeting{}))
	assert.Zero(t, e.count(&models.EmployeeMeeting{}))

	err = e.meetingService().Cancel(e.ctx, e.managerUser, e.org.ID, e.engineering.ID, booking.Meeting.ID)
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestMeeting_List(t *testing.T) {
	e := newEnv(t)
	_, err := e.book(e.managerUser, window(time.Hour, 2*time.Hour), e.worker.ID)
	require.NoError(t, err)
	_, err = e.book(e.managerUser, window(0, time.Hour))
	require.NoError(t, err)

	meetings, err := e.meetingService().List(e.ctx, e.workerUser, e.org.ID, e.engineering.ID)
	require.NoError(t, err)
	require.Len(t, meetings, 2)
	assert.True(t, meetings[0].StartAt.Before(meetings[1].StartAt))

	_, err = e.meetingService().List(e.ctx, e.sellerUser, e.org.ID, e.engineering.ID)
	assert.ErrorIs(t, err, apierrors.ErrPermissionDenied)

	meetings, err = e.meetingService().List(e.ctx, e.sellerUser, e.org.ID, e.sales.ID)
	require.NoError(t, err)
	assert.Empty(t, meetings)
}

func TestMeeting_ManagedOnlyThroughItsDepartment(t *testing.T) {
	e := newEnv(t)

	booking, err := e.book(e.admin, window(0, time.Hour), e.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, e.engineering.ID, booking.Meeting.DepartmentID)

	_, err = e.meetingService().Update(e.ctx, e.admin, booking.Meeting.ID, MeetingInput{
		OrganizationID: e.org.ID,
		DepartmentID:   e.sales.ID,
		Window:         window(time.Hour, 2*time.Hour),
	})
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	err = e.meetingService().Cancel(e.ctx, e.admin, e.org.ID, e.sales.ID, booking.Meeting.ID)
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
	assert.Equal(t, int64(1), e.count(&models.Meeting{}))

	meetings, err := e.meetingService().List(e.ctx, e.admin, e.org.ID, e.engineering.ID)
	require.NoError(t, err)
	require.Len(t, meetings, 1)

	require.NoError(t, e.meetingService().Cancel(e.ctx, e.admin, e.org.ID, e.engineering.ID, booking.Meeting.ID))
	assert.Zero(t, e.count(&models.Meeting{}))
}
