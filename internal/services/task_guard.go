package services

import (
	"fmt"

	"github.com/yukikurage/business-management-api/internal/constants"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
)

// CheckStatus rejects values outside the enumerated task statuses.
func CheckStatus(status models.TaskStatus) error {
	if !status.Valid() {
		return apierrors.NewInvalidData(fmt.Sprintf("Unknown task status %q", status))
	}
	return nil
}

func checkNotDone(task *models.Task) error {
	if task.Status == models.TaskStatusDone {
		return apierrors.NewPermissionDenied("The task is already completed")
	}
	return nil
}

// CanChangeStatus allows the task's creator or assignee to move a task that
// is not yet DONE.
func CanChangeStatus(task *models.Task, employee *models.Employee) error {
	if err := checkNotDone(task); err != nil {
		return err
	}
	if task.CreatedBy != employee.ID && task.Assignee != employee.ID {
		return apierrors.NewPermissionDenied("Only the task author or assignee can change its status")
	}
	return nil
}

// CanDelete allows only the creator to delete a task that is not yet DONE.
func CanDelete(task *models.Task, employee *models.Employee) error {
	if err := checkNotDone(task); err != nil {
		return err
	}
	if task.CreatedBy != employee.ID {
		return apierrors.NewPermissionDenied("Only the task author can delete it")
	}
	return nil
}

// CanScore allows only the creator to score a DONE task.
func CanScore(task *models.Task, employee *models.Employee) error {
	if task.Status != models.TaskStatusDone {
		return apierrors.NewPermissionDenied("Only completed tasks can be scored")
	}
	if task.CreatedBy != employee.ID {
		return apierrors.NewPermissionDenied("Only the task author can score it")
	}
	return nil
}

// CanAssign requires the assignee to share the manager's department and to
// hold a role that can execute work. Assignee must carry its Role.
func CanAssign(manager, assignee *models.Employee) error {
	if assignee.OrganizationID != manager.OrganizationID || !manager.SameDepartment(assignee) {
		return apierrors.NewPermissionDenied("The assignee isn't part of the department")
	}
	if assignee.Role.Name == models.RoleViewer {
		return apierrors.NewPermissionDenied("The assignee doesn't have permission to execute tasks")
	}
	return nil
}

// CanComment allows only employees whose department matches the author's or
// the assignee's department. Employees without a department match each
// other. Task must carry Author and Performer.
func CanComment(task *models.Task, employee *models.Employee) error {
	if employee.OrganizationID != task.Author.OrganizationID {
		return apierrors.NewPermissionDenied("No access rights to the specified task")
	}
	if sameDepartmentID(employee.DepartmentID, task.Author.DepartmentID) ||
		sameDepartmentID(employee.DepartmentID, task.Performer.DepartmentID) {
		return nil
	}
	return apierrors.NewPermissionDenied("No access rights to the specified task")
}

func sameDepartmentID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// InTime reports 1 when the task was last updated strictly before its
// deadline, 0 otherwise.
func InTime(task *models.Task) int {
	if task.UpdatedAt.Before(task.Deadline) {
		return 1
	}
	return 0
}

// CheckScoreValue enforces the rating range.
func CheckScoreValue(field string, value int) error {
	if value < constants.MinScoreValue || value > constants.MaxScoreValue {
		return apierrors.NewInvalidData(fmt.Sprintf("%s must be between %d and %d", field, constants.MinScoreValue, constants.MaxScoreValue))
	}
	return nil
}
