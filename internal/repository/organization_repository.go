package repository

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/models"
	"gorm.io/gorm"
)

// OrganizationRepository specializes the generic repository for organizations
type OrganizationRepository struct {
	*Repository[models.Organization]
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{Repository: NewRepository[models.Organization](db, "Organization")}
}

// ListForUser lists the organizations a user is employed by
func (r *OrganizationRepository) ListForUser(ctx context.Context, userID uint64) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.DB(ctx).
		Joins("JOIN employees ON employees.organization_id = organizations.id").
		Where("employees.user_id = ?", userID).
		Order("organizations.id").
		Find(&orgs).Error
	if err != nil {
		return nil, r.translate(err)
	}
	return orgs, nil
}

// DeleteCascade deletes an organization and everything scoped beneath it.
// Callers run it inside a transaction.
func (r *OrganizationRepository) DeleteCascade(ctx context.Context, id uint64) error {
	db := r.DB(ctx)

	var employeeIDs, taskIDs, meetingIDs []uint64
	if err := db.Model(&models.Employee{}).Where("organization_id = ?", id).Pluck("id", &employeeIDs).Error; err != nil {
		return r.translate(err)
	}

	if len(employeeIDs) > 0 {
		if err := db.Model(&models.Task{}).
			Where("created_by IN ? OR assignee IN ?", employeeIDs, employeeIDs).
			Pluck("id", &taskIDs).Error; err != nil {
			return r.translate(err)
		}
		if err := db.Model(&models.Meeting{}).Where("created_by IN ?", employeeIDs).Pluck("id", &meetingIDs).Error; err != nil {
			return r.translate(err)
		}
	}

	if len(taskIDs) > 0 {
		if err := db.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return r.translate(err)
		}
		if err := db.Where("task_id IN ?", taskIDs).Delete(&models.Score{}).Error; err != nil {
			return r.translate(err)
		}
		if err := db.Where("id IN ?", taskIDs).Delete(&models.Task{}).Error; err != nil {
			return r.translate(err)
		}
	}

	if len(employeeIDs) > 0 {
		if err := db.Where("employee_id IN ?", employeeIDs).Delete(&models.EmployeeMeeting{}).Error; err != nil {
			return r.translate(err)
		}
	}
	if len(meetingIDs) > 0 {
		if err := db.Where("meeting_id IN ?", meetingIDs).Delete(&models.EmployeeMeeting{}).Error; err != nil {
			return r.translate(err)
		}
		if err := db.Where("id IN ?", meetingIDs).Delete(&models.Meeting{}).Error; err != nil {
			return r.translate(err)
		}
	}

	if err := db.Where("organization_id = ?", id).Delete(&models.Employee{}).Error; err != nil {
		return r.translate(err)
	}
	if err := db.Where("organization_id = ?", id).Delete(&models.Department{}).Error; err != nil {
		return r.translate(err)
	}

	return r.Delete(ctx, id)
}
