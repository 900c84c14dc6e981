package repository

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeRepository specializes the generic repository for employees
type EmployeeRepository struct {
	*Repository[models.Employee]
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{Repository: NewRepository[models.Employee](db, "Employee")}
}

// FindByUserAndOrganization loads the user's employment in one organization
// with everything the authorization checks read.
func (r *EmployeeRepository) FindByUserAndOrganization(ctx context.Context, userID, organizationID uint64) (*models.Employee, error) {
	return r.FindOne(ctx,
		Filter{"user_id": userID, "organization_id": organizationID},
		"Role", "Role.Permissions",
	)
}

// ListByUser lists every employment of a user
func (r *EmployeeRepository) ListByUser(ctx context.Context, userID uint64) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.DB(ctx).Where("user_id = ?", userID).Order("id").Find(&employees).Error; err != nil {
		return nil, r.translate(err)
	}
	return employees, nil
}

// LockForBooking loads candidate attendees with their meetings. On databases
// that support it the rows are locked until the surrounding transaction ends,
// which serializes concurrent bookings touching the same employee.
func (r *EmployeeRepository) LockForBooking(ctx context.Context, ids []uint64) ([]models.Employee, error) {
	if len(ids) == 0 {
		return []models.Employee{}, nil
	}
	var employees []models.Employee
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Role").
		Preload("Meetings").
		Where("id IN ?", ids).
		Order("id").
		Find(&employees).Error
	if err != nil {
		return nil, r.translate(err)
	}
	return employees, nil
}

// DetachDepartment clears the department of every employee in deptID
func (r *EmployeeRepository) DetachDepartment(ctx context.Context, deptID uint64) error {
	err := r.DB(ctx).Model(&models.Employee{}).
		Where("department_id = ?", deptID).
		Update("department_id", nil).Error
	return r.translate(err)
}
