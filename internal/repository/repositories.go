package repository

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/models"
	"gorm.io/gorm"
)

// Repositories bundles every entity repository over one connection or
// transaction handle.
type Repositories struct {
	db *gorm.DB

	Users         *UserRepository
	Roles         *RoleRepository
	Organizations *OrganizationRepository
	Departments   *Repository[models.Department]
	Employees     *EmployeeRepository
	Meetings      *MeetingRepository
	Tasks         *TaskRepository
	Scores        *ScoreRepository
	Comments      *Repository[models.Comment]
}

// New creates the repository bundle over db
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		Users:         NewUserRepository(db),
		Roles:         NewRoleRepository(db),
		Organizations: NewOrganizationRepository(db),
		Departments:   NewRepository[models.Department](db, "Department"),
		Employees:     NewEmployeeRepository(db),
		Meetings:      NewMeetingRepository(db),
		Tasks:         NewTaskRepository(db),
		Scores:        NewScoreRepository(db),
		Comments:      NewRepository[models.Comment](db, "Comment"),
	}
}

// Transaction runs fn with a bundle bound to one transaction. The transaction
// commits when fn returns nil and rolls back on any error or panic.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
