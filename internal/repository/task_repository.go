package repository

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/database"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/utils"
	"gorm.io/gorm"
)

// TaskRepository specializes the generic repository for tasks
type TaskRepository struct {
	*Repository[models.Task]
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{Repository: NewRepository[models.Task](db, "Task")}
}

// TaskFilter holds filtering options for listing an employee's tasks
type TaskFilter struct {
	// CreatedBy lists tasks the employee authored; otherwise tasks assigned to them.
	CreatedBy  bool
	EmployeeID uint64
	Status     *models.TaskStatus
}

// ListForEmployee retrieves tasks with filtering and pagination
func (r *TaskRepository) ListForEmployee(ctx context.Context, filter TaskFilter, params utils.ListParams) ([]models.Task, int64, error) {
	sortColumn, err := r.column(params.SortBy)
	if err != nil {
		return nil, 0, err
	}

	filtered := func() *gorm.DB {
		query := r.DB(ctx).Model(&models.Task{})
		if filter.CreatedBy {
			query = query.Where("created_by = ?", filter.EmployeeID)
		} else {
			query = query.Where("assignee = ?", filter.EmployeeID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, r.translate(err)
	}

	var tasks []models.Task
	err = filtered().
		Preload("Score").
		Scopes(database.Sort(sortColumn, params.Desc), database.Paginate(params)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, r.translate(err)
	}

	return tasks, total, nil
}

// DeleteWithChildren removes a task with its score and comments
func (r *TaskRepository) DeleteWithChildren(ctx context.Context, id uint64) error {
	db := r.DB(ctx)
	if err := db.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return r.translate(err)
	}
	if err := db.Where("task_id = ?", id).Delete(&models.Score{}).Error; err != nil {
		return r.translate(err)
	}
	return r.Delete(ctx, id)
}
