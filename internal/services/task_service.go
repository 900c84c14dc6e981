package services

import (
	"context"
	"strings"
	"time"

	"github.com/yukikurage/business-management-api/internal/access"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/metrics"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/repository"
	"github.com/yukikurage/business-management-api/internal/utils"
	"go.uber.org/zap"
)

// TaskService handles task business logic
type TaskService struct {
	repos *repository.Repositories
	log   *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(repos *repository.Repositories, log *zap.Logger) *TaskService {
	return &TaskService{repos: repos, log: log}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OrganizationID uint64
	Name           string
	Description    string
	Assignee       uint64
	Deadline       time.Time
}

// ScoreInput carries the manager's ratings.
type ScoreInput struct {
	Integrity int
	Quality   int
}

// UserTasksInput filters the caller's own task list.
type UserTasksInput struct {
	OrganizationID *uint64
	Status         *models.TaskStatus
	Params         utils.ListParams
}

// ScoreReport summarizes the scores an employee received.
type ScoreReport struct {
	EmployeeID uint64         `json:"employee_id"`
	Average    float64        `json:"average"`
	Scores     []models.Score `json:"scores"`
}

// Create creates a task in state NEW. The caller needs manager permissions
// and the assignee must be an executing member of the caller's department.
func (s *TaskService) Create(ctx context.Context, user *models.User, input CreateTaskInput) (*models.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierrors.NewInvalidData("Name is required")
	}
	if input.Deadline.IsZero() {
		return nil, apierrors.NewInvalidData("Deadline is required")
	}

	task := &models.Task{
		Name:        name,
		Description: input.Description,
		Assignee:    input.Assignee,
		Status:      models.TaskStatusNew,
		Deadline:    input.Deadline,
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		manager, err := employeeIn(ctx, tx, user, input.OrganizationID, access.ManagerPermissions)
		if err != nil {
			return err
		}
		assignee, err := tx.Employees.Get(ctx, input.Assignee, "Role")
		if err != nil {
			return err
		}
		if err := CanAssign(manager, assignee); err != nil {
			return err
		}
		task.CreatedBy = manager.ID
		return tx.Tasks.Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("task created", zap.Uint64("task_id", task.ID), zap.Uint64("assignee", task.Assignee))
	return task, nil
}

// Get returns a task to an employee allowed to collaborate on it.
func (s *TaskService) Get(ctx context.Context, user *models.User, taskID uint64) (*models.Task, error) {
	var task *models.Task
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		task, _, err = s.collaborator(ctx, tx, user, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateStatus moves a task to any enumerated status. DONE is terminal.
func (s *TaskService) UpdateStatus(ctx context.Context, user *models.User, taskID uint64, status models.TaskStatus) (*models.Task, error) {
	var task *models.Task
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		current, err := loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if err := checkNotDone(current); err != nil {
			return err
		}
		if err := CheckStatus(status); err != nil {
			return err
		}
		employee, err := employeeIn(ctx, tx, user, current.Author.OrganizationID, access.ContributorPermissions)
		if err != nil {
			return err
		}
		if err := CanChangeStatus(current, employee); err != nil {
			return err
		}
		task, err = tx.Tasks.Update(ctx, taskID, map[string]interface{}{"status": status})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveTaskTransition(string(status))
	return task, nil
}

// Delete removes a task that is not DONE. Only its author may delete it.
func (s *TaskService) Delete(ctx context.Context, user *models.User, taskID uint64) error {
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		task, err := loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if err := checkNotDone(task); err != nil {
			return err
		}
		employee, err := employeeIn(ctx, tx, user, task.Author.OrganizationID, access.ManagerPermissions)
		if err != nil {
			return err
		}
		if err := CanDelete(task, employee); err != nil {
			return err
		}
		return tx.Tasks.DeleteWithChildren(ctx, taskID)
	})
}

func (s *TaskService) ListComments(ctx context.Context, user *models.User, taskID uint64, params utils.ListParams) ([]models.Comment, int64, error) {
	var (
		comments []models.Comment
		total    int64
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, _, err := s.collaborator(ctx, tx, user, taskID); err != nil {
			return err
		}
		var err error
		comments, total, err = tx.Comments.List(ctx, repository.Filter{"task_id": taskID}, params)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *TaskService) AddComment(ctx context.Context, user *models.User, taskID uint64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierrors.NewInvalidData("Comment cannot be empty")
	}

	var comment *models.Comment
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		_, employee, err := s.collaborator(ctx, tx, user, taskID)
		if err != nil {
			return err
		}
		comment = &models.Comment{
			TaskRef:   models.TaskRef{TaskID: taskID},
			CreatedBy: employee.ID,
			Content:   content,
		}
		return tx.Comments.Create(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Score rates a DONE task once. in_time is derived from the task's last
// update and deadline.
func (s *TaskService) Score(ctx context.Context, user *models.User, taskID uint64, input ScoreInput) (*models.Score, error) {
	var score *models.Score
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		task, err := loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		employee, err := employeeIn(ctx, tx, user, task.Author.OrganizationID, access.ManagerPermissions)
		if err != nil {
			return err
		}
		if err := CanScore(task, employee); err != nil {
			return err
		}
		if task.Score != nil {
			return apierrors.NewConflict("The task has already been scored", nil)
		}
		if err := CheckScoreValue("integrity", input.Integrity); err != nil {
			return err
		}
		if err := CheckScoreValue("quality", input.Quality); err != nil {
			return err
		}

		score = &models.Score{
			TaskID:     task.ID,
			EmployeeID: task.Assignee,
			InTime:     InTime(task),
			Integrity:  input.Integrity,
			Quality:    input.Quality,
		}
		return tx.Scores.Create(ctx, score)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("task scored", zap.Uint64("task_id", taskID), zap.Int("in_time", score.InTime))
	return score, nil
}

// ListForUser lists the caller's tasks. Owners and admins see the tasks they
// authored; everyone else sees the tasks assigned to them.
func (s *TaskService) ListForUser(ctx context.Context, user *models.User, input UserTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil {
		if err := CheckStatus(*input.Status); err != nil {
			return nil, 0, err
		}
	}

	var (
		tasks []models.Task
		total int64
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		employee, err := access.ResolveDefaultEmployee(ctx, tx.Employees, user, input.OrganizationID)
		if err != nil {
			return err
		}
		filter := repository.TaskFilter{
			CreatedBy:  employee.Role.Name == models.RoleOwner || employee.Role.Name == models.RoleAdmin,
			EmployeeID: employee.ID,
			Status:     input.Status,
		}
		tasks, total, err = tx.Tasks.ListForEmployee(ctx, filter, input.Params)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// ScoresForUser averages in_time + integrity + quality over every score the
// caller's employee record received.
func (s *TaskService) ScoresForUser(ctx context.Context, user *models.User, organizationID *uint64) (*ScoreReport, error) {
	var report *ScoreReport
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		employee, err := access.ResolveDefaultEmployee(ctx, tx.Employees, user, organizationID)
		if err != nil {
			return err
		}
		scores, err := tx.Scores.ListByEmployee(ctx, employee.ID)
		if err != nil {
			return err
		}
		report = &ScoreReport{EmployeeID: employee.ID, Scores: scores}
		if len(scores) > 0 {
			sum := 0
			for _, sc := range scores {
				sum += sc.Total()
			}
			report.Average = float64(sum) / float64(len(scores))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// collaborator loads a task for a contributor allowed to comment on it.
func (s *TaskService) collaborator(ctx context.Context, tx *repository.Repositories, user *models.User, taskID uint64) (*models.Task, *models.Employee, error) {
	task, err := loadTask(ctx, tx, taskID)
	if err != nil {
		return nil, nil, err
	}
	employee, err := employeeIn(ctx, tx, user, task.Author.OrganizationID, access.ContributorPermissions)
	if err != nil {
		return nil, nil, err
	}
	if err := CanComment(task, employee); err != nil {
		return nil, nil, err
	}
	return task, employee, nil
}

func loadTask(ctx context.Context, tx *repository.Repositories, taskID uint64) (*models.Task, error) {
	return tx.Tasks.Get(ctx, taskID, "Author", "Performer", "Score")
}
