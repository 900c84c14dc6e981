package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/business-management-api/internal/access"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/repository"
	"github.com/yukikurage/business-management-api/internal/utils"
	"go.uber.org/zap"
)

// DepartmentService manages departments and their employees. Structural
// changes are reserved to the organization creator.
type DepartmentService struct {
	repos *repository.Repositories
	log   *zap.Logger
}

func NewDepartmentService(repos *repository.Repositories, log *zap.Logger) *DepartmentService {
	return &DepartmentService{repos: repos, log: log}
}

type DepartmentInput struct {
	Name        string
	Description string
}

type DepartmentUpdate struct {
	Name        *string
	Description *string
}

func (s *DepartmentService) Create(ctx context.Context, user *models.User, orgID uint64, input DepartmentInput) (*models.Department, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierrors.NewInvalidData("Name is required")
	}

	dept := &models.Department{
		OrganizationRef: models.OrganizationRef{OrganizationID: orgID},
		UserRef:         models.UserRef{UserID: user.ID},
		Name:            name,
		Description:     input.Description,
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := creatorOf(ctx, tx, user, orgID); err != nil {
			return err
		}
		return tx.Departments.Create(ctx, dept)
	})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

// List pages through an organization's departments. Any employee of the
// organization may list them.
func (s *DepartmentService) List(ctx context.Context, user *models.User, orgID uint64, params utils.ListParams) ([]models.Department, int64, error) {
	var (
		depts []models.Department
		total int64
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Organizations.Get(ctx, orgID); err != nil {
			return err
		}
		if _, err := employeeIn(ctx, tx, user, orgID, nil); err != nil {
			return err
		}
		var err error
		depts, total, err = tx.Departments.List(ctx, repository.Filter{"organization_id": orgID}, params)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return depts, total, nil
}

// Get returns a department to one of its contributors, or to an admin-role
// employee of the organization.
func (s *DepartmentService) Get(ctx context.Context, user *models.User, orgID, deptID uint64) (*models.Department, error) {
	var dept *models.Department
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		dept, err = s.readable(ctx, tx, user, orgID, deptID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *DepartmentService) Update(ctx context.Context, user *models.User, orgID, deptID uint64, input DepartmentUpdate) (*models.Department, error) {
	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apierrors.NewInvalidData("Name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	var dept *models.Department
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := s.managed(ctx, tx, user, orgID, deptID); err != nil {
			return err
		}
		var err error
		dept, err = tx.Departments.Update(ctx, deptID, fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

// Delete removes a department; its employees stay in the organization
// without a department.
func (s *DepartmentService) Delete(ctx context.Context, user *models.User, orgID, deptID uint64) (*models.Department, error) {
	var dept *models.Department
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		if dept, err = s.managed(ctx, tx, user, orgID, deptID); err != nil {
			return err
		}
		if err := tx.Employees.DetachDepartment(ctx, deptID); err != nil {
			return err
		}
		return tx.Departments.Delete(ctx, deptID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("department deleted",
		zap.Uint64("organization_id", orgID),
		zap.Uint64("department_id", deptID),
		zap.Uint64("user_id", user.ID),
	)
	return dept, nil
}

func (s *DepartmentService) ListEmployees(ctx context.Context, user *models.User, orgID, deptID uint64, params utils.ListParams) ([]models.Employee, int64, error) {
	var (
		employees []models.Employee
		total     int64
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := s.readable(ctx, tx, user, orgID, deptID); err != nil {
			return err
		}
		var err error
		employees, total, err = tx.Employees.List(ctx, repository.Filter{"department_id": deptID}, params, "Role", "User")
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// AddEmployee attaches an organization employee to the department. The role
// defaults to contributor.
func (s *DepartmentService) AddEmployee(ctx context.Context, user *models.User, orgID, deptID, employeeID uint64, roleName *models.RoleName) (*models.Employee, error) {
	name := models.RoleContributor
	if roleName != nil {
		name = *roleName
	}

	var employee *models.Employee
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := s.managed(ctx, tx, user, orgID, deptID); err != nil {
			return err
		}
		current, err := tx.Employees.Get(ctx, employeeID)
		if err != nil {
			return err
		}
		if err := access.CheckEmployeeInScope(current, orgID, nil); err != nil {
			return err
		}
		if current.DepartmentID != nil && *current.DepartmentID != deptID {
			return apierrors.NewConflict("The employee already belongs to another department", nil)
		}
		role, err := assignableRole(ctx, tx, name)
		if err != nil {
			return err
		}
		employee, err = tx.Employees.Update(ctx, employeeID, map[string]interface{}{
			"department_id": deptID,
			"role_id":       role.ID,
		})
		if err != nil {
			return err
		}
		employee.Role = *role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

// UpdateEmployeeRole changes the role of an employee of the department.
func (s *DepartmentService) UpdateEmployeeRole(ctx context.Context, user *models.User, orgID, deptID, employeeID uint64, roleName models.RoleName) (*models.Employee, error) {
	var employee *models.Employee
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := s.departmentEmployee(ctx, tx, user, orgID, deptID, employeeID); err != nil {
			return err
		}
		role, err := assignableRole(ctx, tx, roleName)
		if err != nil {
			return err
		}
		employee, err = tx.Employees.Update(ctx, employeeID, map[string]interface{}{"role_id": role.ID})
		if err != nil {
			return err
		}
		employee.Role = *role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

// RemoveEmployee detaches an employee from the department and demotes them
// to viewer.
func (s *DepartmentService) RemoveEmployee(ctx context.Context, user *models.User, orgID, deptID, employeeID uint64) (*models.Employee, error) {
	var employee *models.Employee
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := s.departmentEmployee(ctx, tx, user, orgID, deptID, employeeID); err != nil {
			return err
		}
		role, err := tx.Roles.FindByName(ctx, models.RoleViewer)
		if err != nil {
			return err
		}
		employee, err = tx.Employees.Update(ctx, employeeID, map[string]interface{}{
			"department_id": nil,
			"role_id":       role.ID,
		})
		if err != nil {
			return err
		}
		employee.Role = *role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

// managed loads a department the user administers as organization creator.
func (s *DepartmentService) managed(ctx context.Context, tx *repository.Repositories, user *models.User, orgID, deptID uint64) (*models.Department, error) {
	if _, err := creatorOf(ctx, tx, user, orgID); err != nil {
		return nil, err
	}
	return departmentIn(ctx, tx, orgID, deptID)
}

// readable loads a department the user may look into as an employee.
func (s *DepartmentService) readable(ctx context.Context, tx *repository.Repositories, user *models.User, orgID, deptID uint64) (*models.Department, error) {
	dept, err := departmentIn(ctx, tx, orgID, deptID)
	if err != nil {
		return nil, err
	}
	employee, err := employeeIn(ctx, tx, user, orgID, access.ContributorPermissions)
	if err != nil {
		return nil, err
	}
	if err := access.CanAccessDepartment(employee, orgID, deptID); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *DepartmentService) departmentEmployee(ctx context.Context, tx *repository.Repositories, user *models.User, orgID, deptID, employeeID uint64) (*models.Employee, error) {
	if _, err := s.managed(ctx, tx, user, orgID, deptID); err != nil {
		return nil, err
	}
	employee, err := tx.Employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckEmployeeInScope(employee, orgID, &deptID); err != nil {
		return nil, err
	}
	return employee, nil
}

// assignableRole resolves a department role. The admin role is reserved for
// organization creators.
func assignableRole(ctx context.Context, tx *repository.Repositories, name models.RoleName) (*models.Role, error) {
	if name == models.RoleAdmin {
		return nil, apierrors.NewInvalidData("The admin role cannot be assigned within a department")
	}
	role, err := tx.Roles.FindByName(ctx, name)
	if errors.Is(err, apierrors.ErrNotFound) {
		return nil, apierrors.NewInvalidData(fmt.Sprintf("Unknown role %q", name))
	}
	return role, err
}
