// Package services holds the business operations. Every operation runs in a
// single repository transaction; authorization failures raised mid-flow roll
// the whole unit of work back.
package services

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/access"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/repository"
)

// employeeIn resolves the caller's employment in organizationID inside tx and
// checks it against required.
func employeeIn(ctx context.Context, tx *repository.Repositories, user *models.User, organizationID uint64, required access.PermissionSet) (*models.Employee, error) {
	return access.ResolveEmployee(ctx, tx.Employees, user, organizationID, required)
}

// departmentIn loads a department and re-validates it against the claimed
// organization.
func departmentIn(ctx context.Context, tx *repository.Repositories, organizationID, deptID uint64) (*models.Department, error) {
	dept, err := tx.Departments.Get(ctx, deptID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckDepartmentInOrganization(dept, organizationID); err != nil {
		return nil, err
	}
	return dept, nil
}

// creatorOf loads an organization and requires user to be its creator.
func creatorOf(ctx context.Context, tx *repository.Repositories, user *models.User, organizationID uint64) (*models.Organization, error) {
	org, err := tx.Organizations.Get(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOrganizationCreator(user, org); err != nil {
		return nil, err
	}
	return org, nil
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
