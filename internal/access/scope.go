package access

import (
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
)

func IsAdmin(employee *models.Employee) bool {
	return employee.Role.Name == models.RoleAdmin
}

// RequireAdminUser allows only users whose account role is admin.
func RequireAdminUser(user *models.User) error {
	if user.Role.Name != models.RoleAdmin {
		return apierrors.NewPermissionDenied("Only administrators can manage organizations")
	}
	return nil
}

// RequireOrganizationCreator allows only the user recorded as the organization's creator.
func RequireOrganizationCreator(user *models.User, org *models.Organization) error {
	if org.UserID != user.ID {
		return apierrors.NewPermissionDenied("Only the organization creator can perform this action")
	}
	return nil
}

// CheckDepartmentInOrganization re-validates a fetched department against the
// organization named in the request.
func CheckDepartmentInOrganization(dept *models.Department, organizationID uint64) error {
	if dept.OrganizationID != organizationID {
		return apierrors.NewPermissionDenied("The department does not belong to the organization")
	}
	return nil
}

// CheckEmployeeInScope re-validates a fetched employee against the claimed
// organization and, when deptID is non-nil, the claimed department.
func CheckEmployeeInScope(employee *models.Employee, organizationID uint64, deptID *uint64) error {
	if employee.OrganizationID != organizationID {
		return apierrors.NewPermissionDenied("The employee does not belong to the organization")
	}
	if deptID != nil && !employee.InDepartment(deptID) {
		return apierrors.NewPermissionDenied("The employee does not belong to the department")
	}
	return nil
}

// CanAccessDepartment checks that the employee acts within organizationID and
// deptID. Admin-role employees only need the organization to match.
func CanAccessDepartment(employee *models.Employee, organizationID, deptID uint64) error {
	if employee.OrganizationID != organizationID {
		return apierrors.NewPermissionDenied("No access to the specified organization or department")
	}
	if IsAdmin(employee) {
		return nil
	}
	if !employee.InDepartment(&deptID) {
		return apierrors.NewPermissionDenied("No access to the specified organization or department")
	}
	return nil
}
