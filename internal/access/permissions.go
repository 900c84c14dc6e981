package access

import (
	"fmt"
	"sort"
	"strings"

	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
)

// PermissionSet is an unordered set of permission names.
type PermissionSet map[models.PermissionName]struct{}

func NewPermissionSet(names ...models.PermissionName) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s PermissionSet) Has(name models.PermissionName) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members in a stable order.
func (s PermissionSet) Names() []models.PermissionName {
	names := make([]models.PermissionName, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Missing lists the members of required that s lacks.
func (s PermissionSet) Missing(required PermissionSet) []models.PermissionName {
	var missing []models.PermissionName
	for _, name := range required.Names() {
		if !s.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

var (
	AllPermissions = []models.PermissionName{
		models.PermissionCreate,
		models.PermissionEdit,
		models.PermissionDelete,
		models.PermissionRead,
		models.PermissionShare,
	}

	AllRoles = []models.RoleName{
		models.RoleAdmin,
		models.RoleOwner,
		models.RoleContributor,
		models.RoleViewer,
	}

	// ManagerPermissions gates task authoring, scoring and meeting booking.
	ManagerPermissions = NewPermissionSet(
		models.PermissionCreate,
		models.PermissionEdit,
		models.PermissionRead,
		models.PermissionDelete,
	)

	// ContributorPermissions gates status changes and comments.
	ContributorPermissions = NewPermissionSet(
		models.PermissionCreate,
		models.PermissionEdit,
		models.PermissionRead,
	)

	// RolePermissions is the seed matrix for the role_permissions table.
	RolePermissions = map[models.RoleName]PermissionSet{
		models.RoleAdmin:       NewPermissionSet(AllPermissions...),
		models.RoleOwner:       NewPermissionSet(AllPermissions...),
		models.RoleContributor: NewPermissionSet(models.PermissionCreate, models.PermissionEdit, models.PermissionRead),
		models.RoleViewer:      NewPermissionSet(models.PermissionRead),
	}
)

// PermissionsOf collects the permissions attached to a loaded role.
func PermissionsOf(role models.Role) PermissionSet {
	set := make(PermissionSet, len(role.Permissions))
	for _, perm := range role.Permissions {
		set[perm.Name] = struct{}{}
	}
	return set
}

// Authorize checks that the employee's role grants every required permission.
// The employee must be loaded with Role.Permissions.
func Authorize(employee *models.Employee, required PermissionSet) error {
	missing := PermissionsOf(employee.Role).Missing(required)
	if len(missing) == 0 {
		return nil
	}

	names := make([]string, len(missing))
	for i, name := range missing {
		names[i] = string(name)
	}
	return apierrors.NewPermissionDenied(
		fmt.Sprintf("Role %q lacks permissions: %s", employee.Role.Name, strings.Join(names, ", ")),
	)
}
