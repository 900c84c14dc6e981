package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
)

func roleWith(name models.RoleName) models.Role {
	role := models.Role{Name: name}
	for _, perm := range RolePermissions[name].Names() {
		role.Permissions = append(role.Permissions, models.Permission{Name: perm})
	}
	return role
}

func employeeWith(role models.RoleName, orgID uint64, deptID *uint64) *models.Employee {
	emp := &models.Employee{
		OrganizationID: orgID,
		Role:           roleWith(role),
	}
	emp.DepartmentID = deptID
	return emp
}

func ptr(v uint64) *uint64 { return &v }

func TestRolePermissions_Matrix(t *testing.T) {
	assert.Len(t, RolePermissions[models.RoleAdmin], 5)
	assert.Len(t, RolePermissions[models.RoleOwner], 5)
	assert.Equal(t,
		[]models.PermissionName{models.PermissionCreate, models.PermissionEdit, models.PermissionRead},
		RolePermissions[models.RoleContributor].Names())
	assert.Equal(t, []models.PermissionName{models.PermissionRead}, RolePermissions[models.RoleViewer].Names())
}

func TestAuthorize(t *testing.T) {
	cases := []struct {
		role     models.RoleName
		required PermissionSet
		allowed  bool
	}{
		{models.RoleAdmin, ManagerPermissions, true},
		{models.RoleOwner, ManagerPermissions, true},
		{models.RoleContributor, ManagerPermissions, false},
		{models.RoleContributor, ContributorPermissions, true},
		{models.RoleViewer, ContributorPermissions, false},
		{models.RoleViewer, NewPermissionSet(models.PermissionRead), true},
	}

	for _, tc := range cases {
		err := Authorize(employeeWith(tc.role, 1, nil), tc.required)
		if tc.allowed {
			assert.NoError(t, err, tc.role)
			continue
		}
		assert.ErrorIs(t, err, apierrors.ErrPermissionDenied, tc.role)
	}
}

func TestAuthorize_IsIdempotent(t *testing.T) {
	emp := employeeWith(models.RoleContributor, 1, nil)
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, Authorize(emp, ManagerPermissions), apierrors.ErrPermissionDenied)
	}
}

type fakeTokens struct {
	userID uint64
	err    error
}

func (f fakeTokens) VerifyAccess(string) (uint64, error) { return f.userID, f.err }

func TestGate_Authenticate(t *testing.T) {
	gate := NewGate(fakeTokens{userID: 7})
	id, err := gate.Authenticate("token")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	_, err = gate.Authenticate("")
	assert.ErrorIs(t, err, apierrors.ErrUnauthenticated)

	gate = NewGate(fakeTokens{err: errors.New("expired")})
	_, err = gate.Authenticate("token")
	assert.ErrorIs(t, err, apierrors.ErrUnauthenticated)
}

type fakeUsers map[uint64]*models.User

func (f fakeUsers) GetWithRole(_ context.Context, id uint64) (*models.User, error) {
	if user, ok := f[id]; ok {
		return user, nil
	}
	return nil, apierrors.NewNotFound("User")
}

func TestCurrentUser(t *testing.T) {
	users := fakeUsers{
		1: {Base: models.Base{ID: 1}, IsActive: true},
		2: {Base: models.Base{ID: 2}, IsActive: false},
	}

	user, err := CurrentUser(context.Background(), users, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), user.ID)

	_, err = CurrentUser(context.Background(), users, 2)
	assert.ErrorIs(t, err, apierrors.ErrAccountDisabled)

	_, err = CurrentUser(context.Background(), users, 3)
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

type fakeEmployees []models.Employee

func (f fakeEmployees) FindByUserAndOrganization(_ context.Context, userID, orgID uint64) (*models.Employee, error) {
	for i := range f {
		if f[i].UserID == userID && f[i].OrganizationID == orgID {
			return &f[i], nil
		}
	}
	return nil, apierrors.NewNotFound("Employee")
}

func (f fakeEmployees) ListByUser(_ context.Context, userID uint64) ([]models.Employee, error) {
	var out []models.Employee
	for _, emp := range f {
		if emp.UserID == userID {
			out = append(out, emp)
		}
	}
	return out, nil
}

func TestResolveEmployee(t *testing.T) {
	user := &models.User{Base: models.Base{ID: 1}, IsActive: true}
	contributor := *employeeWith(models.RoleContributor, 10, nil)
	contributor.UserID = 1
	employees := fakeEmployees{contributor}

	_, err := ResolveEmployee(context.Background(), employees, user, 10, ContributorPermissions)
	require.NoError(t, err)

	_, err = ResolveEmployee(context.Background(), employees, user, 10, ManagerPermissions)
	assert.ErrorIs(t, err, apierrors.ErrPermissionDenied)

	_, err = ResolveEmployee(context.Background(), employees, user, 11, ContributorPermissions)
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestResolveDefaultEmployee(t *testing.T) {
	user := &models.User{Base: models.Base{ID: 1}}
	first := *employeeWith(models.RoleViewer, 10, nil)
	first.UserID = 1
	second := *employeeWith(models.RoleViewer, 20, nil)
	second.UserID = 1

	emp, err := ResolveDefaultEmployee(context.Background(), fakeEmployees{first}, user, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), emp.OrganizationID)

	_, err = ResolveDefaultEmployee(context.Background(), fakeEmployees{first, second}, user, nil)
	assert.ErrorIs(t, err, apierrors.ErrInvalidData)

	emp, err = ResolveDefaultEmployee(context.Background(), fakeEmployees{first, second}, user, ptr(20))
	require.NoError(t, err)
	assert.Equal(t, uint64(20), emp.OrganizationID)

	_, err = ResolveDefaultEmployee(context.Background(), fakeEmployees{}, user, nil)
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestScopeChecks(t *testing.T) {
	user := &models.User{Base: models.Base{ID: 1}, Role: models.Role{Name: models.RoleAdmin}}
	org := &models.Organization{UserRef: models.UserRef{UserID: 1}}
	assert.NoError(t, RequireOrganizationCreator(user, org))
	assert.NoError(t, RequireAdminUser(user))

	other := &models.User{Base: models.Base{ID: 2}, Role: models.Role{Name: models.RoleViewer}}
	assert.ErrorIs(t, RequireOrganizationCreator(other, org), apierrors.ErrPermissionDenied)
	assert.ErrorIs(t, RequireAdminUser(other), apierrors.ErrPermissionDenied)

	dept := &models.Department{OrganizationRef: models.OrganizationRef{OrganizationID: 5}}
	assert.NoError(t, CheckDepartmentInOrganization(dept, 5))
	assert.ErrorIs(t, CheckDepartmentInOrganization(dept, 6), apierrors.ErrPermissionDenied)

	emp := employeeWith(models.RoleContributor, 5, ptr(3))
	assert.NoError(t, CheckEmployeeInScope(emp, 5, nil))
	assert.NoError(t, CheckEmployeeInScope(emp, 5, ptr(3)))
	assert.ErrorIs(t, CheckEmployeeInScope(emp, 5, ptr(4)), apierrors.ErrPermissionDenied)
	assert.ErrorIs(t, CheckEmployeeInScope(emp, 6, nil), apierrors.ErrPermissionDenied)
}

func TestCanAccessDepartment(t *testing.T) {
	manager := employeeWith(models.RoleOwner, 5, ptr(3))
	assert.NoError(t, CanAccessDepartment(manager, 5, 3))
	assert.ErrorIs(t, CanAccessDepartment(manager, 5, 4), apierrors.ErrPermissionDenied)
	assert.ErrorIs(t, CanAccessDepartment(manager, 6, 3), apierrors.ErrPermissionDenied)

	admin := employeeWith(models.RoleAdmin, 5, nil)
	assert.NoError(t, CanAccessDepartment(admin, 5, 4))
	assert.ErrorIs(t, CanAccessDepartment(admin, 6, 4), apierrors.ErrPermissionDenied)
}
