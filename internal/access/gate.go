package access

import (
	"context"
	"fmt"

	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
)

// TokenVerifier validates an access token and returns the subject user ID.
type TokenVerifier interface {
	VerifyAccess(token string) (uint64, error)
}

// UserLoader loads a user with its role.
type UserLoader interface {
	GetWithRole(ctx context.Context, id uint64) (*models.User, error)
}

// EmployeeLoader loads the employee binding a user to an organization, with
// Role.Permissions preloaded.
type EmployeeLoader interface {
	FindByUserAndOrganization(ctx context.Context, userID, organizationID uint64) (*models.Employee, error)
	ListByUser(ctx context.Context, userID uint64) ([]models.Employee, error)
}

// Gate resolves credentials to users and users to authorized employees.
// It performs reads only.
type Gate struct {
	tokens TokenVerifier
}

func NewGate(tokens TokenVerifier) *Gate {
	return &Gate{tokens: tokens}
}

// Authenticate returns the user ID carried by a bearer token.
func (g *Gate) Authenticate(token string) (uint64, error) {
	if token == "" {
		return 0, apierrors.NewUnauthenticated("Missing bearer token", nil)
	}
	userID, err := g.tokens.VerifyAccess(token)
	if err != nil {
		return 0, apierrors.NewUnauthenticated("Token is invalid or expired", err)
	}
	return userID, nil
}

// CurrentUser loads the authenticated user and rejects deactivated accounts.
func CurrentUser(ctx context.Context, users UserLoader, userID uint64) (*models.User, error) {
	user, err := users.GetWithRole(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apierrors.NewAccountDisabled()
	}
	return user, nil
}

// ResolveEmployee finds the user's employee record in organizationID and
// checks it against required. A nil required set skips the permission check.
func ResolveEmployee(ctx context.Context, employees EmployeeLoader, user *models.User, organizationID uint64, required PermissionSet) (*models.Employee, error) {
	employee, err := employees.FindByUserAndOrganization(ctx, user.ID, organizationID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(employee, required); err != nil {
		return nil, err
	}
	return employee, nil
}

// ResolveDefaultEmployee picks the user's employee record when no organization
// is named. It is ambiguous for users employed by several organizations.
func ResolveDefaultEmployee(ctx context.Context, employees EmployeeLoader, user *models.User, organizationID *uint64) (*models.Employee, error) {
	if organizationID != nil {
		return ResolveEmployee(ctx, employees, user, *organizationID, nil)
	}

	list, err := employees.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	switch len(list) {
	case 0:
		return nil, apierrors.NewNotFound("Employee")
	case 1:
		return employees.FindByUserAndOrganization(ctx, user.ID, list[0].OrganizationID)
	default:
		return nil, apierrors.NewInvalidData(
			fmt.Sprintf("User is employed by %d organizations; organization_id is required", len(list)),
		)
	}
}
