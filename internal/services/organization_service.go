package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/business-management-api/internal/access"
	"github.com/yukikurage/business-management-api/internal/cache"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/metrics"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/notify"
	"github.com/yukikurage/business-management-api/internal/repository"
	"github.com/yukikurage/business-management-api/internal/utils"
	"go.uber.org/zap"
)

// OrganizationService handles organization business logic
type OrganizationService struct {
	repos         *repository.Repositories
	invites       cache.Cache
	sender        InvitationSender
	invitationTTL time.Duration
	log           *zap.Logger
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(repos *repository.Repositories, invites cache.Cache, sender InvitationSender, invitationTTL time.Duration, log *zap.Logger) *OrganizationService {
	return &OrganizationService{
		repos:         repos,
		invites:       invites,
		sender:        sender,
		invitationTTL: invitationTTL,
		log:           log,
	}
}

// OrganizationInput carries create fields.
type OrganizationInput struct {
	Name        string
	Description string
}

// OrganizationUpdate carries a partial field set; nil fields are left alone.
type OrganizationUpdate struct {
	Name        *string
	Description *string
}

func (u OrganizationUpdate) fields() (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, apierrors.NewInvalidData("Name cannot be empty")
		}
		fields["name"] = name
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	return fields, nil
}

// Create creates an organization; its creator joins it as an admin employee.
func (s *OrganizationService) Create(ctx context.Context, user *models.User, input OrganizationInput) (*models.Organization, error) {
	if err := access.RequireAdminUser(user); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierrors.NewInvalidData("Name is required")
	}

	org := &models.Organization{
		UserRef:     models.UserRef{UserID: user.ID},
		Name:        name,
		Description: input.Description,
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Organizations.Create(ctx, org); err != nil {
			return err
		}
		role, err := tx.Roles.FindByName(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		return tx.Employees.Create(ctx, &models.Employee{
			OrganizationID: org.ID,
			UserID:         user.ID,
			RoleRef:        models.RoleRef{RoleID: role.ID},
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("organization created", zap.Uint64("organization_id", org.ID), zap.Uint64("user_id", user.ID))
	return org, nil
}

// List returns the organizations the user is employed by.
func (s *OrganizationService) List(ctx context.Context, user *models.User) ([]models.Organization, error) {
	return s.repos.Organizations.ListForUser(ctx, user.ID)
}

// Get returns an organization the user is employed by.
func (s *OrganizationService) Get(ctx context.Context, user *models.User, orgID uint64) (*models.Organization, error) {
	var org *models.Organization
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		if org, err = tx.Organizations.Get(ctx, orgID); err != nil {
			return err
		}
		_, err = employeeIn(ctx, tx, user, orgID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// Update applies a partial update. Only the creator may update.
func (s *OrganizationService) Update(ctx context.Context, user *models.User, orgID uint64, input OrganizationUpdate) (*models.Organization, error) {
	fields, err := input.fields()
	if err != nil {
		return nil, err
	}

	var org *models.Organization
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := creatorOf(ctx, tx, user, orgID); err != nil {
			return err
		}
		org, err = tx.Organizations.Update(ctx, orgID, fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// Delete removes the organization with everything scoped beneath it.
func (s *OrganizationService) Delete(ctx context.Context, user *models.User, orgID uint64) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := creatorOf(ctx, tx, user, orgID); err != nil {
			return err
		}
		return tx.Organizations.DeleteCascade(ctx, orgID)
	})
	if err != nil {
		return err
	}

	s.log.Info("organization deleted", zap.Uint64("organization_id", orgID), zap.Uint64("user_id", user.ID))
	return nil
}

// Invite stores an invitation code and enqueues the email. The email is
// best effort: a queue failure never undoes the cached invitation.
func (s *OrganizationService) Invite(ctx context.Context, user *models.User, orgID uint64, email string) (*InvitationResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apierrors.NewInvalidData("Email is required")
	}

	var org *models.Organization
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		org, err = creatorOf(ctx, tx, user, orgID)
		return err
	})
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, err
	}

	pending := PendingInvitation{Email: email, OrganizationID: org.ID, InvitedBy: user.ID}
	if err := s.invites.Set(ctx, code, pending, s.invitationTTL); err != nil {
		return nil, fmt.Errorf("failed to store invitation: %w", err)
	}
	metrics.ObserveInvitation(metrics.InvitationCreated)

	s.sender.EnqueueInvitation(ctx, notify.Invitation{
		Code:             code,
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		InviterEmail:     user.Email,
		InviteeEmail:     email,
	})

	return &InvitationResult{
		Email:            email,
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		InvitedBy:        user.ID,
		Status:           InvitationStatusPending,
	}, nil
}

// ListEmployees pages through an organization's employees. Creator only.
func (s *OrganizationService) ListEmployees(ctx context.Context, user *models.User, orgID uint64, params utils.ListParams) ([]models.Employee, int64, error) {
	var (
		employees []models.Employee
		total     int64
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := creatorOf(ctx, tx, user, orgID); err != nil {
			return err
		}
		var err error
		employees, total, err = tx.Employees.List(ctx, repository.Filter{"organization_id": orgID}, params, "Role", "User")
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// RemoveEmployee dismisses an employee by deactivating the bound user. The
// user row and employee record are kept.
func (s *OrganizationService) RemoveEmployee(ctx context.Context, user *models.User, orgID, employeeID uint64) (*models.Employee, error) {
	var employee *models.Employee
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := creatorOf(ctx, tx, user, orgID); err != nil {
			return err
		}
		var err error
		if employee, err = tx.Employees.Get(ctx, employeeID, "Role"); err != nil {
			return err
		}
		if err := access.CheckEmployeeInScope(employee, orgID, nil); err != nil {
			return err
		}
		if employee.UserID == user.ID {
			return apierrors.NewInvalidData("The organization creator cannot be dismissed")
		}
		deactivated, err := tx.Users.Update(ctx, employee.UserID, map[string]interface{}{"is_active": false})
		if err != nil {
			return err
		}
		employee.User = *deactivated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("employee dismissed",
		zap.Uint64("organization_id", orgID),
		zap.Uint64("employee_id", employeeID),
	)
	return employee, nil
}
