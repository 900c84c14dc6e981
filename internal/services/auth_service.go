package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/business-management-api/internal/access"
	"github.com/yukikurage/business-management-api/internal/auth"
	"github.com/yukikurage/business-management-api/internal/cache"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/metrics"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/repository"
	"go.uber.org/zap"
)

// AuthService handles signup, signin and token refresh.
type AuthService struct {
	repos   *repository.Repositories
	tokens  *auth.TokenManager
	hasher  *auth.Hasher
	invites cache.Cache
	log     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(repos *repository.Repositories, tokens *auth.TokenManager, hasher *auth.Hasher, invites cache.Cache, log *zap.Logger) *AuthService {
	return &AuthService{
		repos:   repos,
		tokens:  tokens,
		hasher:  hasher,
		invites: invites,
		log:     log,
	}
}

// SignupInput represents the required information to create a new user.
// Code is the optional invitation code.
type SignupInput struct {
	Username string
	Email    string
	Password string
	Code     string
}

// Signup registers a user. Without a code the user receives the admin account
// role and may create organizations; with a code the user joins the inviting
// organization as a viewer.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apierrors.NewInvalidData("Username is required")
	}

	var invitation *PendingInvitation
	if input.Code != "" {
		invitation = &PendingInvitation{}
		found, err := s.invites.Get(ctx, input.Code, invitation)
		if err != nil {
			return nil, fmt.Errorf("failed to read invitation: %w", err)
		}
		if !found {
			return nil, apierrors.NewInvalidData("Unknown invitation code")
		}
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hashed,
		IsActive:     true,
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		roleName := models.RoleAdmin
		if invitation != nil {
			roleName = models.RoleViewer
		}
		role, err := tx.Roles.FindByName(ctx, roleName)
		if err != nil {
			return err
		}
		user.RoleID = role.ID
		user.Role = *role

		if invitation != nil {
			if _, err := tx.Organizations.Get(ctx, invitation.OrganizationID); err != nil {
				if errors.Is(err, apierrors.ErrNotFound) {
					return apierrors.NewNotFound("The organization you were invited to")
				}
				return err
			}
		}

		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}

		if invitation == nil {
			return nil
		}
		return tx.Employees.Create(ctx, &models.Employee{
			OrganizationID: invitation.OrganizationID,
			UserID:         user.ID,
			RoleRef:        models.RoleRef{RoleID: role.ID},
		})
	})
	if err != nil {
		return nil, err
	}

	if invitation != nil {
		metrics.ObserveInvitation(metrics.InvitationAccepted)
		if err := s.invites.Delete(ctx, input.Code); err != nil {
			s.log.Warn("failed to delete used invitation code",
				zap.Uint64("organization_id", invitation.OrganizationID),
				zap.Error(err),
			)
		}
	}

	s.log.Info("user signed up", zap.Uint64("user_id", user.ID), zap.Bool("invited", invitation != nil))
	return user, nil
}

// Signin verifies email and password and issues a token pair.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	user, err := s.repos.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, apierrors.NewUnauthenticated("Incorrect email or password", nil)
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apierrors.NewUnauthenticated("Incorrect email or password", nil)
	}
	if !user.IsActive {
		return nil, apierrors.NewAccountDisabled()
	}

	return s.tokens.IssuePair(user.ID)
}

// Refresh exchanges a refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	userID, err := s.tokens.Verify(refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, apierrors.NewUnauthenticated("Refresh token is invalid or expired", err)
	}

	user, err := access.CurrentUser(ctx, s.repos.Users, userID)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, apierrors.NewUnauthenticated("Refresh token subject no longer exists", err)
		}
		return nil, err
	}

	return s.tokens.IssuePair(user.ID)
}

// CreateSuperuser creates an active superuser holding the admin account role.
// An existing account with the same email is promoted instead.
func (s *AuthService) CreateSuperuser(ctx context.Context, username, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apierrors.NewInvalidData("Superuser email and password are required")
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		role, err := tx.Roles.FindByName(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}

		existing, err := tx.Users.FindByEmail(ctx, email)
		switch {
		case err == nil:
			user, err = tx.Users.Update(ctx, existing.ID, map[string]interface{}{
				"is_superuser":  true,
				"is_active":     true,
				"role_id":       role.ID,
				"password_hash": hashed,
			})
			return err
		case !errors.Is(err, apierrors.ErrNotFound):
			return err
		}

		user = &models.User{
			RoleRef:      models.RoleRef{RoleID: role.ID},
			Username:     strings.TrimSpace(username),
			Email:        email,
			PasswordHash: hashed,
			IsActive:     true,
			IsSuperuser:  true,
		}
		return tx.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("superuser ready", zap.Uint64("user_id", user.ID))
	return user, nil
}
