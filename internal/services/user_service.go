package services

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/auth"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/repository"
	"go.uber.org/zap"
)

// UserService handles operations on the authenticated user's account.
type UserService struct {
	repos  *repository.Repositories
	tokens *auth.TokenManager
	hasher *auth.Hasher
	log    *zap.Logger
}

func NewUserService(repos *repository.Repositories, tokens *auth.TokenManager, hasher *auth.Hasher, log *zap.Logger) *UserService {
	return &UserService{repos: repos, tokens: tokens, hasher: hasher, log: log}
}

// ChangePassword replaces the password after checking the current one and
// returns a fresh token pair.
func (s *UserService) ChangePassword(ctx context.Context, user *models.User, current, next string) (*auth.TokenPair, error) {
	if !s.hasher.Verify(current, user.PasswordHash) {
		return nil, apierrors.NewInvalidData("The current password is incorrect")
	}
	if s.hasher.Verify(next, user.PasswordHash) {
		return nil, apierrors.NewInvalidData("The new password must differ from the current one")
	}

	hashed, err := s.hasher.Hash(next)
	if err != nil {
		return nil, err
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		updated, err := tx.Users.Update(ctx, user.ID, map[string]interface{}{"password_hash": hashed})
		if err != nil {
			return err
		}
		user.PasswordHash = updated.PasswordHash
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("password changed", zap.Uint64("user_id", user.ID))
	return s.tokens.IssuePair(user.ID)
}
