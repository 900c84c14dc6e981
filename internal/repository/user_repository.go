package repository

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/models"
	"gorm.io/gorm"
)

// UserRepository adds role-aware lookups to the generic user repository
type UserRepository struct {
	*Repository[models.User]
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Repository: NewRepository[models.User](db, "User")}
}

// GetWithRole finds a user by ID with the role preloaded
func (r *UserRepository) GetWithRole(ctx context.Context, id uint64) (*models.User, error) {
	return r.Get(ctx, id, "Role")
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, Filter{"email": email}, "Role")
}
