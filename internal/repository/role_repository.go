package repository

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/models"
	"gorm.io/gorm"
)

type RoleRepository struct {
	*Repository[models.Role]
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{Repository: NewRepository[models.Role](db, "Role")}
}

// FindByName finds a seeded role with its permissions
func (r *RoleRepository) FindByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	return r.FindOne(ctx, Filter{"name": name}, "Permissions")
}
