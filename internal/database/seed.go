package database

import (
	"fmt"

	"github.com/yukikurage/business-management-api/internal/access"
	"github.com/yukikurage/business-management-api/internal/models"
	"gorm.io/gorm"
)

// Seed creates the static roles and permissions and links them according to
// access.RolePermissions. Running it twice is harmless.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		permissions := make(map[models.PermissionName]models.Permission, len(access.AllPermissions))
		for _, name := range access.AllPermissions {
			perm := models.Permission{Name: name}
			if err := tx.Where(models.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", name, err)
			}
			permissions[name] = perm
		}

		for _, roleName := range access.AllRoles {
			role := models.Role{Name: roleName}
			if err := tx.Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", roleName, err)
			}

			granted := access.RolePermissions[roleName]
			rolePerms := make([]models.Permission, 0, len(granted))
			for _, name := range granted.Names() {
				rolePerms = append(rolePerms, permissions[name])
			}
			if err := tx.Model(&role).Association("Permissions").Replace(rolePerms); err != nil {
				return fmt.Errorf("failed to link permissions for role %s: %w", roleName, err)
			}
		}

		return nil
	})
}
