// Package testutil builds seeded in-memory databases and fixtures for tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/business-management-api/internal/database"
	"github.com/yukikurage/business-management-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated and seeded in-memory SQLite database. A single
// connection is used so every query sees the same database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.SetupJoinTables(db))
	require.NoError(t, db.AutoMigrate(database.Models()...))
	require.NoError(t, database.Seed(db))

	return db
}

// Role returns a seeded role with its permissions.
func Role(t *testing.T, db *gorm.DB, name models.RoleName) models.Role {
	t.Helper()
	var role models.Role
	require.NoError(t, db.Preload("Permissions").Where("name = ?", name).First(&role).Error)
	return role
}

// CreateUser inserts an active user holding the given account role.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.RoleName) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
		IsActive:     true,
		RoleRef:      models.RoleRef{RoleID: Role(t, db, role).ID},
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Preload("Role").First(user, user.ID).Error)
	return user
}

func CreateOrganization(t *testing.T, db *gorm.DB, creator *models.User, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{
		UserRef: models.UserRef{UserID: creator.ID},
		Name:    name,
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

func CreateDepartment(t *testing.T, db *gorm.DB, org *models.Organization, name string) *models.Department {
	t.Helper()
	dept := &models.Department{
		OrganizationRef: models.OrganizationRef{OrganizationID: org.ID},
		UserRef:         models.UserRef{UserID: org.UserID},
		Name:            name,
	}
	require.NoError(t, db.Create(dept).Error)
	return dept
}

// CreateEmployee binds user to org (and dept when non-nil) with role, and
// returns it loaded the way the repositories load it.
func CreateEmployee(t *testing.T, db *gorm.DB, user *models.User, org *models.Organization, dept *models.Department, role models.RoleName) *models.Employee {
	t.Helper()
	emp := &models.Employee{
		OrganizationID: org.ID,
		UserID:         user.ID,
		RoleRef:        models.RoleRef{RoleID: Role(t, db, role).ID},
	}
	if dept != nil {
		deptID := dept.ID
		emp.DepartmentID = &deptID
	}
	require.NoError(t, db.Create(emp).Error)
	require.NoError(t, db.Preload("Role.Permissions").Preload("User").First(emp, emp.ID).Error)
	return emp
}
