package database

import (
	"fmt"

	"github.com/yukikurage/business-management-api/internal/config"
	"github.com/yukikurage/business-management-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured driver. TranslateError turns unique violations
// into gorm.ErrDuplicatedKey for the repository layer.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.Permission{},
		&models.Role{},
		&models.RolePermission{},
		&models.User{},
		&models.Organization{},
		&models.Department{},
		&models.Employee{},
		&models.Meeting{},
		&models.EmployeeMeeting{},
		&models.Task{},
		&models.Score{},
		&models.Comment{},
	}
}

// SetupJoinTables registers the explicit join models; it must run before
// AutoMigrate and before any association query.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Role{}, "Permissions", &models.RolePermission{}); err != nil {
		return fmt.Errorf("failed to set up role permissions: %w", err)
	}
	if err := db.SetupJoinTable(&models.Meeting{}, "Employees", &models.EmployeeMeeting{}); err != nil {
		return fmt.Errorf("failed to set up meeting employees: %w", err)
	}
	if err := db.SetupJoinTable(&models.Employee{}, "Meetings", &models.EmployeeMeeting{}); err != nil {
		return fmt.Errorf("failed to set up employee meetings: %w", err)
	}
	return nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	log.Info("database migrations completed")
	return nil
}
