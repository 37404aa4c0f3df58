package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/updawg/Fund-Manager-Backend/internal/database"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// GetVersionInfo reports the application version and the schema version,
// flagging pending migrations.
func (s *SystemService) GetVersionInfo(ctx context.Context) (model.VersionInfo, error) {
	dbVersion, pending, err := database.Version(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       dbVersion,
		MigrationNeeded: pending,
	}
	if pending {
		msg := fmt.Sprintf("database schema version %d is behind; run migrations", dbVersion)
		info.MigrationMessage = &msg
	}
	return info, nil
}

// GetMigrationStatus lists every embedded migration and whether it is applied.
func (s *SystemService) GetMigrationStatus(ctx context.Context) ([]database.MigrationStatus, error) {
	return database.Status(ctx, s.db)
}
