package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-samples-api/internal/config"
	"ai-samples-api/internal/domain"
	"ai-samples-api/internal/observability"
	"ai-samples-api/internal/security"
)

type defaultRole struct {
	Name        string
	Description string
}

var defaultRoles = []defaultRole{
	{Name: "Admin", Description: "Administrator role with full access"},
	{Name: "User", Description: "Standard user role"},
}

// SeedReport summarizes what a seed run created. Reruns are no-ops.
type SeedReport struct {
	CreatedRoles      int  `json:"created_roles"`
	CreatedAdmin      bool `json:"created_admin"`
	AdminRoleAssigned bool `json:"admin_role_assigned"`
}

// Seed ensures the default roles exist and, when configured, the bootstrap
// admin account. Safe to run on every startup.
func Seed(db *gorm.DB, cfg *config.Config, logger *slog.Logger) (*SeedReport, error) {
	ctx := context.Background()
	report := &SeedReport{}

	for _, dr := range defaultRoles {
		role := domain.Role{ID: uuid.NewString(), Name: dr.Name, Description: dr.Description}
		res := db.Where("name = ?", dr.Name).FirstOrCreate(&role)
		if res.Error != nil {
			observability.RecordSeedEvent(ctx, "role", "error")
			return nil, fmt.Errorf("seeding role %s: %w", dr.Name, res.Error)
		}
		if res.RowsAffected > 0 {
			report.CreatedRoles++
			observability.RecordSeedEvent(ctx, "role", "created")
			logger.Info("seeded role", "name", dr.Name)
		} else {
			observability.RecordSeedEvent(ctx, "role", "exists")
		}
	}

	if cfg.BootstrapAdminEmail == "" {
		return report, nil
	}

	admin, created, err := ensureBootstrapAdmin(db, cfg)
	if err != nil {
		observability.RecordSeedEvent(ctx, "admin", "error")
		return nil, err
	}
	report.CreatedAdmin = created
	if created {
		observability.RecordSeedEvent(ctx, "admin", "created")
		logger.Info("seeded bootstrap admin", "email", cfg.BootstrapAdminEmail)
	} else {
		observability.RecordSeedEvent(ctx, "admin", "exists")
	}

	assigned, err := ensureAdminRole(db, admin.ID)
	if err != nil {
		observability.RecordSeedEvent(ctx, "admin_role", "error")
		return nil, err
	}
	report.AdminRoleAssigned = assigned
	return report, nil
}

func ensureBootstrapAdmin(db *gorm.DB, cfg *config.Config) (*domain.User, bool, error) {
	var existing domain.User
	err := db.Where("LOWER(email) = LOWER(?)", cfg.BootstrapAdminEmail).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("looking up bootstrap admin: %w", err)
	}

	hash, err := security.HashPassword(cfg.BootstrapAdminPassword)
	if err != nil {
		return nil, false, fmt.Errorf("hashing bootstrap admin password: %w", err)
	}
	admin := domain.User{
		ID:           uuid.NewString(),
		Username:     "admin",
		Email:        cfg.BootstrapAdminEmail,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, false, fmt.Errorf("creating bootstrap admin: %w", err)
	}
	return &admin, true, nil
}

func ensureAdminRole(db *gorm.DB, userID string) (bool, error) {
	var adminRole domain.Role
	if err := db.Where("name = ?", "Admin").First(&adminRole).Error; err != nil {
		return false, fmt.Errorf("loading Admin role: %w", err)
	}

	var count int64
	if err := db.Model(&domain.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, adminRole.ID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking admin role assignment: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	assignment := domain.UserRole{UserID: userID, RoleID: adminRole.ID, AssignedAt: time.Now().UTC()}
	if err := db.Create(&assignment).Error; err != nil {
		return false, fmt.Errorf("assigning Admin role: %w", err)
	}
	return true, nil
}
