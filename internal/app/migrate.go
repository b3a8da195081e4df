package app

import (
	"context"
	"fmt"

	"sinergia_backend/internal/appointment"
	"sinergia_backend/internal/config"
	"sinergia_backend/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables for every persisted model.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations")
	if err := db.AutoMigrate(&user.User{}, &appointment.Appointment{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// BootstrapAdmin ensures the admin account named by ADMIN_BOOTSTRAP_EMAIL
// exists. It does nothing when the email or password is unset.
func BootstrapAdmin(ctx context.Context, cfg *config.Config, users user.Service, logger *zap.Logger) error {
	if cfg.AdminBootstrapEmail == "" || cfg.AdminBootstrapPassword == "" {
		return nil
	}
	admin, created, err := users.EnsureAdmin(ctx, cfg.AdminBootstrapEmail, cfg.AdminBootstrapPassword, cfg.AdminBootstrapName)
	if err != nil {
		return fmt.Errorf("bootstrap admin %s: %w", cfg.AdminBootstrapEmail, err)
	}
	if created {
		logger.Info("Bootstrap admin created", zap.Uint("user_id", admin.ID), zap.String("email", admin.Email))
	}
	return nil
}
