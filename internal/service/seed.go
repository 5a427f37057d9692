package service

import (
	"context" // Request scoped storage calls

	"kindred/internal/config" // Application configuration

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// seedAdminName is the display name of the seeded administrator
const seedAdminName = "System Administrator"

// EnsureAdmin seeds the configured administrator on an empty database and logs its credentials once.
// A random password is generated when ADMIN_PASSWORD is unset.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg *config.Config) error {
	password := cfg.AdminPassword
	if password == "" {
		generated, err := config.RandomPassword()
		if err != nil {
			return err
		}
		password = generated
	}
	created, err := s.SeedAdmin(ctx, seedAdminName, cfg.AdminEmail, password)
	if err != nil || !created {
		return err
	}
	// Only printed on first seed; rotate this password in production
	logrus.WithFields(logrus.Fields{
		"email":    NormalizeEmail(cfg.AdminEmail), // Admin login
		"password": password,                       // Admin password
	}).Warn("Seeded initial admin account")
	return nil
}
