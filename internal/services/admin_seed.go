package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/store"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

// EnsureAdmin creates the default administrator when it does not exist yet.
// It reports whether a record was created.
func EnsureAdmin(ctx context.Context, admins store.AdminRepository, hasher utils.PasswordHasher, password string, logger zerolog.Logger) (bool, error) {
	_, err := admins.FindByUsername(ctx, models.DefaultAdminUsername)
	if err == nil {
		logger.Info().Msg("Admin user already exists")
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	hash, err := hasher.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	err = admins.Insert(ctx, &models.Admin{Username: models.DefaultAdminUsername, Password: hash})
	if errors.Is(err, apperrors.ErrConflict) {
		// another instance seeded it in the meantime
		logger.Info().Msg("Admin user already exists")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert admin: %w", err)
	}
	logger.Info().Msg("Admin user created")
	return true, nil
}
