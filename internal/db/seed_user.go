package db

import (
	"context"
	"errors"

	"github.com/geocoder89/homage/internal/config"
	"github.com/geocoder89/homage/internal/domain/user"
	"github.com/geocoder89/homage/internal/security"
)

type UserSeeder interface {
	FindByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
}

// EnsureSeedUser creates the configured user once. Accounts are otherwise
// provisioned outside this API.
func EnsureSeedUser(ctx context.Context, users UserSeeder, cfg config.Config) (bool, error) {
	if cfg.SeedUserEmail == "" || cfg.SeedUserPassword == "" {
		return false, nil
	}

	// check if the user exists
	_, err := users.FindByEmail(ctx, cfg.SeedUserEmail)

	if err == nil {
		return false, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return false, err
	}

	hash, err := security.HashPassword(cfg.SeedUserPassword)

	if err != nil {
		return false, err
	}

	if _, err := users.Create(ctx, cfg.SeedUserName, cfg.SeedUserEmail, hash); err != nil {
		return false, err
	}

	return true, nil
}
