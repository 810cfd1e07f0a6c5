package db_test

import (
	"context"
	"testing"

	"github.com/geocoder89/homage/internal/config"
	"github.com/geocoder89/homage/internal/db"
	"github.com/geocoder89/homage/internal/repo/memory"
	"github.com/geocoder89/homage/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSeedUser(t *testing.T) {
	users := memory.NewUsersRepo()
	cfg := config.Config{SeedUserName: "Admin", SeedUserEmail: "admin@example.com", SeedUserPassword: "password"}

	created, err := db.EnsureSeedUser(context.Background(), users, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	u, err := users.FindByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.Name)
	assert.NoError(t, security.CheckPassword(u.PasswordHash, "password"))

	created, err = db.EnsureSeedUser(context.Background(), users, cfg)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureSeedUser_DisabledWithoutCredentials(t *testing.T) {
	users := memory.NewUsersRepo()

	created, err := db.EnsureSeedUser(context.Background(), users, config.Config{SeedUserEmail: "admin@example.com"})
	require.NoError(t, err)
	assert.False(t, created)

	_, err = users.FindByEmail(context.Background(), "admin@example.com")
	assert.Error(t, err)
}
