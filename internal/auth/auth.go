// Package auth verifies credentials and manages opaque bearer tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/homage/internal/domain/token"
	"github.com/geocoder89/homage/internal/domain/user"
	"go.opentelemetry.io/otel"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated covers a missing, malformed, unknown or mismatched token.
	ErrUnauthenticated = errors.New("unauthenticated")
)

var tracer = otel.Tracer("github.com/geocoder89/homage/internal/auth")

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (user.User, error)
	FindByID(ctx context.Context, id int64) (user.User, error)
}

type TokenRepository interface {
	Create(ctx context.Context, t token.Token) (token.Token, error)
	GetByID(ctx context.Context, id int64) (token.Token, error)
	GetByHash(ctx context.Context, hash string) (token.Token, error)
	TouchLastUsed(ctx context.Context, id int64, at time.Time) error
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)
}
