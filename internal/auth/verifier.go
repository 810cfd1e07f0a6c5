package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/homage/internal/domain/user"
	"github.com/geocoder89/homage/internal/security"
)

type Verifier struct {
	users UserFinder

	// burn spends one bcrypt comparison when there is no hash to check
	burn func(plain string)
}

func NewVerifier(users UserFinder) *Verifier {
	return &Verifier{users: users, burn: security.BurnCompare}
}

// Verify returns the user owning email when password matches its stored
// hash. Unknown emails and wrong passwords both yield ErrInvalidCredentials
// after the same amount of bcrypt work.
func (v *Verifier) Verify(ctx context.Context, email, password string) (user.User, error) {
	ctx, span := tracer.Start(ctx, "auth.Verify")
	defer span.End()

	u, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			v.burn(password)
			return user.User{}, ErrInvalidCredentials
		}

		return user.User{}, fmt.Errorf("find user by email: %w", err)
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return u, nil
}
