// Package actorctx carries the authenticated user on a context.Context.
package actorctx

import (
	"context"

	"github.com/geocoder89/homage/internal/domain/resource"
	"github.com/geocoder89/homage/internal/domain/user"
)

type ctxKey struct{}

func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFrom(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(user.User)

	return u, ok && u.ID != 0
}

// ActorFrom is the audit stamp for whoever is acting on ctx.
func ActorFrom(ctx context.Context) (resource.Actor, bool) {
	u, ok := UserFrom(ctx)
	if !ok {
		return resource.Actor{}, false
	}

	return resource.Actor{ID: u.ID, Name: u.Name}, true
}
