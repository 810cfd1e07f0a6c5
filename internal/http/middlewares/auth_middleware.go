package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/geocoder89/homage/internal/actorctx"
	"github.com/geocoder89/homage/internal/auth"
	"github.com/geocoder89/homage/internal/domain/user"
	"github.com/geocoder89/homage/internal/observability"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenResolver interface {
	Resolve(ctx context.Context, presented string) (user.User, error)
}

type AuthMiddleware struct {
	tokens TokenResolver
	prom   *observability.Prom
}

func NewAuthMiddleware(tokens TokenResolver, prom *observability.Prom) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, prom: prom}
}

// UnauthenticatedBody is the fixed response for any rejected credential.
// Each call returns a fresh map.
func UnauthenticatedBody() gin.H {
	return gin.H{"message": "Unauthenticated."}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			m.prom.ObserveAuth("resolve", "missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthenticatedBody())
			return
		}

		u, err := m.tokens.Resolve(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				m.prom.ObserveAuth("resolve", "rejected")
				c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthenticatedBody())
				return
			}

			m.prom.ObserveAuth("resolve", "error")
			observability.ReportError(c.Request.Context(), "token_resolve_failed", err, "route", c.FullPath())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    http.StatusInternalServerError,
					"message": "Could not verify credentials",
				},
			})
			return
		}

		m.prom.ObserveAuth("resolve", "success")

		// identity travels on the request context, the log handler reads it from there
		c.Request = c.Request.WithContext(actorctx.WithUser(c.Request.Context(), u))

		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "

	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}

// Optional helpers so handlers don’t need to know where identity lives.

func UserFromContext(c *gin.Context) (user.User, bool) {
	return actorctx.UserFrom(c.Request.Context())
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	u, ok := UserFromContext(c)
	if !ok {
		return "", false
	}
	return strconv.FormatInt(u.ID, 10), true
}
