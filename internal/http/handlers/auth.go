package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/homage/internal/auth"
	"github.com/geocoder89/homage/internal/config"
	"github.com/geocoder89/homage/internal/domain/user"
	"github.com/geocoder89/homage/internal/http/middlewares"
	"github.com/geocoder89/homage/internal/observability"
	"github.com/gin-gonic/gin"
)

type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (user.User, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, u user.User, deviceLabel string) (string, error)
	RevokeAll(ctx context.Context, userID int64) (int64, error)
}

type AuthHandler struct {
	verifier CredentialVerifier
	tokens   TokenIssuer
	prom     *observability.Prom
}

func NewAuthHandler(verifier CredentialVerifier, tokens TokenIssuer, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		tokens:   tokens,
		prom:     prom,
	}
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	DeviceName string `json:"device_name" binding:"required,max=255"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// bcrypt plus two queries
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.verifier.Verify(cctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.prom.ObserveAuth("login", "rejected")
			RespondInvalidCredentials(ctx)
			return
		}

		h.prom.ObserveAuth("login", "error")
		RespondInternal(ctx, "Could not log in", err)
		return
	}

	plain, err := h.tokens.Issue(cctx, u, req.DeviceName)
	if err != nil {
		h.prom.ObserveAuth("login", "error")
		RespondInternal(ctx, "Could not log in", err)
		return
	}

	h.prom.ObserveAuth("login", "success")

	ctx.JSON(http.StatusOK, gin.H{
		"data": LoginResponse{Token: plain, User: u},
	})
}

// Logout revokes every token the caller holds, not just the presented one.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondUnauthenticated(ctx)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if _, err := h.tokens.RevokeAll(cctx, u.ID); err != nil {
		h.prom.ObserveAuth("logout", "error")
		RespondInternal(ctx, "Could not log out", err)
		return
	}

	h.prom.ObserveAuth("logout", "success")
	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) User(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondUnauthenticated(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": u})
}
