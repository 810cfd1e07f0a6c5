package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/homage/internal/http/middlewares"
	"github.com/geocoder89/homage/internal/observability"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

const (
	msgInvalidCredentials = "The provided credentials are incorrect."
	msgInvalidData        = "The given data was invalid."
)

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

// RespondError writes the error envelope. code is the number reported inside
// the body, which is not always the HTTP status.
func RespondError(ctx *gin.Context, status, code int, message string, details interface{}) {
	ctx.AbortWithStatusJSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondValidation(ctx *gin.Context, details interface{}) {
	RespondError(ctx, http.StatusUnprocessableEntity, http.StatusUnprocessableEntity, msgInvalidData, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, http.StatusNotFound, message, nil)
}

// RespondInvalidCredentials answers a failed login: HTTP 400 carrying 401 in
// the body, which is what existing clients expect.
func RespondInvalidCredentials(ctx *gin.Context) {
	RespondError(ctx, http.StatusBadRequest, http.StatusUnauthorized, msgInvalidCredentials, nil)
}

func RespondUnauthenticated(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, middlewares.UnauthenticatedBody())
}

// RespondInternal reports err and answers with a generic 500.
func RespondInternal(ctx *gin.Context, message string, err error) {
	if err != nil {
		reportError(ctx.Request.Context(), message, err, "route", ctx.FullPath(), "request_id", requestIDFrom(ctx))
	}

	RespondError(ctx, http.StatusInternalServerError, http.StatusInternalServerError, message, nil)
}

// swapped in tests
var reportError = func(ctx context.Context, msg string, err error, attrs ...any) {
	observability.ReportError(ctx, msg, err, attrs...)
}
