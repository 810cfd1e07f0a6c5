package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/homage/internal/auth"
	"github.com/geocoder89/homage/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type fakeResolver struct {
	ResolveFn func(ctx context.Context, presented string) (user.User, error)
}

func (f fakeResolver) Resolve(ctx context.Context, presented string) (user.User, error) {
	return f.ResolveFn(ctx, presented)
}

func newAuthEngine(r TokenResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	m := NewAuthMiddleware(r, nil)

	engine.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		u, ok := UserFromContext(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		id, _ := UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"name": u.Name, "id": id})
	})

	return engine
}

func TestRequireAuth(t *testing.T) {
	resolver := fakeResolver{
		ResolveFn: func(ctx context.Context, presented string) (user.User, error) {
			switch presented {
			case "1|good":
				return user.User{ID: 1, Name: "Ada"}, nil
			case "1|broken":
				return user.User{}, errors.New("connection refused")
			default:
				return user.User{}, auth.ErrUnauthenticated
			}
		},
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", http.StatusUnauthorized, `{"message":"Unauthenticated."}`},
		{"wrong scheme", "Basic 1|good", http.StatusUnauthorized, `{"message":"Unauthenticated."}`},
		{"unknown token", "Bearer 1|nope", http.StatusUnauthorized, `{"message":"Unauthenticated."}`},
		{"valid token", "Bearer 1|good", http.StatusOK, `{"id":"1","name":"Ada"}`},
		{"lowercase scheme", "bearer 1|good", http.StatusOK, `{"id":"1","name":"Ada"}`},
		{"storage failure", "Bearer 1|broken", http.StatusInternalServerError, ""},
	}

	engine := newAuthEngine(resolver)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			engine.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d body=%s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if tt.wantBody != "" && rr.Body.String() != tt.wantBody {
				t.Fatalf("expected body %s, got %s", tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestUnauthenticatedBodyIsNotShared(t *testing.T) {
	body := UnauthenticatedBody()
	body["message"] = "changed"
	body["extra"] = true

	engine := newAuthEngine(fakeResolver{
		ResolveFn: func(ctx context.Context, presented string) (user.User, error) {
			return user.User{}, auth.ErrUnauthenticated
		},
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))

	if rr.Body.String() != `{"message":"Unauthenticated."}` {
		t.Fatalf("expected the fixed body, got %s", rr.Body.String())
	}
}
