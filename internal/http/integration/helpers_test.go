package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/homage/internal/config"
	"github.com/gin-gonic/gin"
)

func testConfig() config.Config {
	return config.Config{
		Env:                "test",
		TokenHashKey:       "test-hash-key",
		ServiceName:        "homage-test",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		MaxBodyBytes:       1 << 20,
		APIRateLimit:       1000,
		LoginRateLimit:     1000,
		RateLimitWindow:    time.Minute,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// function that runs a request with an optional bearer token

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

type loginResponse struct {
	Data struct {
		Token string `json:"token"`
		User  struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	} `json:"data"`
}

type apiErrorResponse struct {
	Error struct {
		Code      int    `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

type resourceBody struct {
	Data struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Code      string `json:"code"`
		CreatedBy struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"created_by"`
		UpdatedBy struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"updated_by"`
	} `json:"data"`
}

func login(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	body := `{"email":"` + email + `","password":"` + password + `","device_name":"integration"}`
	w := doRequest(router, http.MethodPost, "/auth/login", body, "")

	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp loginResponse
	mustReadJSON(t, w, &resp)

	if strings.TrimSpace(resp.Data.Token) == "" {
		t.Fatalf("login expected token, got empty")
	}

	return resp.Data.Token
}
