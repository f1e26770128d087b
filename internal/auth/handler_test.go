package auth_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/scro-cloud/scro/internal/accounts"
	"github.com/scro-cloud/scro/internal/audit"
	"github.com/scro-cloud/scro/internal/auth"
	"github.com/scro-cloud/scro/internal/observability"
	"github.com/scro-cloud/scro/internal/session"
)

const testCookie = "scro_session"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := accounts.NewTestStore(accounts.DefaultSeed())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := session.NewManager(store, session.NewRecordStore(client, 24*time.Hour), 0, logger)
	handler := auth.NewHandler(logger, manager, audit.NewService(nil, logger), session.NewCSRFManager("csrfsecret"), observability.NewMetrics(), testCookie, false)

	r := chi.NewRouter()
	r.Use(session.Middleware(manager, testCookie, logger))
	r.Route("/api/v1/auth", handler.MountRoutes)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLoginSuccess(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"email":"admin@scro.com","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		User      session.User `json:"user"`
		Token     string       `json:"token"`
		CSRFToken string       `json:"csrfToken"`
		ExpiresIn int64        `json:"expiresIn"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "admin@scro.com", res.User.Email)
	require.Equal(t, accounts.RoleAdmin, res.User.Role)
	require.True(t, strings.HasPrefix(res.Token, "mock_jwt_1_"))
	require.NotEmpty(t, res.CSRFToken)
	require.Equal(t, int64(24*3600), res.ExpiresIn)

	cookie := sessionCookie(t, rr)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
}

func TestLoginInvalidCredentials(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"email":"admin@scro.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), "Invalid Credentials")
}

func TestLoginValidation(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"password":"admin123"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMeRequiresSession(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	login := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"email":"viewer@scro.com","password":"viewer123"}`)
	cookie := sessionCookie(t, login)

	rr = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "viewer@scro.com")
}

func TestLogoutClearsSession(t *testing.T) {
	router := newTestRouter(t)

	login := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"email":"viewer@scro.com","password":"viewer123"}`)
	cookie := sessionCookie(t, login)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", "", cookie)
	require.Equal(t, http.StatusNoContent, rr.Code)
	cleared := sessionCookie(t, rr)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)

	rr = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", cookie)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// Logging out again is a harmless no-op.
	rr = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", "", cookie)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRefresh(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	login := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"email":"admin@scro.com","password":"admin123"}`)
	cookie := sessionCookie(t, login)

	rr = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "mock_jwt_1_")
}

func TestSignupFlow(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", `{"name":"Bob","email":"viewer@scro.com","password":"x"}`)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", `{"name":"Bob","email":"bob@x.com","password":"Str0ng!pw"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	// No session was established by signup.
	require.Empty(t, rr.Result().Cookies())

	login := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"email":"bob@x.com","password":"Str0ng!pw"}`)
	require.Equal(t, http.StatusOK, login.Code)
	require.Contains(t, login.Body.String(), `"role":"viewer"`)
}
