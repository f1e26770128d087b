// Package auth wires the HTTP endpoints for session lifecycle: login,
// signup, logout, token refresh and identity lookup.
package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/scro-cloud/scro/internal/accounts"
	"github.com/scro-cloud/scro/internal/audit"
	"github.com/scro-cloud/scro/internal/observability"
	"github.com/scro-cloud/scro/internal/platform/httpx"
	"github.com/scro-cloud/scro/internal/session"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger     *slog.Logger
	manager    *session.Manager
	audit      *audit.Service
	csrf       *session.CSRFManager
	metrics    *observability.Metrics
	validator  *validator.Validate
	cookieName string
	secure     bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, manager *session.Manager, auditSvc *audit.Service, csrf *session.CSRFManager, metrics *observability.Metrics, cookieName string, secure bool) *Handler {
	return &Handler{
		logger:     logger,
		manager:    manager,
		audit:      auditSvc,
		csrf:       csrf,
		metrics:    metrics,
		validator:  validator.New(),
		cookieName: cookieName,
		secure:     secure,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/signup", h.handleSignup)
	r.Post("/logout", h.handleLogout)
	r.Post("/refresh", h.handleRefresh)
	r.Get("/me", h.handleMe)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User      *session.User `json:"user"`
	Token     string        `json:"token"`
	CSRFToken string        `json:"csrfToken"`
	ExpiresIn int64         `json:"expiresIn"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	res, err := h.manager.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			h.metrics.CountAuthAttempt("login", "invalid_credentials")
			httpx.Problem(w, http.StatusUnauthorized, "Invalid Credentials", "email or password is incorrect")
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	h.metrics.CountAuthAttempt("login", "success")
	h.audit.RecordLogin(r.Context(), audit.SessionRecord{
		ID:        res.RecordID,
		UserID:    res.Session.User.ID,
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(h.manager.TTL()),
	})

	session.SetCookie(w, h.cookieName, res.RecordID, h.manager.TTL(), h.secure)
	httpx.JSON(w, http.StatusOK, loginResponse{
		User:      res.Session.User,
		Token:     res.Token,
		CSRFToken: h.csrf.Token(res.RecordID),
		ExpiresIn: int64(h.manager.TTL().Seconds()),
	})
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.manager.Signup(r.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, accounts.ErrEmailTaken) {
			h.metrics.CountAuthAttempt("signup", "email_taken")
			httpx.Problem(w, http.StatusConflict, "Email Taken", "an account with this email already exists")
			return
		}
		h.logger.Error("signup", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	h.metrics.CountAuthAttempt("signup", "success")
	// Signup never authenticates: the caller logs in separately.
	httpx.JSON(w, http.StatusCreated, map[string]any{"registered": true})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	recordID := session.RecordIDFromContext(r.Context())
	if err := h.manager.Logout(r.Context(), recordID); err != nil {
		h.logger.Warn("logout", slog.Any("error", err))
	}
	if recordID != "" {
		h.audit.RecordLogout(r.Context(), recordID)
	}
	session.ClearCookie(w, h.cookieName, h.secure)
	w.WriteHeader(http.StatusNoContent)
}

type refreshResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	recordID := session.RecordIDFromContext(r.Context())
	token, err := h.manager.Refresh(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			httpx.Problem(w, http.StatusUnauthorized, "Authentication Required", "no active session to refresh")
			return
		}
		h.logger.Error("refresh", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	session.SetCookie(w, h.cookieName, recordID, h.manager.TTL(), h.secure)
	httpx.JSON(w, http.StatusOK, refreshResponse{Token: token, ExpiresIn: int64(h.manager.TTL().Seconds())})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if !sess.IsAuthenticated {
		httpx.Problem(w, http.StatusUnauthorized, "Authentication Required", "sign in to access this resource")
		return
	}
	httpx.JSON(w, http.StatusOK, sess.User)
}
