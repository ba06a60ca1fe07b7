package handler

import (
	"context"      // context with cancellation for DB calls
	"errors"       // sentinel error matching
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/ai-assistant-api/internal/config"     // app configuration
	"github.com/iliyamo/ai-assistant-api/internal/model"      // record types
	"github.com/iliyamo/ai-assistant-api/internal/repository" // DB repositories
	"github.com/iliyamo/ai-assistant-api/internal/utils"      // helper functions (hashing, token issuing)
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *repository.SessionRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type sessionReq struct {
	SessionToken string `json:"session_token"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    model.Profile `json:"user"`
	Access  tokenPart     `json:"access"`
	Session tokenPart     `json:"session"`
}

// validationStatus maps credential-store sentinels to HTTP codes so
// every auth endpoint reports them the same way.
func validationStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidIdentity),
		errors.Is(err, repository.ErrWeakPassword):
		return http.StatusBadRequest, true
	case errors.Is(err, repository.ErrDuplicateIdentity):
		return http.StatusConflict, true
	case errors.Is(err, repository.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, true
	}
	return 0, false
}

// Register: create the user record. The client logs in separately; an
// account existing and a session existing are different things here.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Register(ctx, req.Email, req.Name, req.Password); err != nil {
		if code, ok := validationStatus(err); ok {
			return c.JSON(code, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	profile, err := h.Users.GetProfile(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": profile})
}

// Login: verify credentials, then mint an access JWT plus an opaque
// session token whose hash is stored server-side with an expiry.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	profile, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, profile.Email, profile.Name, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	session, err := utils.NewSessionToken(h.Cfg.SessionTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	if err := h.Sessions.Store(ctx, profile.Email, utils.HashSessionRaw(session.Raw), session.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save session failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    profile,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Session: tokenPart{Token: session.Raw, Expires: session.Exp}, // raw back to client
	})
}

// RefreshAccess: validate a session token and return a fresh access
// JWT without rotating the session.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.SessionToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_token required"})
	}
	hash := utils.HashSessionRaw(strings.TrimSpace(req.SessionToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	email, err := h.Sessions.Validate(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
	}
	profile, err := h.Users.GetProfile(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, profile.Email, profile.Name, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout: revoke a specific session token, or every session of the
// authenticated user when the body carries no token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req sessionReq
	_ = c.Bind(&req)
	token := strings.TrimSpace(req.SessionToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if token != "" {
		hash := utils.HashSessionRaw(token)
		if _, err := h.Sessions.Validate(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
		}
		if err := h.Sessions.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	// No token in the body: fall back to the JWT identity and revoke
	// every active session for that user.
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide session_token or Authorization header"})
	}
	if err := h.Sessions.RevokeAllFor(ctx, email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile, digest stripped.
func (h *AuthHandler) Me(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	profile, err := h.Users.GetProfile(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": profile})
}

// ChangePassword verifies the current password and replaces it.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.ChangePassword(ctx, email, req.CurrentPassword, req.NewPassword); err != nil {
		if code, ok := validationStatus(err); ok {
			return c.JSON(code, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "change password failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// DeleteAccount removes the authenticated user and cascades to their
// history, feedback and sessions.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	deleted, err := h.Users.Delete(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers returns every registered profile, digests stripped.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	profiles, err := h.Users.ListProfiles(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": profiles})
}

// currentEmail extracts the authenticated identity placed in the
// context by the JWT middleware.
func currentEmail(c echo.Context) string {
	if v, ok := c.Get("email").(string); ok {
		return v
	}
	return ""
}
