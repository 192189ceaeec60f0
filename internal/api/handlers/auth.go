package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cropcura/internal/core"
	"cropcura/internal/types"
)

// LoginRequest is the request body for POST /auth/login. Blank values are
// rejected by the auth service with validation_credentials_required.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse describes the signed-in officer. The session id travels
// only in the Set-Cookie header.
type SessionResponse struct {
	User      types.User `json:"user"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// AuthService validates the demo credentials and manages persisted sessions.
type AuthService interface {
	Login(ctx context.Context, username, password, ip string) (*types.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Restore(ctx context.Context, sessionID string) (*types.Session, error)
}

// CookieConfig defines the session cookie attributes.
type CookieConfig struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
	Path     string
}

// DefaultCookieConfig returns an HttpOnly, SameSite=Lax cookie named
// cropcura_session that lives for 24 hours.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Name:     "cropcura_session",
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   24 * time.Hour,
		Path:     "/",
	}
}

// AuthHandler maps login, logout and session restore onto the auth service
// and manages the session cookie.
type AuthHandler struct {
	auth       AuthService
	workspaces Workspaces
	cookie     CookieConfig
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthService, ws Workspaces, cookie CookieConfig, l *slog.Logger) *AuthHandler {
	if l == nil {
		l = slog.Default()
	}
	if cookie.Name == "" {
		cookie = DefaultCookieConfig()
	}
	return &AuthHandler{auth: auth, workspaces: ws, cookie: cookie, logger: l}
}

// RegisterRoutes mounts the auth routes. All three are public; session and
// logout read the cookie themselves.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.HandleLogin)
		r.Post("/logout", h.HandleLogout)
		r.Get("/session", h.HandleSession)
	})
}

// HandleLogin processes POST /auth/login. On success the session cookie is
// set and the officer's workspace is created.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	session, err := h.auth.Login(r.Context(), req.Username, req.Password, core.ClientIP(r))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.workspaces.Open(session.ID)
	h.setSessionCookie(w, session.ID)

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: SessionResponse{
		User:      session.User,
		ExpiresAt: session.ExpiresAt,
	}})
}

// HandleLogout processes POST /auth/logout. It always clears the cookie; a
// missing session is not an error.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if sessionID := core.SessionToken(r, h.cookie.Name); sessionID != "" {
		if err := h.auth.Logout(r.Context(), sessionID); err != nil {
			h.logger.WarnContext(r.Context(), "failed to remove session during logout", "error", err)
		}
		h.workspaces.Close(sessionID)
	}

	h.clearSessionCookie(w)
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: messageResponse{Message: "logged out"}})
}

// HandleSession processes GET /auth/session, restoring the persisted session
// named by the cookie. A session that has expired or vanished loses its
// workspace along with the cookie.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	token := core.SessionToken(r, h.cookie.Name)
	session, err := h.auth.Restore(r.Context(), token)
	if err != nil {
		if types.IsCode(err, types.ErrCodeAuthSessionExpired) || types.IsCode(err, types.ErrCodeAuthTokenInvalid) {
			h.workspaces.Close(token)
			h.clearSessionCookie(w)
		}
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: SessionResponse{
		User:      session.User,
		ExpiresAt: session.ExpiresAt,
	}})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    sessionID,
		Path:     h.cookie.Path,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: h.cookie.SameSite,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     h.cookie.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: h.cookie.SameSite,
	})
}
