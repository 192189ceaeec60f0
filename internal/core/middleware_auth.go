package core

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"cropcura/internal/types"
)

// defaultSessionCookie is used when the config does not name a cookie.
const defaultSessionCookie = "cropcura_session"

// authPublicPaths lists URL paths that are exempt from authentication. The
// auth endpoints resolve (or tolerate) a missing session themselves.
var authPublicPaths = map[string]bool{
	"/health":          true,
	"/metrics":         true,
	"/v1/auth/login":   true,
	"/v1/auth/logout":  true,
	"/v1/auth/session": true,
}

// AuthMiddleware resolves the session token to an Actor and injects it via
// types.WithActor. The token is read from the session cookie first, then
// from an "Authorization: Bearer" header. Failures return 401 with
// auth_token_missing, auth_token_invalid or auth_session_expired.
//
// Expired and unknown sessions are reported to SessionEnded when it is set.
// If Authenticator is nil the middleware passes through.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Authenticator == nil || authPublicPaths[r.URL.Path] || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := SessionToken(r, s.SessionCookieName())
		if token == "" {
			s.writeAuthError(w, r, types.ErrCodeAuthTokenMissing, "Sign in to continue")
			return
		}

		actor, err := s.Authenticator.ResolveToken(r.Context(), token)
		if err != nil {
			if types.IsCode(err, types.ErrCodeAuthSessionExpired) || types.IsCode(err, types.ErrCodeAuthTokenInvalid) {
				s.endSession(token)
			}
			s.handleAuthError(w, r, err)
			return
		}
		if actor == nil {
			s.writeAuthError(w, r, types.ErrCodeAuthTokenInvalid, "Invalid session")
			return
		}

		next.ServeHTTP(w, r.WithContext(types.WithActor(r.Context(), *actor)))
	})
}

func (s *Server) endSession(token string) {
	if s.SessionEnded != nil {
		s.SessionEnded(token)
	}
}

// SessionCookieName returns the configured session cookie name.
func (s *Server) SessionCookieName() string {
	if s.Config != nil && s.Config.Auth.CookieName != "" {
		return s.Config.Auth.CookieName
	}
	return defaultSessionCookie
}

// SessionToken extracts the session id from the named cookie or, failing
// that, from a Bearer Authorization header. Returns "" when neither is set.
func SessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return extractBearerToken(r.Header.Get("Authorization"))
}

// extractBearerToken parses "Bearer <token>" (case-insensitive scheme per
// RFC 7235).
func extractBearerToken(authHeader string) string {
	const prefix = "Bearer "
	if len(authHeader) < len(prefix) {
		return ""
	}
	if !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(prefix):])
}

// handleAuthError maps a ResolveToken error onto a 401 response.
func (s *Server) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case types.ErrCodeAuthSessionExpired:
			s.Logger.Warn("authentication failed: session expired",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			s.writeAuthError(w, r, types.ErrCodeAuthSessionExpired, "Session has expired")
			return
		case types.ErrCodeAuthTokenInvalid, types.ErrCodeAuthTokenMissing:
			s.Logger.Warn("authentication failed: token invalid",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("error_code", string(appErr.Code)),
			)
			s.writeAuthError(w, r, appErr.Code, "Invalid session")
			return
		}
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			s.Logger.Error("authentication failed: session backend error",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
			Error(w, r, err)
			return
		}
	}

	s.Logger.Error("authentication failed: unexpected error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	s.writeAuthError(w, r, types.ErrCodeAuthTokenInvalid, "Authentication failed")
}

func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, code types.ErrorCode, message string) {
	JSON(w, r, http.StatusUnauthorized, errorBody(r, code, message, nil))
}
