package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "authstack/internal/errors"
	"authstack/internal/model"
	"authstack/internal/session"
)

const (
	userContextKey    = "current_user"
	sessionContextKey = "current_session"
)

// LoadSession resolves the session cookie into a user and session stored on
// the request context. Requests without a valid session continue as guests;
// an invalid or expired cookie is cleared. Validation happens exactly once
// per request, so downstream handlers share the same lookup.
func LoadSession(manager *session.Manager, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, sess, fresh, err := manager.Validate(c.Request().Context(), cookie.Value)
			if err != nil {
				logger.Error().Err(err).Msg("session validation")
				return next(c)
			}
			if sess == nil {
				c.SetCookie(manager.NewBlankCookie())
				return next(c)
			}
			if fresh {
				c.SetCookie(manager.NewCookie(sess.ID, sess.ExpiresAt))
			}

			c.Set(userContextKey, user)
			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// RequireUser rejects requests that did not resolve to an authenticated user.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthorized)
			return c.JSON(http.StatusUnauthorized, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// CurrentUser returns the authenticated user for the request, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

// CurrentSession returns the validated session for the request, or nil.
func CurrentSession(c echo.Context) *model.Session {
	sess, _ := c.Get(sessionContextKey).(*model.Session)
	return sess
}
