package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"authstack/internal/auth"
	apperrors "authstack/internal/errors"
	"authstack/internal/service"
	"authstack/internal/session"
)

// stateCookieName holds the CSRF state between the redirect to GitHub and
// the callback.
const stateCookieName = "github_oauth_state"

// GitHubProvider is the slice of auth.GitHubProvider the handler needs,
// kept as an interface so tests can stub the exchange.
type GitHubProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GitHubAccount, error)
}

// OAuthHandler drives the GitHub authorization code flow.
type OAuthHandler struct {
	provider GitHubProvider
	oauth    service.OAuthService
	sessions *session.Manager
	logger   zerolog.Logger
}

// NewOAuthHandler creates a new OAuth handler.
func NewOAuthHandler(provider GitHubProvider, oauth service.OAuthService, sessions *session.Manager, logger zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		provider: provider,
		oauth:    oauth,
		sessions: sessions,
		logger:   logger,
	}
}

// GitHubLogin godoc
// @Summary Redirect to GitHub for authorization
// @Tags oauth
// @Success 307
// @Router /auth/github/login [get]
func (h *OAuthHandler) GitHubLogin(c echo.Context) error {
	state, err := auth.GenerateToken()
	if err != nil {
		return respondError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthURL(state))
}

// GitHubCallback godoc
// @Summary Complete the GitHub OAuth flow
// @Tags oauth
// @Param code query string true "Authorization code"
// @Param state query string true "CSRF state"
// @Success 302
// @Failure 400
// @Router /auth/github/callback [get]
func (h *OAuthHandler) GitHubCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")

	// The CSRF check runs before anything touches the provider.
	stateCookie, err := c.Cookie(stateCookieName)
	if code == "" || state == "" || err != nil || stateCookie.Value == "" || state != stateCookie.Value {
		h.logger.Warn().Msg("github callback: missing or mismatched state")
		return c.NoContent(http.StatusBadRequest)
	}

	// State is single-use.
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	account, err := h.provider.Exchange(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, auth.ErrNoVerifiedEmail) {
			return h.signinRedirect(c, err.Error())
		}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			h.logger.Warn().Err(err).Msg("github callback: code exchange rejected")
			return h.signinRedirect(c, "Invalid code. Please try again.")
		}
		h.logger.Error().Err(err).Msg("github callback: exchange failed")
		return h.signinRedirect(c, "Error logging in with GitHub")
	}

	sess, err := h.oauth.SignInGitHub(c.Request().Context(), account)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailExists) || errors.Is(err, apperrors.ErrUsernameExists) {
			return h.signinRedirect(c, "Email/Username already exists. Please sign in with the same provider as used before. If you cannot remember your provider, please use the reset password feature.")
		}
		h.logger.Error().Err(err).Msg("github callback: sign-in failed")
		return h.signinRedirect(c, "Error logging in with GitHub")
	}

	c.SetCookie(h.sessions.NewCookie(sess.ID, sess.ExpiresAt))
	return c.Redirect(http.StatusFound, "/")
}

// signinRedirect encodes the error into the sign-in page URL instead of
// surfacing it as an HTTP error.
func (h *OAuthHandler) signinRedirect(c echo.Context, message string) error {
	return c.Redirect(http.StatusFound, "/auth/signin?error="+url.QueryEscape(message))
}
