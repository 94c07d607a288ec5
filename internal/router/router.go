package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"authstack/internal/handler"
	"authstack/internal/middleware"
	"authstack/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	sessions *session.Manager,
	logger zerolog.Logger,
	authHandler *handler.AuthHandler,
	oauthHandler *handler.OAuthHandler,
	profileHandler *handler.ProfileHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.LoadSession(sessions, logger))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// OAuth endpoints live outside /api: the browser navigates to them directly.
	e.GET("/auth/github/login", oauthHandler.GitHubLogin)
	e.GET("/auth/github/callback", oauthHandler.GitHubCallback)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.SignUp)
	api.POST("/auth/signin", authHandler.SignIn)
	api.POST("/auth/verify-email", authHandler.VerifyEmail)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/verify-reset-token", authHandler.VerifyResetToken)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	// Secured routes (require a valid session cookie)
	secured := api.Group("", middleware.RequireUser)
	secured.POST("/auth/signout", authHandler.SignOut)
	secured.GET("/me", profileHandler.Me)
	secured.PUT("/profile", profileHandler.UpdateProfile)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
