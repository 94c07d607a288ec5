package main

import (
	"context"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"authstack/docs"
	"authstack/internal/auth"
	"authstack/internal/cache"
	"authstack/internal/config"
	"authstack/internal/db"
	"authstack/internal/handler"
	"authstack/internal/mailer"
	"authstack/internal/repository"
	"authstack/internal/router"
	"authstack/internal/service"
	"authstack/internal/session"
)

// @title Authstack API
// @version 1.0
// @description Account service with password and GitHub OAuth sign-in, email verification, password reset and profile editing.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init")
	}

	if cfg.ResetDB {
		logger.Info().Msg("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	cacheClient := cache.New(cfg)
	if err := cacheClient.Ping(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, profile cache disabled")
	}

	// Repositories
	users := repository.NewUserRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)

	// Auth components
	sessions := session.NewManager(sessionRepo, users, cfg.CookieSecure, logger)
	hasher := auth.NewPasswordHasher()
	github := auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubCallbackURL)
	mail := mailer.New(cfg, logger)

	// Services
	authService := service.NewAuthService(users, sessions, hasher, mail, cfg, logger)
	oauthService := service.NewOAuthService(users, sessions, logger)
	profileService := service.NewProfileService(users, cacheClient, mail, cfg, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, sessions)
	oauthHandler := handler.NewOAuthHandler(github, oauthService, sessions, logger)
	profileHandler := handler.NewProfileHandler(profileService)

	// Routes
	router.Register(e, sessions, logger, authHandler, oauthHandler, profileHandler)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	addr := ":" + cfg.ServerPort
	logger.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server start")
	}
}
