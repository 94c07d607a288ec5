// Command seed populates the database with demo accounts for local
// development and prunes expired sessions. Safe to run repeatedly;
// existing accounts are left untouched.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"authstack/internal/auth"
	"authstack/internal/config"
	"authstack/internal/db"
	apperrors "authstack/internal/errors"
	"authstack/internal/model"
	"authstack/internal/repository"
)

var demoAccounts = []struct {
	email    string
	username string
	password string
}{
	{"alice@example.com", "alice", "password-alice"},
	{"bob@example.com", "bob", "password-bob"},
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init")
	}
	if err := db.Migrate(gormDB, false); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	sessions := repository.NewSessionRepository(gormDB)
	hasher := auth.NewPasswordHasher()

	created := 0
	for _, acc := range demoAccounts {
		hashed, err := hasher.Hash(acc.password)
		if err != nil {
			logger.Fatal().Err(err).Msg("hash password")
		}

		now := time.Now()
		user := &model.User{
			ID:             uuid.NewString(),
			Email:          acc.email,
			Username:       acc.username,
			AuthProvider:   model.ProviderPassword,
			HashedPassword: &hashed,
			VerifiedAt:     &now,
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, apperrors.ErrEmailExists) || errors.Is(err, apperrors.ErrUsernameExists) {
				logger.Info().Str("email", acc.email).Msg("account exists, skipping")
				continue
			}
			logger.Fatal().Err(err).Str("email", acc.email).Msg("create account")
		}
		created++
	}

	pruned, err := sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		logger.Fatal().Err(err).Msg("prune sessions")
	}

	logger.Info().Int("created", created).Int64("sessions_pruned", pruned).Msg("seed complete")
}
