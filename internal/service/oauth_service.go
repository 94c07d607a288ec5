package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"authstack/internal/auth"
	"authstack/internal/model"
	"authstack/internal/repository"
)

// OAuthService links GitHub accounts to local users and signs them in.
type OAuthService interface {
	// SignInGitHub resolves an exchanged GitHub account to a local user,
	// creating one on first login, and establishes a session.
	SignInGitHub(ctx context.Context, account *auth.GitHubAccount) (*model.Session, error)
}

type oauthService struct {
	users    repository.UserRepository
	sessions SessionManager
	logger   zerolog.Logger
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(users repository.UserRepository, sessions SessionManager, logger zerolog.Logger) OAuthService {
	return &oauthService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *oauthService) SignInGitHub(ctx context.Context, account *auth.GitHubAccount) (*model.Session, error) {
	existing, err := s.users.FindByGitHubID(ctx, account.User.ID)
	if err == nil {
		return s.sessions.Create(ctx, existing.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// First GitHub login: create a local account tagged with the provider.
	// GitHub accounts carry no local password and their email arrives
	// already verified.
	githubID := account.User.ID
	var avatar *string
	if account.User.AvatarURL != "" {
		avatar = &account.User.AvatarURL
	}
	now := time.Now()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        account.PrimaryEmail,
		Username:     account.User.Login,
		AuthProvider: model.ProviderGitHub,
		GitHubID:     &githubID,
		AvatarURL:    avatar,
		VerifiedAt:   &now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Typed duplicate errors (email or username held by a password
		// account) propagate so the callback can redirect with a message.
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Int64("github_id", githubID).Msg("user created via github")
	return s.sessions.Create(ctx, user.ID)
}
