package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"authstack/internal/auth"
	"authstack/internal/cache"
	"authstack/internal/config"
	apperrors "authstack/internal/errors"
	"authstack/internal/mailer"
	"authstack/internal/model"
	"authstack/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ProfileService reads and updates the authenticated user's profile.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*model.User, error)
	Update(ctx context.Context, userID string, params UpdateProfileParams) (*UpdateProfileResult, error)
}

// UpdateProfileParams is the submitted profile form.
type UpdateProfileParams struct {
	Email    string
	Username string
	Avatar   *string
}

// UpdateProfileResult reports whether an email change was routed through
// pending verification instead of applied directly.
type UpdateProfileResult struct {
	EmailChangePending bool
}

type profileService struct {
	users  repository.UserRepository
	cache  *cache.Client
	mail   mailer.Mailer
	cfg    *config.Config
	logger zerolog.Logger
}

// NewProfileService builds a ProfileService with repository and cache.
func NewProfileService(
	users repository.UserRepository,
	cache *cache.Client,
	mail mailer.Mailer,
	cfg *config.Config,
	logger zerolog.Logger,
) ProfileService {
	return &profileService{
		users:  users,
		cache:  cache,
		mail:   mail,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *profileService) cacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *profileService) Get(ctx context.Context, userID string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(userID)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(userID), payload, userCacheTTL)
	}
	return user, nil
}

// Update applies profile changes. For password-provider accounts an email
// change never touches the primary address while verification is enabled:
// it populates the pending-verification fields and sends a confirmation
// link to the new address. External-provider accounts cannot change email
// at all. Username and avatar update directly.
func (s *profileService) Update(ctx context.Context, userID string, params UpdateProfileParams) (*UpdateProfileResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	emailChanged := params.Email != "" && params.Email != user.Email
	if emailChanged && user.AuthProvider != model.ProviderPassword {
		return nil, apperrors.ErrEmailChangeNotAllowed
	}

	pending := false
	var verifyToken string
	if emailChanged {
		if s.cfg.VerificationRequired() {
			verifyToken, err = auth.GenerateToken()
			if err != nil {
				return nil, err
			}
			now := time.Now()
			newEmail := params.Email
			user.VerifyEmailAddress = &newEmail
			user.VerifyEmailToken = &verifyToken
			user.VerifyEmailTokenCreatedAt = &now
			pending = true
		} else {
			user.Email = params.Email
		}
	}

	if params.Username != "" && params.Username != user.Username {
		user.Username = params.Username
	}
	if params.Avatar != nil && *params.Avatar != "" {
		if user.AvatarURL == nil || *user.AvatarURL != *params.Avatar {
			user.AvatarURL = params.Avatar
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(userID))

	if pending {
		link := fmt.Sprintf("%s/auth/verify-email?token=%s", s.cfg.AppURL, verifyToken)
		html := fmt.Sprintf(`You changed your email!<br><br>Please verify your email by clicking on the link below:<br><a href="%s">Verify your email</a>`, link)
		if err := s.mail.Send([]string{params.Email}, "Verify your email", html); err != nil {
			return nil, err
		}
	}

	return &UpdateProfileResult{EmailChangePending: pending}, nil
}
