package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"authstack/internal/auth"
	"authstack/internal/config"
	apperrors "authstack/internal/errors"
	"authstack/internal/mailer"
	"authstack/internal/model"
	"authstack/internal/repository"
)

// resetTokenExpiry is how long a password reset token stays valid after issue.
const resetTokenExpiry = 24 * time.Hour

// SessionManager is the slice of session.Manager the services need.
type SessionManager interface {
	Create(ctx context.Context, userID string) (*model.Session, error)
	Invalidate(ctx context.Context, sessionID string) error
}

// AuthService handles registration, sign-in and the token-based email
// verification and password reset flows.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context, sessionID string) error
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// SignUpResult carries the new user id and, when email verification is
// disabled, the session established immediately.
type SignUpResult struct {
	UserID  string
	Session *model.Session
}

type authService struct {
	users    repository.UserRepository
	sessions SessionManager
	hasher   *auth.PasswordHasher
	mail     mailer.Mailer
	cfg      *config.Config
	logger   zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	sessions SessionManager,
	hasher *auth.PasswordHasher,
	mail mailer.Mailer,
	cfg *config.Config,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		mail:     mail,
		cfg:      cfg,
		logger:   logger,
	}
}

// SignUp registers a password-provider account. When the mail service is
// disabled a session is established right away; otherwise a verification
// email is sent and no session exists until sign-in after verification.
func (s *authService) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	verifyToken, err := auth.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		ID:                        uuid.NewString(),
		Email:                     email,
		Username:                  usernameFromEmail(email),
		AuthProvider:              model.ProviderPassword,
		HashedPassword:            &hashed,
		VerifyEmailToken:          &verifyToken,
		VerifyEmailAddress:        &email,
		VerifyEmailTokenCreatedAt: &now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if !s.cfg.VerificationRequired() {
		session, err := s.sessions.Create(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return &SignUpResult{UserID: user.ID, Session: session}, nil
	}

	link := fmt.Sprintf("%s/auth/verify-email?token=%s", s.cfg.AppURL, verifyToken)
	html := fmt.Sprintf(`Welcome on board!<br><br>Please verify your email by clicking on the link below:<br><a href="%s">Verify your email</a>`, link)
	if err := s.mail.Send([]string{email}, "Verify your email", html); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("verification email sent")
	return &SignUpResult{UserID: user.ID}, nil
}

// SignIn authenticates a password-provider account and creates a session.
// A missing user, a passwordless OAuth account, and a wrong password all
// fail with the same error.
func (s *authService) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.HasPassword() {
		return nil, apperrors.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, *user.HashedPassword)
	if err != nil || !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	if s.cfg.VerificationRequired() && !user.IsVerified() {
		return nil, apperrors.ErrEmailNotVerified
	}

	return s.sessions.Create(ctx, user.ID)
}

// SignOut invalidates the session row. The handler clears the cookie.
func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	return s.sessions.Invalidate(ctx, sessionID)
}

// VerifyEmail consumes a verification token: the pending address becomes the
// primary email, the token fields are cleared and the account is marked
// verified. A consumed or unknown token fails with Invalid token.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.FindByVerifyEmailToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrInvalidToken
	}
	if err != nil {
		return err
	}

	if user.VerifyEmailAddress != nil && *user.VerifyEmailAddress != "" {
		user.Email = *user.VerifyEmailAddress
	}
	user.VerifyEmailToken = nil
	user.VerifyEmailAddress = nil
	user.VerifyEmailTokenCreatedAt = nil
	now := time.Now()
	user.VerifiedAt = &now

	return s.users.Update(ctx, user)
}

// ForgotPassword issues a reset token and emails the reset link.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUserNotFound
	}
	if err != nil {
		return err
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return err
	}

	now := time.Now()
	user.ResetPasswordToken = &token
	user.ResetPasswordTokenCreatedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/reset-password?token=%s", s.cfg.AppURL, token)
	html := fmt.Sprintf(`Reset your password by clicking on the link below:<br><a href="%s">Reset your password</a>`, link)
	return s.mail.Send([]string{user.Email}, "Reset your password", html)
}

// VerifyResetToken checks a reset token for existence and the 24-hour
// expiry window without consuming it.
func (s *authService) VerifyResetToken(ctx context.Context, token string) error {
	user, err := s.users.FindByResetPasswordToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrInvalidToken
	}
	if err != nil {
		return err
	}

	if resetTokenExpired(user) {
		return apperrors.ErrTokenExpired
	}
	return nil
}

// ResetPassword consumes a reset token: the new password is hashed in, the
// token pair is cleared and the account is marked verified.
func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.users.FindByResetPasswordToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrInvalidToken
	}
	if err != nil {
		return err
	}

	if resetTokenExpired(user) {
		return apperrors.ErrTokenExpired
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	user.HashedPassword = &hashed
	user.ResetPasswordToken = nil
	user.ResetPasswordTokenCreatedAt = nil
	now := time.Now()
	user.VerifiedAt = &now

	return s.users.Update(ctx, user)
}

func resetTokenExpired(user *model.User) bool {
	return user.ResetPasswordTokenCreatedAt != nil &&
		time.Now().After(user.ResetPasswordTokenCreatedAt.Add(resetTokenExpiry))
}

// usernameFromEmail derives an initial username from the email local part
// plus random digits, to be customized later via profile update.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return fmt.Sprintf("%s%d", local, rand.IntN(1000000))
}
