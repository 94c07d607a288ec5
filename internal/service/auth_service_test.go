package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"authstack/internal/auth"
	"authstack/internal/config"
	apperrors "authstack/internal/errors"
	"authstack/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	args := m.Called(ctx, githubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByVerifyEmailToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetPasswordToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockSessionManager is a mock implementation of SessionManager.
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) Create(ctx context.Context, userID string) (*model.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionManager) Invalidate(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockMailer is a mock implementation of mailer.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to []string, subject, html string) error {
	args := m.Called(to, subject, html)
	return args.Error(0)
}

func newTestAuthService(users *MockUserRepository, sessions *MockSessionManager, mail *MockMailer, cfg *config.Config) AuthService {
	return NewAuthService(users, sessions, auth.NewPasswordHasher(), mail, cfg, zerolog.Nop())
}

func mailDisabledConfig() *config.Config {
	return &config.Config{AppURL: "http://localhost:8080"}
}

func mailEnabledConfig() *config.Config {
	return &config.Config{
		AppURL:                "http://localhost:8080",
		EnableMailService:     true,
		SendVerificationEmail: true,
	}
}

func TestAuthService_SignUp_MailDisabled(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionManager)
	mail := new(MockMailer)
	svc := newTestAuthService(users, sessions, mail, mailDisabledConfig())

	var created *model.User
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
		}).
		Return(nil)
	sessions.On("Create", mock.Anything, mock.AnythingOfType("string")).
		Return(&model.Session{ID: "sess", ExpiresAt: time.Now().Add(time.Hour)}, nil)

	result, err := svc.SignUp(context.Background(), "a@x.com", "password1")

	assert.NoError(t, err)
	assert.NotEmpty(t, result.UserID)
	assert.NotNil(t, result.Session, "mail disabled sign-up must establish a session")

	assert.Equal(t, "a@x.com", created.Email)
	assert.Equal(t, model.ProviderPassword, created.AuthProvider)
	assert.NotNil(t, created.HashedPassword)
	assert.NotEqual(t, "password1", *created.HashedPassword)
	assert.NotNil(t, created.VerifyEmailToken)
	assert.Equal(t, "a@x.com", *created.VerifyEmailAddress)
	assert.Contains(t, created.Username, "a")

	mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_SignUp_MailEnabled(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionManager)
	mail := new(MockMailer)
	svc := newTestAuthService(users, sessions, mail, mailEnabledConfig())

	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	mail.On("Send", []string{"a@x.com"}, "Verify your email", mock.AnythingOfType("string")).Return(nil)

	result, err := svc.SignUp(context.Background(), "a@x.com", "password1")

	assert.NoError(t, err)
	assert.Nil(t, result.Session, "no session until the email is verified")
	mail.AssertExpectations(t)
	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionManager)
	mail := new(MockMailer)
	svc := newTestAuthService(users, sessions, mail, mailDisabledConfig())

	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Return(apperrors.ErrEmailExists)

	result, err := svc.SignUp(context.Background(), "a@x.com", "password1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)
}

func TestAuthService_SignIn(t *testing.T) {
	hasher := auth.NewPasswordHasher()
	hashed, err := hasher.Hash("correct-password")
	assert.NoError(t, err)
	verified := time.Now()

	tests := []struct {
		name     string
		cfg      *config.Config
		user     *model.User
		findErr  error
		password string
		wantErr  error
	}{
		{
			name:     "unknown email",
			cfg:      mailDisabledConfig(),
			findErr:  gorm.ErrRecordNotFound,
			password: "whatever",
			wantErr:  apperrors.ErrInvalidCredentials,
		},
		{
			name: "oauth account without password",
			cfg:  mailDisabledConfig(),
			user: &model.User{
				ID:           "u1",
				AuthProvider: model.ProviderGitHub,
			},
			password: "whatever",
			wantErr:  apperrors.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			cfg:  mailDisabledConfig(),
			user: &model.User{
				ID:             "u1",
				AuthProvider:   model.ProviderPassword,
				HashedPassword: &hashed,
				VerifiedAt:     &verified,
			},
			password: "wrong-password",
			wantErr:  apperrors.ErrInvalidCredentials,
		},
		{
			name: "unverified account with verification required",
			cfg:  mailEnabledConfig(),
			user: &model.User{
				ID:             "u1",
				AuthProvider:   model.ProviderPassword,
				HashedPassword: &hashed,
			},
			password: "correct-password",
			wantErr:  apperrors.ErrEmailNotVerified,
		},
		{
			name: "success",
			cfg:  mailEnabledConfig(),
			user: &model.User{
				ID:             "u1",
				AuthProvider:   model.ProviderPassword,
				HashedPassword: &hashed,
				VerifiedAt:     &verified,
			},
			password: "correct-password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			sessions := new(MockSessionManager)
			svc := newTestAuthService(users, sessions, new(MockMailer), tt.cfg)

			if tt.findErr != nil {
				users.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, tt.findErr)
			} else {
				users.On("FindByEmail", mock.Anything, "a@x.com").Return(tt.user, nil)
			}
			sessions.On("Create", mock.Anything, "u1").
				Return(&model.Session{ID: "sess", UserID: "u1"}, nil)

			sess, err := svc.SignIn(context.Background(), "a@x.com", tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sess)
				sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "u1", sess.UserID)
			}
		})
	}
}

func TestAuthService_VerifyEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users, new(MockSessionManager), new(MockMailer), mailEnabledConfig())

	token := "verify-token"
	pending := "new@x.com"
	createdAt := time.Now()
	user := &model.User{
		ID:                        "u1",
		Email:                     "old@x.com",
		VerifyEmailToken:          &token,
		VerifyEmailAddress:        &pending,
		VerifyEmailTokenCreatedAt: &createdAt,
	}

	users.On("FindByVerifyEmailToken", mock.Anything, token).Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)

	err := svc.VerifyEmail(context.Background(), token)

	assert.NoError(t, err)
	assert.Equal(t, "new@x.com", user.Email, "pending address becomes primary")
	assert.Nil(t, user.VerifyEmailToken)
	assert.Nil(t, user.VerifyEmailAddress)
	assert.Nil(t, user.VerifyEmailTokenCreatedAt)
	assert.NotNil(t, user.VerifiedAt)
}

func TestAuthService_VerifyEmail_ReplayFails(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users, new(MockSessionManager), new(MockMailer), mailEnabledConfig())

	// The token was consumed, so the lookup no longer matches.
	users.On("FindByVerifyEmailToken", mock.Anything, "used-token").
		Return(nil, gorm.ErrRecordNotFound)

	err := svc.VerifyEmail(context.Background(), "used-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	users := new(MockUserRepository)
	mail := new(MockMailer)
	svc := newTestAuthService(users, new(MockSessionManager), mail, mailEnabledConfig())

	user := &model.User{ID: "u1", Email: "a@x.com"}
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)
	mail.On("Send", []string{"a@x.com"}, "Reset your password", mock.AnythingOfType("string")).Return(nil)

	err := svc.ForgotPassword(context.Background(), "a@x.com")

	assert.NoError(t, err)
	assert.NotNil(t, user.ResetPasswordToken)
	assert.Len(t, *user.ResetPasswordToken, 40)
	assert.NotNil(t, user.ResetPasswordTokenCreatedAt)
	mail.AssertExpectations(t)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users, new(MockSessionManager), new(MockMailer), mailEnabledConfig())

	users.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)

	err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAuthService_VerifyResetToken(t *testing.T) {
	fresh := time.Now().Add(-time.Hour)
	stale := time.Now().Add(-25 * time.Hour)
	token := "reset-token"

	tests := []struct {
		name      string
		user      *model.User
		findErr   error
		wantErr   error
	}{
		{
			name:    "unknown token",
			findErr: gorm.ErrRecordNotFound,
			wantErr: apperrors.ErrInvalidToken,
		},
		{
			name: "expired after 24 hours",
			user: &model.User{
				ID:                          "u1",
				ResetPasswordToken:          &token,
				ResetPasswordTokenCreatedAt: &stale,
			},
			wantErr: apperrors.ErrTokenExpired,
		},
		{
			name: "valid within window",
			user: &model.User{
				ID:                          "u1",
				ResetPasswordToken:          &token,
				ResetPasswordTokenCreatedAt: &fresh,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			svc := newTestAuthService(users, new(MockSessionManager), new(MockMailer), mailEnabledConfig())

			if tt.findErr != nil {
				users.On("FindByResetPasswordToken", mock.Anything, token).Return(nil, tt.findErr)
			} else {
				users.On("FindByResetPasswordToken", mock.Anything, token).Return(tt.user, nil)
			}

			err := svc.VerifyResetToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				// Verification must not consume the token.
				users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users, new(MockSessionManager), new(MockMailer), mailEnabledConfig())

	token := "reset-token"
	createdAt := time.Now().Add(-time.Hour)
	old := "old-hash"
	user := &model.User{
		ID:                          "u1",
		HashedPassword:              &old,
		ResetPasswordToken:          &token,
		ResetPasswordTokenCreatedAt: &createdAt,
	}

	users.On("FindByResetPasswordToken", mock.Anything, token).Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)

	err := svc.ResetPassword(context.Background(), token, "new-password")

	assert.NoError(t, err)
	assert.NotEqual(t, "old-hash", *user.HashedPassword)
	assert.Nil(t, user.ResetPasswordToken, "token is single-use")
	assert.Nil(t, user.ResetPasswordTokenCreatedAt)
	assert.NotNil(t, user.VerifiedAt, "a successful reset proves email ownership")
}

func TestAuthService_SignOut(t *testing.T) {
	sessions := new(MockSessionManager)
	svc := newTestAuthService(new(MockUserRepository), sessions, new(MockMailer), mailDisabledConfig())

	sessions.On("Invalidate", mock.Anything, "sess-1").Return(nil)

	assert.NoError(t, svc.SignOut(context.Background(), "sess-1"))
	sessions.AssertExpectations(t)
}
