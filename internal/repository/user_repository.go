package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	apperrors "authstack/internal/errors"
	"authstack/internal/model"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	FindByVerifyEmailToken(ctx context.Context, token string) (*model.User, error)
	FindByResetPasswordToken(ctx context.Context, token string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateDuplicateKey(err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) FindByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	return r.findOne(ctx, "github_id = ?", githubID)
}

func (r *userRepository) FindByVerifyEmailToken(ctx context.Context, token string) (*model.User, error) {
	return r.findOne(ctx, "verify_email_token = ?", token)
}

func (r *userRepository) FindByResetPasswordToken(ctx context.Context, token string) (*model.User, error) {
	return r.findOne(ctx, "reset_password_token = ?", token)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists the full row, including cleared nullable columns such as
// consumed token fields. Save is used instead of Updates so nil pointers
// write NULL rather than being skipped.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return translateDuplicateKey(err)
	}
	return nil
}

// translateDuplicateKey converts MySQL duplicate-entry failures (error 1062)
// into typed domain errors keyed on the violated unique index, so callers
// never pattern-match driver error text themselves.
func translateDuplicateKey(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return err
	}
	switch {
	case strings.Contains(mysqlErr.Message, "uniq_users_email"):
		return apperrors.ErrEmailExists
	case strings.Contains(mysqlErr.Message, "uniq_users_username"):
		return apperrors.ErrUsernameExists
	default:
		return err
	}
}
