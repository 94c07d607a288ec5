package model

import "time"

// Auth provider tags. A user signs in either with a local password or
// through an external OAuth provider.
const (
	ProviderPassword = "password"
	ProviderGitHub   = "github"
)

// User represents an account in the system.
//
// Provider github accounts carry no password hash and keep their primary
// email in sync with GitHub; they cannot self-serve change it. The
// VerifyEmail* trio holds a pending address until its token is consumed,
// at which point the pending address becomes the primary email.
type User struct {
	ID             string  `json:"id" gorm:"primaryKey;size:36"`
	Email          string  `json:"email" gorm:"size:255;not null;uniqueIndex:uniq_users_email"`
	Username       string  `json:"username" gorm:"size:255;not null;uniqueIndex:uniq_users_username"`
	AuthProvider   string  `json:"auth_provider" gorm:"size:32;not null"`
	HashedPassword *string `json:"-" gorm:"size:255"` // Never expose in JSON
	GitHubID       *int64  `json:"github_id,omitempty" gorm:"column:github_id;uniqueIndex:uniq_users_github_id"`
	AvatarURL      *string `json:"avatar_url,omitempty" gorm:"size:512"`

	VerifyEmailToken          *string    `json:"-" gorm:"size:64;index"`
	VerifyEmailAddress        *string    `json:"-" gorm:"size:255"`
	VerifyEmailTokenCreatedAt *time.Time `json:"-"`
	VerifiedAt                *time.Time `json:"verified_at,omitempty"`

	ResetPasswordToken          *string    `json:"-" gorm:"size:64;index"`
	ResetPasswordTokenCreatedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsVerified reports whether the account's email has been confirmed.
func (u *User) IsVerified() bool {
	return u.VerifiedAt != nil
}

// HasPassword reports whether the account carries a local password hash.
// External-provider accounts do not.
func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}
