package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	apperrors "authstack/internal/errors"
)

func TestTranslateDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "duplicate email index",
			err: &mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry 'a@x.com' for key 'users.uniq_users_email'",
			},
			want: apperrors.ErrEmailExists,
		},
		{
			name: "duplicate username index",
			err: &mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry 'alice' for key 'users.uniq_users_username'",
			},
			want: apperrors.ErrUsernameExists,
		},
		{
			name: "duplicate on unrelated index passes through",
			err: &mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry '42' for key 'users.uniq_users_github_id'",
			},
		},
		{
			name: "other mysql error passes through",
			err:  &mysql.MySQLError{Number: 1213, Message: "Deadlock found"},
		},
		{
			name: "wrapped driver error is unwrapped",
			err: fmt.Errorf("create user: %w", &mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry 'a@x.com' for key 'users.uniq_users_email'",
			}),
			want: apperrors.ErrEmailExists,
		},
		{
			name: "non-mysql error passes through",
			err:  errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateDuplicateKey(tt.err)
			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
			} else {
				assert.Equal(t, tt.err, got)
			}
		})
	}
}
