package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailExists is returned when a sign-up or email change collides with
	// an existing account.
	ErrEmailExists = errors.New("Email already exists. Please sign in.")
	// ErrUsernameExists is returned when a username collides with an existing account.
	ErrUsernameExists = errors.New("Username already exists. Please choose another one.")
	// ErrInvalidCredentials is the uniform sign-in failure. It deliberately does
	// not distinguish a missing user, a passwordless OAuth account, or a wrong password.
	ErrInvalidCredentials = errors.New("Incorrect username or password")
	// ErrEmailNotVerified is returned when sign-in requires a verified email.
	ErrEmailNotVerified = errors.New("Email not verified. Please verify your email. If you didn't receive the email, please use the forgot password feature.")
	// ErrInvalidToken is returned for unknown or already-consumed verification and reset tokens.
	ErrInvalidToken = errors.New("Invalid token")
	// ErrTokenExpired is returned when a reset token is older than its expiry window.
	ErrTokenExpired = errors.New("Token expired")
	// ErrUserNotFound is returned when a lookup target does not exist.
	ErrUserNotFound = errors.New("User not found")
	// ErrUnauthorized is returned for requests without a valid session.
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrEmailChangeNotAllowed is returned when an external-provider account
	// attempts to change its primary email.
	ErrEmailChangeNotAllowed = errors.New("Email cannot be updated if the user is using a social provider")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unexpected errors pass
// their message through verbatim with a 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrUsernameExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrEmailNotVerified):
		return NewHTTPError(http.StatusForbidden, err.Error(), "EMAIL_NOT_VERIFIED")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrEmailChangeNotAllowed):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_CHANGE_NOT_ALLOWED")
	default:
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
	}
}
