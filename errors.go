package voxo

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Login failure messages kept distinct on purpose; the account-existence
// leak this implies is a recorded decision, not an accident.
const (
	MsgUserNotFound      = "User not found."
	MsgIncorrectPassword = "Incorrect password."
	MsgUsernameTaken     = "Username is taken"
	MsgUserCreated       = "User created successfully!"
)

// ErrUserNotFound is returned by the local strategy for unknown usernames
var ErrUserNotFound = errors.New(MsgUserNotFound, errors.CategoryAuth).
	WithTextCode("USER_NOT_FOUND")

// ErrIncorrectPassword is returned by the local strategy on a hash mismatch
var ErrIncorrectPassword = errors.New(MsgIncorrectPassword, errors.CategoryAuth).
	WithTextCode("INCORRECT_PASSWORD")

// ErrUnauthenticated covers absent, malformed, or unverifiable bearer tokens
var ErrUnauthenticated = errors.New("missing or invalid bearer token", errors.CategoryAuth).
	WithTextCode("UNAUTHENTICATED")

// ErrTokenExpired is returned for otherwise valid but expired tokens
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed is returned when a token cannot be parsed or verified
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED")

// ErrUsernameTaken is the conflict raised by the uniqueness check
var ErrUsernameTaken = errors.New(MsgUsernameTaken, errors.CategoryConflict).
	WithTextCode("USERNAME_TAKEN")

// ErrNoEmptyString rejects empty input where a value is mandatory
var ErrNoEmptyString = errors.New("value can not be an empty string", errors.CategoryValidation)

// ErrMismatchedHashAndPassword is the bcrypt mismatch, shared so callers can
// test against a single value
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
