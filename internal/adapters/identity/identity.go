// Package identity registers users and verifies their credentials.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// UserID identifies a registered user.
type UserID string

// Store is the credential collaborator used by the signup and login endpoints.
type Store interface {
	// Register creates a user. Fails with ErrDuplicateUsername when taken.
	Register(ctx context.Context, username, password string) (UserID, error)
	// Verify checks a password. Fails with ErrInvalidCredentials for an
	// unknown user or a wrong password, without telling which.
	Verify(ctx context.Context, username, password string) (UserID, error)
	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)
	Close() error
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

func validate(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrPasswordTooLong, MaxPasswordBytes)
	}
	return username, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %w", ErrPasswordTooLong, err)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("compare password: %w", err)
	}
}
