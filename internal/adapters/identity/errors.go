package identity

import (
	"errors"
	"fmt"
)

// Sentinel kinds for identity errors.
var (
	ErrDuplicateUsername  = errors.New("duplicate username")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// ErrPasswordTooLong is an ErrInvalidInput for passwords bcrypt cannot hash.
var ErrPasswordTooLong = fmt.Errorf("%w: password too long", ErrInvalidInput)
