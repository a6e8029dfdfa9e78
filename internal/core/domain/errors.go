package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateIdentity  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUnauthenticated    = errors.New("could not validate credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
)

var (
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	ErrPatientNotFound = fmt.Errorf("patient %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
	ErrResultNotFound  = fmt.Errorf("result %w", ErrNotFound)
)

// ErrInvalidRole is returned by registration when roles are restricted to
// the enumeration and the requested role is not part of it.
var ErrInvalidRole = fmt.Errorf("%w: unknown role", ErrValidation)

// ErrInvalidReference marks a create whose parent record does not exist.
var ErrInvalidReference = fmt.Errorf("%w: referenced record does not exist", ErrValidation)
