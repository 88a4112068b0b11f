package domain

import (
	"errors"
	"fmt"
)

// Terminal error kinds surfaced to callers. The HTTP layer maps each kind to
// exactly one status code; anything not wrapping one of these is treated as
// an internal error.
var (
	ErrMissingFields     = errors.New("missing required fields")
	ErrInvalidValue      = errors.New("invalid field value")
	ErrReferenceNotFound = errors.New("referenced resource not found")
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource conflict")
	ErrForbidden         = errors.New("access forbidden")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
)

// ErrOwnershipAnomaly marks a broken ownership chain (a device whose owning
// user is gone, or a reading whose device is gone). It is a data-integrity
// signal, not a permission failure, so it wraps ErrConflict rather than
// ErrForbidden.
var ErrOwnershipAnomaly = fmt.Errorf("%w: dangling ownership reference", ErrConflict)
