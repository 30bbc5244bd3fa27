// Package auth implements the authentication core: role/permission
// mapping, signed token issuance and validation, the token revocation
// ledger contract, and the register/login/refresh/logout flows on top of
// them. Handlers translate the sentinel errors below into HTTP statuses;
// the core never builds transport responses itself.
package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any state change. Use
	// errors.As with *ValidationError to read the field violations.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned on login against a disabled account.
	ErrAccountDisabled = errors.New("account disabled")

	// Token validation failures, in the order the validator checks them.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformedToken   = errors.New("malformed token claims")
	ErrWrongTokenKind   = errors.New("wrong token kind")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserDisabled     = errors.New("user disabled")

	// ErrInsufficientPrivilege is returned when an actor's role rank does
	// not strictly exceed the rank required by the operation.
	ErrInsufficientPrivilege = errors.New("insufficient privilege")

	// ErrSigning is an infrastructure fault: the signing secret is missing
	// or unusable. No token is recorded when signing fails.
	ErrSigning = errors.New("token signing unavailable")
)

// FieldViolation names one input field and why it was rejected.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field violations for one request.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d violations)", len(e.Violations))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) add(field, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
}
