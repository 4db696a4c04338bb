package model

import (
	"errors"
	"fmt"
)

var (
	ErrWorkspaceNotFound     = errors.New("workspace not found")
	ErrCredentialNotFound    = errors.New("credential not found")
	ErrBulkOperationNotFound = errors.New("bulk operation not found")
)

// ValidationError reports a malformed request. It is always raised before
// any provider call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NewValidationError returns a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthorizationError reports a tenant or provider mismatch. The workspace
// check runs before credential decryption so a failed authorization never
// touches the cipher.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return "authorization: " + e.Reason }

// NewAuthorizationError returns an AuthorizationError.
func NewAuthorizationError(reason string) error {
	return &AuthorizationError{Reason: reason}
}

// NotFoundError reports an absent resource. Idempotent delete paths treat it
// as success; every other path treats it as an error.
type NotFoundError struct {
	Resource string
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

// NewNotFoundError returns a NotFoundError for the given resource and name.
func NewNotFoundError(resource, name string) error {
	return &NotFoundError{Resource: resource, Name: name}
}

// DecryptionError reports a fatal credential decryption failure. A partially
// decrypted credential is never used.
type DecryptionError struct {
	Err error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("credential decryption failed: %v", e.Err)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// ProviderError wraps a raw SDK error with the provider and the operation
// that issued the call (e.g. "create_cluster"). The original error remains
// reachable through Unwrap.
type ProviderError struct {
	Provider  ProviderKind
	Operation string
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err with provider and operation context.
func NewProviderError(provider ProviderKind, operation string, err error) error {
	return &ProviderError{Provider: provider, Operation: operation, Err: err}
}

// TargetFailure records one failed target of a partially failing operation.
type TargetFailure struct {
	Target string
	Reason string
}

// PartialFailureError reports an operation where some targets failed while
// others succeeded. Callers must read the counters and never assume
// all-or-nothing semantics.
type PartialFailureError struct {
	Completed int
	Failed    int
	Cancelled int
	Failures  []TargetFailure
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure: succeeded %d, failed %d, cancelled %d",
		e.Completed, e.Failed, e.Cancelled)
}

// IsNotFound reports whether err is a NotFoundError or one of the not-found
// sentinels.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	return errors.Is(err, ErrWorkspaceNotFound) ||
		errors.Is(err, ErrCredentialNotFound) ||
		errors.Is(err, ErrBulkOperationNotFound)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}
