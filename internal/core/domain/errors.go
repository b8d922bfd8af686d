package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a client domain error with a structured error code.
// Codes follow the SN-<AREA>-<NNNN> format.
type DomainError struct {
	Code    string // Error code (e.g., "SN-NOTE-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support. Two DomainErrors match when their codes match.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Session errors (SESS).
var (
	// ErrCredentialEmpty indicates an attempt to establish a session without a credential.
	ErrCredentialEmpty = NewDomainError("SN-SESS-4001", "credential must not be empty")

	// ErrSessionExpired indicates the remote API rejected the stored credential.
	ErrSessionExpired = NewDomainError("SN-SESS-4011", "session expired, please log in again")
)

// Authentication input errors (AUTH).
var (
	// ErrEmailRequired indicates the email field is empty.
	ErrEmailRequired = NewDomainError("SN-AUTH-4001", "email is required")

	// ErrEmailInvalid indicates the email is not well formed.
	ErrEmailInvalid = NewDomainError("SN-AUTH-4002", "enter a valid email address")

	// ErrPasswordRequired indicates the password field is empty.
	ErrPasswordRequired = NewDomainError("SN-AUTH-4003", "password is required")

	// ErrPasswordTooShort indicates a signup password below MinPasswordLength.
	ErrPasswordTooShort = NewDomainError("SN-AUTH-4004", "password must be at least 8 characters")

	// ErrNoAccessToken indicates the auth response did not carry an access token.
	ErrNoAccessToken = NewDomainError("SN-AUTH-5001", "auth response did not include an access token")
)

// Note errors (NOTE).
var (
	// ErrTitleRequired indicates the note title is blank.
	ErrTitleRequired = NewDomainError("SN-NOTE-4001", "title is required")

	// ErrContentRequired indicates the note content is blank.
	ErrContentRequired = NewDomainError("SN-NOTE-4002", "content is required")

	// ErrNoteIDRequired indicates a note operation was issued without an ID.
	ErrNoteIDRequired = NewDomainError("SN-NOTE-4003", "note id is required")

	// ErrNoteNotFound indicates the note is not present in the listing.
	ErrNoteNotFound = NewDomainError("SN-NOTE-4040", "note not found")
)
