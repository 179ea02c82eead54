package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid indicates the bearer token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenExpired indicates the bearer token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrUnknownDimension indicates a facet dimension with no query mapping
	ErrUnknownDimension = errors.New("unknown facet dimension")

	// ErrDateParse indicates no year could be read from a date value
	ErrDateParse = errors.New("unparsable date")

	// ErrSearchFailed is matched by every *SearchError
	ErrSearchFailed = errors.New("search failed")

	// ErrStaleResponse indicates a backend response was discarded because a
	// newer search was issued while it was in flight
	ErrStaleResponse = errors.New("stale search response discarded")

	// ErrServiceUnavailable indicates the backend could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)

// SearchErrorKind classifies a failed backend search
type SearchErrorKind string

const (
	SearchErrorNetwork   SearchErrorKind = "network"   // transport failure
	SearchErrorStatus    SearchErrorKind = "status"    // non-2xx response
	SearchErrorMalformed SearchErrorKind = "malformed" // response body missing the result path
)

// SearchError is the only failure surfaced by a search session.
// The previous result set stays authoritative when one is returned.
type SearchError struct {
	Kind       SearchErrorKind
	StatusCode int
	Err        error
}

// NewSearchError creates a SearchError of the given kind
func NewSearchError(kind SearchErrorKind, err error) *SearchError {
	return &SearchError{Kind: kind, Err: err}
}

// Error implements the error interface
func (e *SearchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("search failed (%s, status %d): %v", e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("search failed (%s, status %d)", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("search failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("search failed (%s)", e.Kind)
}

// Unwrap returns the underlying cause
func (e *SearchError) Unwrap() error {
	return e.Err
}

// Is reports ErrSearchFailed as matching any SearchError
func (e *SearchError) Is(target error) bool {
	return target == ErrSearchFailed
}

// CSRFError is returned by the repository when a request was rejected but a
// fresh CSRF token was issued with the rejection. Callers retry once with Token.
type CSRFError struct {
	Token      string
	StatusCode int
}

// Error implements the error interface
func (e *CSRFError) Error() string {
	return fmt.Sprintf("request rejected with status %d, new csrf token issued", e.StatusCode)
}
