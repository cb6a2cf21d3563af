package twitter

import (
	"errors"
	"fmt"
)

// ErrUpstream wraps failures that are neither authentication nor query problems
// (transport errors, rate limiting, 5xx responses, undecodable bodies).
var ErrUpstream = errors.New("twitter: upstream request failed")

// AuthenticationError is returned when the credentials are blank or rejected.
type AuthenticationError struct {
	StatusCode int    // 0 when rejected locally
	Code       int    // API error code, if any
	Message    string
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode == 0 {
		return "twitter: authentication failed: " + e.Message
	}
	return fmt.Sprintf("twitter: authentication failed (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// QueryError is returned when the search query is rejected.
type QueryError struct {
	Query      string
	StatusCode int
	Code       int
	Message    string
}

func (e *QueryError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("twitter: query %q rejected: %s", e.Query, e.Message)
	}
	return fmt.Sprintf("twitter: query %q rejected (status %d, code %d): %s", e.Query, e.StatusCode, e.Code, e.Message)
}

// API error codes that indicate a credential problem rather than a bad query.
var authErrorCodes = map[int]bool{
	32:  true, // could not authenticate you
	89:  true, // invalid or expired token
	99:  true, // unable to verify credentials
	135: true, // timestamp out of bounds
	215: true, // bad authentication data
}

// IsAuthenticationError reports whether err is or wraps an *AuthenticationError.
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsQueryError reports whether err is or wraps a *QueryError.
func IsQueryError(err error) bool {
	var queryErr *QueryError
	return errors.As(err, &queryErr)
}
