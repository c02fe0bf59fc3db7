package coingecko

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError means the request could not be sent or no response arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError is a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("http status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Temporary reports whether a retry could help (rate limiting or a server
// side failure).
func (e *HTTPStatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ParseError is a malformed body or a body missing expected fields.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse response: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError rejects a request before anything is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FetchError wraps every failure returned by the client with the operation
// and coin it concerned.
type FetchError struct {
	Op     string
	CoinID string
	Err    error
}

func (e *FetchError) Error() string {
	if e.CoinID != "" {
		return fmt.Sprintf("coingecko %s %s: %v", e.Op, e.CoinID, e.Err)
	}
	return fmt.Sprintf("coingecko %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNotFound reports whether err carries an HTTP 404.
func IsNotFound(err error) bool {
	var se *HTTPStatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func parseErrorf(format string, args ...any) error {
	return &ParseError{Err: fmt.Errorf(format, args...)}
}
