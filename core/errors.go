package core

import (
	"errors"
	"fmt"
)

// ApiError represents an API-level failure reported in a normalized response.
// The core never returns it from ApiCall execution: callers inspect
// Result.HasError instead. Typed helpers and iterators convert failed
// results into ApiError with AsError.
type ApiError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *ApiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s request to %s returned status code %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf(
		"%s request to %s returned status code %d: %s", e.Method, e.URL, e.StatusCode, e.Message,
	)
}

func IsApiError(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr)
}

func IgnoreStatusCodes(err error, codes ...int) error {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return err
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return nil
		}
	}
	return err
}

func ExpectStatusCodes(err error, codes ...int) bool {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return true
		}
	}
	return false
}

// SegmentError is returned when a path segment cannot be rendered into a URL.
type SegmentError struct {
	Index int
	Value any
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("path segment %d of type %T cannot be used in a URL: %v", e.Index, e.Value, e.Value)
}

// TransportError wraps failures of the HTTP transport (DNS, TLS, timeouts, ...).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to perform %s request to %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsTransportError(err error) bool {
	var trErr *TransportError
	return errors.As(err, &trErr)
}

// MalformedError describes a response body that could not be normalized.
type MalformedError struct {
	StatusCode int
	Reason     string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed response (status code %d): %s", e.StatusCode, e.Reason)
}

func IsMalformedErr(err error) bool {
	var mErr *MalformedError
	return errors.As(err, &mErr)
}
