package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ConfigurationError reports a credential or setting that is absent.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not configured", e.Setting)
}

// ValidationError reports caller-supplied fields that are missing or malformed,
// keyed by their JSON path (e.g. "formData.email").
type ValidationError struct {
	Message string
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s (%s)", e.Message, strings.Join(parts, "; "))
}

// UpstreamError is a non-2xx answer from a third-party API. Body is kept
// verbatim so synchronous endpoints can relay it.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, string(e.Body))
}

// TransportError is a network or decoding failure talking to an upstream.
type TransportError struct {
	Provider string
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusFor maps an error from the taxonomy above to an HTTP status.
func StatusFor(err error) int {
	var (
		cfgErr      *ConfigurationError
		validErr    *ValidationError
		upstreamErr *UpstreamError
	)
	switch {
	case errors.As(err, &validErr):
		return http.StatusBadRequest
	case errors.As(err, &upstreamErr):
		if upstreamErr.StatusCode >= 400 {
			return upstreamErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
