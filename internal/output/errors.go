package output

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/habtools/hab/internal/homeassistant"
	"github.com/habtools/hab/internal/registry"
	"github.com/habtools/hab/internal/secrets"
)

// Exit codes following sysexits.h convention
const (
	ExitOK           = 0  // Success
	ExitGeneral      = 1  // General error
	ExitUsage        = 2  // Invalid usage / bad arguments
	ExitLocked       = 3  // Secret store locked
	ExitNotFound     = 4  // Button or credential not found
	ExitUnsupported  = 5  // Platform cannot enumerate the secret store
	ExitAPIError     = 9  // Home Assistant rejected the request
	ExitConfigError  = 10 // Not configured yet
	ExitNetworkError = 11 // Network connectivity error
)

// CLIError represents a structured error with exit code and optional hint
type CLIError struct {
	ExitCode int
	Message  string
	Hint     string
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLIError
func NewCLIError(code int, msg string) *CLIError {
	return &CLIError{
		ExitCode: code,
		Message:  msg,
	}
}

// WithHint adds a user-facing hint to the error
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// Classify translates domain errors into CLIErrors at the dispatch boundary,
// so locked-store and not-found conditions get one consistent message and
// exit code instead of per-call-site handling. A CLIError passes through
// unchanged; anything unrecognized becomes a general error.
func Classify(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	switch {
	case errors.Is(err, secrets.ErrLocked):
		return NewCLIError(ExitLocked, "Keyring locked").
			WithHint("Unlock it through your system keyring manager and retry")
	case errors.Is(err, secrets.ErrListUnsupported):
		return NewCLIError(ExitUnsupported, "This secret-store backend cannot list entries").
			WithHint("Buttons may still exist; press them by label, or switch to the file backend")
	case errors.Is(err, secrets.ErrNotFound):
		return NewCLIError(ExitNotFound, err.Error())
	case errors.Is(err, registry.ErrInvalidURL),
		errors.Is(err, registry.ErrEmptyToken),
		errors.Is(err, registry.ErrEmptyLabel):
		return NewCLIError(ExitUsage, err.Error())
	case errors.Is(err, homeassistant.ErrMissingCredentials):
		return NewCLIError(ExitConfigError, "Missing configuration").
			WithHint("Run: hab setup")
	}

	var statusErr *homeassistant.StatusError
	if errors.As(err, &statusErr) {
		return NewCLIError(ExitAPIError, fmt.Sprintf("Connection failed (%v)", statusErr))
	}

	if isNetworkErr(err) {
		return NewCLIError(ExitNetworkError, fmt.Sprintf("Network error: %v", err))
	}

	return NewCLIError(ExitGeneral, err.Error())
}

// isNetworkErr matches the transport-level failures the client wraps:
// timeout, DNS, TLS, connection refused. http.Client surfaces them all as
// *url.Error.
func isNetworkErr(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
