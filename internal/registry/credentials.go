package registry

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/habtools/hab/internal/secrets"
)

// Account keys for the two credential entries. These must match what earlier
// versions wrote under the service namespace.
const (
	KeyAPIURL   = "api_url"
	KeyAPIToken = "api_token"
)

// ErrInvalidURL is returned when a URL lacks a scheme or host.
var ErrInvalidURL = errors.New("invalid URL: scheme and host required")

// ErrEmptyToken is returned when saving a credential without an API token.
var ErrEmptyToken = errors.New("API token is required")

// Credential holds the connection settings for the Home Assistant instance.
// Either field may be empty: an unconfigured installation is a valid state,
// not an error.
type Credential struct {
	BaseURL  string
	APIToken string
}

// Configured reports whether both fields are present.
func (c Credential) Configured() bool {
	return c.BaseURL != "" && c.APIToken != ""
}

// Credentials manages the two singleton credential entries in the secret
// store.
type Credentials struct {
	store secrets.Store
}

// NewCredentials creates a credential registry backed by the given store.
func NewCredentials(store secrets.Store) *Credentials {
	return &Credentials{store: store}
}

// Load reads the stored credential. Missing entries yield empty fields
// rather than an error; a locked store propagates secrets.ErrLocked.
func (c *Credentials) Load() (Credential, error) {
	var cred Credential

	baseURL, err := c.store.Get(KeyAPIURL)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		return Credential{}, err
	}
	cred.BaseURL = baseURL

	token, err := c.store.Get(KeyAPIToken)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		return Credential{}, err
	}
	cred.APIToken = token

	return cred, nil
}

// Save validates and persists the credential, replacing both entries.
//
// The two writes are independent secret-store operations: if the token write
// fails after the URL write succeeded, the store is left partially updated.
// There is no rollback; the caller reports the error and the user re-runs
// setup, which replaces both entries again.
func (c *Credentials) Save(cred Credential) error {
	baseURL, err := ValidateURL(cred.BaseURL)
	if err != nil {
		return err
	}
	if cred.APIToken == "" {
		return ErrEmptyToken
	}

	if err := c.store.Set(KeyAPIURL, baseURL); err != nil {
		return fmt.Errorf("save %s: %w", KeyAPIURL, err)
	}
	if err := c.store.Set(KeyAPIToken, cred.APIToken); err != nil {
		return fmt.Errorf("save %s: %w", KeyAPIToken, err)
	}

	return nil
}

// ValidateURL checks that raw has a parseable scheme and host and returns it
// with trailing slashes stripped. Anything else fails with ErrInvalidURL.
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", ErrInvalidURL
	}

	return strings.TrimRight(raw, "/"), nil
}
