package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/99designs/keyring"
	"github.com/adrg/xdg"
)

// KeyringStore implements the Store interface using the OS keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore creates a new keyring-backed secret store.
// Returns an error if no keyring backend is available on this platform.
func NewKeyringStore() (*KeyringStore, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: true, // macOS: don't prompt every access
		FileDir:                  xdg.DataHome + "/hab/keyring",
		FilePasswordFunc:         keyring.TerminalPrompt,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	return &KeyringStore{ring: ring}, nil
}

// Get retrieves a secret by account key from the keyring.
func (s *KeyringStore) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if err == keyring.ErrKeyNotFound {
			return "", ErrNotFound
		}
		return "", classify("keyring get", err)
	}
	return string(item.Data), nil
}

// Set stores a secret in the keyring. An existing entry under the same
// account key is overwritten.
func (s *KeyringStore) Set(key, value string) error {
	item := keyring.Item{
		Key:  key,
		Data: []byte(value),
	}
	if err := s.ring.Set(item); err != nil {
		return classify("keyring set", err)
	}
	return nil
}

// Delete removes a secret from the keyring.
func (s *KeyringStore) Delete(key string) error {
	if err := s.ring.Remove(key); err != nil {
		if err == keyring.ErrKeyNotFound {
			return ErrNotFound
		}
		return classify("keyring delete", err)
	}
	return nil
}

// List returns all account keys stored under the service namespace.
// Backends that cannot enumerate surface ErrListUnsupported.
func (s *KeyringStore) List() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		if isUnsupported(err) {
			return nil, fmt.Errorf("%w: %v", ErrListUnsupported, err)
		}
		return nil, classify("keyring list", err)
	}
	return keys, nil
}

// CanList reports enumeration support. 99designs/keyring implements Keys()
// on every backend it ships, so the keyring store always claims support and
// lets List surface the rare backend that still refuses.
func (s *KeyringStore) CanList() bool {
	return true
}

// classify translates keyring backend errors into our sentinel errors where
// the condition is recognizable. Locked collections surface differently per
// backend (libsecret, kwallet, macOS keychain), so this is substring
// matching on the error text, same as everyone else does it.
func classify(op string, err error) error {
	if isLocked(err) {
		return fmt.Errorf("%s: %w", op, ErrLocked)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func isLocked(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrLocked) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "locked") ||
		strings.Contains(msg, "prompt dismissed") ||
		strings.Contains(msg, "prompt was dismissed")
}

func isUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "unsupported") ||
		strings.Contains(msg, "not implemented")
}
