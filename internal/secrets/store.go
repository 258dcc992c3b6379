package secrets

import "errors"

// Store is the interface for secret storage. Keys are account names inside
// the fixed service namespace; backends map them onto whatever the platform
// secret store provides.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	List() ([]string, error)

	// CanList reports whether this backend supports enumerating accounts.
	// Backends without enumeration return false and List returns
	// ErrListUnsupported, so callers can tell "nothing stored" apart from
	// "cannot look".
	CanList() bool
}

// ErrNotFound is returned when a key is not present in the store.
var ErrNotFound = errors.New("key not found")

// ErrLocked is returned when the secret store is locked and the platform
// rejected the operation. The user has to unlock it through the OS keyring
// manager and retry; we never block waiting for an unlock.
var ErrLocked = errors.New("secret store is locked")

// ErrListUnsupported is returned by List when the active backend cannot
// enumerate stored accounts.
var ErrListUnsupported = errors.New("secret store does not support listing")

// ServiceName is the service identifier under which all entries are stored.
// It must match what earlier versions wrote, or existing credentials and
// buttons become invisible.
const ServiceName = "home_assistant"
