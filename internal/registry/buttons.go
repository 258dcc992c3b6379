package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/habtools/hab/internal/secrets"
)

// ButtonPrefix is prepended to a button label to form its account key.
// It separates button entries from the credential entries sharing the
// service namespace, and must match what earlier versions wrote.
const ButtonPrefix = "button_"

// EntityDomain is the entity-ID prefix Home Assistant uses for button
// entities. IDs outside this domain are accepted with an advisory.
const EntityDomain = "button."

// ErrEmptyLabel is returned when adding a button with an empty label.
var ErrEmptyLabel = errors.New("button label cannot be empty")

// Buttons manages the set of labelled button entries in the secret store.
// There is no in-memory cache: every operation re-reads the store, so two
// invocations never see stale state.
type Buttons struct {
	store secrets.Store
}

// NewButtons creates a button registry backed by the given store.
func NewButtons(store secrets.Store) *Buttons {
	return &Buttons{store: store}
}

// Add stores a label → entity-ID mapping. Re-adding an existing label
// overwrites it; labels are case-sensitive.
func (b *Buttons) Add(label, entityID string) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if err := b.store.Set(ButtonPrefix+label, entityID); err != nil {
		return fmt.Errorf("save button %q: %w", label, err)
	}
	return nil
}

// Remove deletes the entry for label. An unknown label yields
// secrets.ErrNotFound.
func (b *Buttons) Remove(label string) error {
	if err := b.store.Delete(ButtonPrefix + label); err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return fmt.Errorf("button %q: %w", label, secrets.ErrNotFound)
		}
		return fmt.Errorf("remove button %q: %w", label, err)
	}
	return nil
}

// Get returns the entity ID stored for label.
func (b *Buttons) Get(label string) (string, error) {
	entityID, err := b.store.Get(ButtonPrefix + label)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return "", fmt.Errorf("button %q: %w", label, secrets.ErrNotFound)
		}
		return "", err
	}
	return entityID, nil
}

// List returns all configured button labels, sorted lexicographically.
// An empty slice means no buttons are configured; a backend without
// enumeration yields secrets.ErrListUnsupported instead, so callers can
// tell the two apart.
func (b *Buttons) List() ([]string, error) {
	if !b.store.CanList() {
		return nil, secrets.ErrListUnsupported
	}

	keys, err := b.store.List()
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, ButtonPrefix) {
			labels = append(labels, strings.TrimPrefix(key, ButtonPrefix))
		}
	}

	sort.Strings(labels)
	return labels, nil
}

// HasEntityDomain reports whether entityID carries the expected button
// domain prefix. A mismatch is advisory only and never blocks a save.
func HasEntityDomain(entityID string) bool {
	return strings.HasPrefix(entityID, EntityDomain)
}
