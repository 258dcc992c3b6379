package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habtools/hab/internal/secrets"
)

// fakeStore is an in-memory secrets.Store for registry tests.
type fakeStore struct {
	data    map[string]string
	locked  bool
	canList bool
	failOn  string // Set fails when writing this key
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string), canList: true}
}

func (f *fakeStore) Get(key string) (string, error) {
	if f.locked {
		return "", secrets.ErrLocked
	}
	value, ok := f.data[key]
	if !ok {
		return "", secrets.ErrNotFound
	}
	return value, nil
}

func (f *fakeStore) Set(key, value string) error {
	if f.locked {
		return secrets.ErrLocked
	}
	if f.failOn != "" && key == f.failOn {
		return assert.AnError
	}
	f.data[key] = value
	return nil
}

func (f *fakeStore) Delete(key string) error {
	if f.locked {
		return secrets.ErrLocked
	}
	if _, ok := f.data[key]; !ok {
		return secrets.ErrNotFound
	}
	delete(f.data, key)
	return nil
}

func (f *fakeStore) List() ([]string, error) {
	if !f.canList {
		return nil, secrets.ErrListUnsupported
	}
	if f.locked {
		return nil, secrets.ErrLocked
	}
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeStore) CanList() bool {
	return f.canList
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{name: "plain http", raw: "http://homeassistant.local:8123", expected: "http://homeassistant.local:8123"},
		{name: "trailing slash stripped", raw: "http://h:8123/", expected: "http://h:8123"},
		{name: "multiple trailing slashes stripped", raw: "http://h:8123///", expected: "http://h:8123"},
		{name: "path preserved", raw: "https://example.com/ha/", expected: "https://example.com/ha"},
		{name: "surrounding whitespace trimmed", raw: "  http://h:8123  ", expected: "http://h:8123"},
		{name: "https", raw: "https://ha.example.com", expected: "https://ha.example.com"},
		{name: "empty", raw: "", wantErr: true},
		{name: "no scheme", raw: "homeassistant.local:8123", wantErr: true},
		{name: "scheme only", raw: "http://", wantErr: true},
		{name: "bare path", raw: "/just/a/path", wantErr: true},
		{name: "bare word", raw: "localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCredentialsSave(t *testing.T) {
	store := newFakeStore()
	creds := NewCredentials(store)

	err := creds.Save(Credential{BaseURL: "http://h:8123/", APIToken: "t"})
	require.NoError(t, err)

	assert.Equal(t, "http://h:8123", store.data[KeyAPIURL], "trailing slash stripped before persisting")
	assert.Equal(t, "t", store.data[KeyAPIToken])
}

func TestCredentialsSaveValidation(t *testing.T) {
	t.Run("invalid URL rejected", func(t *testing.T) {
		store := newFakeStore()
		err := NewCredentials(store).Save(Credential{BaseURL: "not-a-url", APIToken: "t"})
		assert.ErrorIs(t, err, ErrInvalidURL)
		assert.Empty(t, store.data, "nothing persisted")
	})

	t.Run("empty token rejected", func(t *testing.T) {
		store := newFakeStore()
		err := NewCredentials(store).Save(Credential{BaseURL: "http://h:8123", APIToken: ""})
		assert.ErrorIs(t, err, ErrEmptyToken)
		assert.Empty(t, store.data, "nothing persisted")
	})

	t.Run("locked store rejected before any write", func(t *testing.T) {
		store := newFakeStore()
		store.locked = true
		err := NewCredentials(store).Save(Credential{BaseURL: "http://h:8123", APIToken: "t"})
		assert.ErrorIs(t, err, secrets.ErrLocked)
	})
}

// Save issues two independent writes. When the second fails the first one
// stays: the store ends up partially updated and the error is reported, not
// hidden. Re-running setup replaces both entries.
func TestCredentialsSavePartialWrite(t *testing.T) {
	store := newFakeStore()
	store.failOn = KeyAPIToken

	err := NewCredentials(store).Save(Credential{BaseURL: "http://h:8123", APIToken: "t"})
	require.Error(t, err)

	assert.Equal(t, "http://h:8123", store.data[KeyAPIURL], "first write persisted")
	assert.NotContains(t, store.data, KeyAPIToken, "second write failed")
}

func TestCredentialsLoad(t *testing.T) {
	t.Run("unconfigured store yields empty fields", func(t *testing.T) {
		cred, err := NewCredentials(newFakeStore()).Load()
		require.NoError(t, err)
		assert.Empty(t, cred.BaseURL)
		assert.Empty(t, cred.APIToken)
		assert.False(t, cred.Configured())
	})

	t.Run("partial configuration is not an error", func(t *testing.T) {
		store := newFakeStore()
		store.data[KeyAPIURL] = "http://h:8123"

		cred, err := NewCredentials(store).Load()
		require.NoError(t, err)
		assert.Equal(t, "http://h:8123", cred.BaseURL)
		assert.Empty(t, cred.APIToken)
		assert.False(t, cred.Configured())
	})

	t.Run("full configuration round-trips", func(t *testing.T) {
		store := newFakeStore()
		creds := NewCredentials(store)
		require.NoError(t, creds.Save(Credential{BaseURL: "http://h:8123", APIToken: "t"}))

		cred, err := creds.Load()
		require.NoError(t, err)
		assert.True(t, cred.Configured())
		assert.Equal(t, "http://h:8123", cred.BaseURL)
		assert.Equal(t, "t", cred.APIToken)
	})

	t.Run("locked store propagates", func(t *testing.T) {
		store := newFakeStore()
		store.locked = true
		_, err := NewCredentials(store).Load()
		assert.ErrorIs(t, err, secrets.ErrLocked)
	})
}
