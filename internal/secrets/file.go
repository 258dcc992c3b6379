package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
	"golang.org/x/crypto/scrypt"
)

// FileStore implements the Store interface using an AES-256-GCM encrypted
// file. This is the fallback for environments where the OS keyring is
// unavailable (WSL, headless, Docker).
type FileStore struct {
	path string
	key  []byte
}

// scrypt parameters, interactive-strength.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

// lockTimeout bounds how long a mutation waits for the file lock before
// reporting the store as locked.
const lockTimeout = 5 * time.Second

// NewFileStore creates a file-backed secret store under the XDG data
// directory. If password is empty, the key is derived from a
// machine-specific identity (less secure, prints a one-time warning).
// Set HAB_STORE_PASSWORD to supply a password.
func NewFileStore(password string) (*FileStore, error) {
	return NewFileStoreAt(filepath.Join(xdg.DataHome, "hab"), password)
}

// NewFileStoreAt is NewFileStore with an explicit directory, used by tests.
func NewFileStoreAt(dir, password string) (*FileStore, error) {
	secret := password
	if secret == "" {
		// Machine-specific default so the file at least isn't portable.
		hostname, _ := os.Hostname()
		username := os.Getenv("USER")
		if username == "" {
			username = os.Getenv("USERNAME") // Windows fallback
		}
		secret = fmt.Sprintf("%s@%s", username, hostname)
		warnOnce("WARNING: Using machine-specific encryption key. For better security, set a password via HAB_STORE_PASSWORD env var.")
	}

	key, err := scrypt.Key([]byte(secret), []byte(ServiceName), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create secrets directory: %w", err)
	}

	return &FileStore{
		path: filepath.Join(dir, "secrets.enc"),
		key:  key,
	}, nil
}

// encrypt encrypts plaintext using AES-256-GCM with a random 12-byte nonce.
// The nonce is prepended to the ciphertext.
func (s *FileStore) encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt decrypts ciphertext produced by encrypt, extracting the nonce
// from its first bytes.
func (s *FileStore) decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

// withLock runs fn while holding the store's file lock. Each CLI invocation
// is single-threaded, but two invocations can race on the same file; the
// lock serializes their read-modify-write. A lock that cannot be acquired
// within lockTimeout is reported as ErrLocked.
func (s *FileStore) withLock(fn func() error) error {
	lock := flock.New(s.path + ".lock")

	deadline := time.Now().Add(lockTimeout)
	for {
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("failed to acquire store lock: %w", err)
		}
		if locked {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("store lock held by another process: %w", ErrLocked)
		}
		time.Sleep(100 * time.Millisecond)
	}
	defer lock.Unlock()

	return fn()
}

// readStore decrypts and parses the secrets file.
// Returns an empty map if the file doesn't exist yet.
func (s *FileStore) readStore() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}

	if len(data) == 0 {
		return make(map[string]string), nil
	}

	plaintext, err := s.decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secrets: %w", err)
	}

	var store map[string]string
	if err := json.Unmarshal(plaintext, &store); err != nil {
		return nil, fmt.Errorf("failed to parse secrets: %w", err)
	}

	return store, nil
}

// writeStore encrypts and writes the secret map to disk.
func (s *FileStore) writeStore(store map[string]string) error {
	plaintext, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("failed to serialize secrets: %w", err)
	}

	ciphertext, err := s.encrypt(plaintext)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, ciphertext, 0600); err != nil {
		return fmt.Errorf("failed to write secrets file: %w", err)
	}

	return nil
}

// Get retrieves a secret by account key from the encrypted file.
func (s *FileStore) Get(key string) (string, error) {
	store, err := s.readStore()
	if err != nil {
		return "", err
	}

	value, ok := store[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

// Set stores a secret in the encrypted file, overwriting any existing entry.
func (s *FileStore) Set(key, value string) error {
	return s.withLock(func() error {
		store, err := s.readStore()
		if err != nil {
			return err
		}

		store[key] = value
		return s.writeStore(store)
	})
}

// Delete removes a secret from the encrypted file.
func (s *FileStore) Delete(key string) error {
	return s.withLock(func() error {
		store, err := s.readStore()
		if err != nil {
			return err
		}

		if _, ok := store[key]; !ok {
			return ErrNotFound
		}

		delete(store, key)
		return s.writeStore(store)
	})
}

// List returns all account keys from the encrypted file.
func (s *FileStore) List() ([]string, error) {
	store, err := s.readStore()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(store))
	for k := range store {
		keys = append(keys, k)
	}

	return keys, nil
}

// CanList reports enumeration support; the file backend always has it.
func (s *FileStore) CanList() bool {
	return true
}
