package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "bugnet-provider"

// ConnectionStringKey is the keyring entry holding the database DSN.
const ConnectionStringKey = "connection-string"

// ErrNotFound is returned when the keyring has no entry for a key.
var ErrNotFound = errors.New("credential not found")

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/bugnet-provider/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("bugnet-provider-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Store reads and writes provider secrets in a keyring.
type Store struct {
	ring keyring.Keyring
}

// NewStore wraps an already opened keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Get returns the secret stored under key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("getting credential %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       "BugNet provider " + key,
		Description: "BugNet database credential",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Removing a missing key reports ErrNotFound.
func (s *Store) Delete(key string) error {
	err := s.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// OpenStore opens the system keyring.
func OpenStore() (*Store, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}
	return NewStore(ring), nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	s, err := OpenStore()
	if err != nil {
		return "", err
	}
	return s.Get(key)
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	s, err := OpenStore()
	if err != nil {
		return err
	}
	return s.Set(key, value)
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	s, err := OpenStore()
	if err != nil {
		return err
	}
	return s.Delete(key)
}
