package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := NewStore(keyring.NewArrayKeyring(nil))

	require.NoError(t, s.Set(ConnectionStringKey, "sqlserver://sa@db?database=BugNet"))

	got, err := s.Get(ConnectionStringKey)
	require.NoError(t, err)
	assert.Equal(t, "sqlserver://sa@db?database=BugNet", got)

	require.NoError(t, s.Set(ConnectionStringKey, "sqlserver://other"))
	got, err = s.Get(ConnectionStringKey)
	require.NoError(t, err)
	assert.Equal(t, "sqlserver://other", got)

	require.NoError(t, s.Delete(ConnectionStringKey))
	_, err = s.Get(ConnectionStringKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_MissingKey(t *testing.T) {
	s := NewStore(keyring.NewArrayKeyring(nil))

	_, err := s.Get("absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_FileBackend(t *testing.T) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      serviceName,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          t.TempDir(),
		FilePasswordFunc: keyring.FixedStringPrompt("test"),
	})
	require.NoError(t, err)

	s := NewStore(ring)
	require.NoError(t, s.Set(ConnectionStringKey, "dsn"))

	got, err := s.Get(ConnectionStringKey)
	require.NoError(t, err)
	assert.Equal(t, "dsn", got)
}
