package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	token, err := store.Encrypt("sk-abc123")
	require.NoError(t, err)
	assert.NotEqual(t, "sk-abc123", token)

	plain, err := store.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, "sk-abc123", plain)
}

func TestDecryptSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	token, err := store.Encrypt("persistent-key")
	require.NoError(t, err)

	reopened, err := Open(dir)
	require.NoError(t, err)
	plain, err := reopened.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, "persistent-key", plain)
}

func TestDecryptRejectsForeignToken(t *testing.T) {
	a, err := Open(t.TempDir())
	require.NoError(t, err)
	b, err := Open(t.TempDir())
	require.NoError(t, err)

	token, err := a.Encrypt("secret")
	require.NoError(t, err)

	_, err = b.Decrypt(token)
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = store.Decrypt("not base64 at all !!!")
	assert.Error(t, err)

	_, err = store.Decrypt("c2hvcnQ=") // valid base64, too short for a nonce
	assert.Error(t, err)
}

func TestSaltFilePermissions(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "secret.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
