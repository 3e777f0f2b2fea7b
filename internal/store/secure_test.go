package store

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSecureStore_RoundTrip(t *testing.T) {
	s, err := NewFileSecureStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("auth0_access_token", "secret-value"))

	got, err := s.Get("auth0_access_token")
	require.NoError(t, err)
	assert.Equal(t, "secret-value", got)
}

func TestFileSecureStore_AbsentKey(t *testing.T) {
	s, err := NewFileSecureStore(t.TempDir())
	require.NoError(t, err)

	got, err := s.Get("auth0_refresh_token")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileSecureStore_Remove(t *testing.T) {
	s, err := NewFileSecureStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("auth0_access_token", "v"))
	require.NoError(t, s.Remove("auth0_access_token"))

	got, err := s.Get("auth0_access_token")
	require.NoError(t, err)
	assert.Empty(t, got)

	// Removing an absent key is not an error.
	require.NoError(t, s.Remove("auth0_access_token"))
}

func TestFileSecureStore_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permissions are not meaningful on windows")
	}

	dir := filepath.Join(t.TempDir(), "credentials")
	s, err := NewFileSecureStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set("auth0_refresh_token", "v"))

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(filepath.Join(dir, "auth0_refresh_token.cred"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm())
}

func TestMemorySecureStore(t *testing.T) {
	s := NewMemorySecureStore()

	require.NoError(t, s.Set("k", "v"))
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, s.Remove("k"))
	got, err = s.Get("k")
	require.NoError(t, err)
	assert.Empty(t, got)
}
