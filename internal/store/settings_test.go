package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSettingsStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := NewFileSettingsStore(path)
	require.NoError(t, err)

	require.NoError(t, s.SetString("auth0_user_info", `{"email":"u@example.com"}`))
	require.NoError(t, s.SetInt64("auth0_access_token_expire", 1700000000000))
	require.NoError(t, s.SetBool("auth0_user_logged_in", true))

	// A fresh store over the same file sees the persisted values.
	reloaded, err := NewFileSettingsStore(path)
	require.NoError(t, err)

	str, ok := reloaded.GetString("auth0_user_info")
	require.True(t, ok)
	assert.Equal(t, `{"email":"u@example.com"}`, str)

	num, ok := reloaded.GetInt64("auth0_access_token_expire")
	require.True(t, ok)
	assert.Equal(t, int64(1700000000000), num)

	b, ok := reloaded.GetBool("auth0_user_logged_in")
	require.True(t, ok)
	assert.True(t, b)
}

func TestFileSettingsStore_HasKeyAndRemove(t *testing.T) {
	s, err := NewFileSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	assert.False(t, s.HasKey("auth0_user_logged_in"))

	require.NoError(t, s.SetBool("auth0_user_logged_in", false))
	assert.True(t, s.HasKey("auth0_user_logged_in"))

	require.NoError(t, s.Remove("auth0_user_logged_in"))
	assert.False(t, s.HasKey("auth0_user_logged_in"))

	_, ok := s.GetBool("auth0_user_logged_in")
	assert.False(t, ok)
}

func TestMemorySettingsStore(t *testing.T) {
	s := NewMemorySettingsStore()

	require.NoError(t, s.SetInt64("n", 42))
	v, ok := s.GetInt64("n")
	require.True(t, ok)
	assert.Equal(t, int64(42), v)

	assert.True(t, s.HasKey("n"))
	require.NoError(t, s.Remove("n"))
	assert.False(t, s.HasKey("n"))
}
