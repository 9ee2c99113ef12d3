package client_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/client"
)

func TestSessionLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	// Load before any save: empty, unauthenticated session.
	s, err := client.LoadSession(path)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())

	s.Token = "tok"
	s.Email = "alice@example.com"
	s.ReferralCode = "ALICE001"
	require.NoError(t, s.Save(path))

	loaded, err := client.LoadSession(path)
	require.NoError(t, err)
	assert.True(t, loaded.Authenticated())
	assert.Equal(t, *s, *loaded)

	require.NoError(t, client.ClearSession(path))
	cleared, err := client.LoadSession(path)
	require.NoError(t, err)
	assert.False(t, cleared.Authenticated())

	// Clearing twice is fine.
	require.NoError(t, client.ClearSession(path))
}

func TestSessionCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := &client.Session{}
	require.NoError(t, s.Save(path))

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := client.LoadSession(path)
	assert.Error(t, err)
}
