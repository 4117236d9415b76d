package utils

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault_RoundTrip(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	vault, err := NewVault(key)
	require.NoError(t, err)
	require.True(t, vault.Enabled())

	creds := models.Credentials{"bearer_token": "secret"}
	blob, err := vault.EncryptCredentials(creds)
	require.NoError(t, err)

	var stored map[string]string
	require.NoError(t, json.Unmarshal(blob, &stored))
	assert.Contains(t, stored, EncryptedMarker)
	assert.NotContains(t, string(blob), "secret")

	got, err := vault.DecryptCredentials(blob)
	require.NoError(t, err)
	assert.Equal(t, creds, got)
}

func TestVault_PassthroughWithoutKey(t *testing.T) {
	vault, err := NewVault("")
	require.NoError(t, err)
	assert.False(t, vault.Enabled())

	blob, err := vault.EncryptCredentials(models.Credentials{"handle": "me.bsky.social"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"handle":"me.bsky.social"}`, string(blob))

	got, err := vault.DecryptCredentials(blob)
	require.NoError(t, err)
	assert.Equal(t, "me.bsky.social", got["handle"])
}

func TestVault_PlainBlobWithKey(t *testing.T) {
	vault, err := NewVault("0123456789abcdef")
	require.NoError(t, err)

	got, err := vault.DecryptCredentials(json.RawMessage(`{"bearer_token":"plain"}`))
	require.NoError(t, err)
	assert.Equal(t, "plain", got["bearer_token"])
}

func TestVault_WrongKeyFails(t *testing.T) {
	a, err := NewVault("0123456789abcdef")
	require.NoError(t, err)
	b, err := NewVault("fedcba9876543210")
	require.NoError(t, err)

	blob, err := a.EncryptCredentials(models.Credentials{"k": "v"})
	require.NoError(t, err)

	_, err = b.DecryptCredentials(blob)
	assert.Error(t, err)
}

func TestNewVault_InvalidKey(t *testing.T) {
	_, err := NewVault("short")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
