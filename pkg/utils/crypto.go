package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/maheshrc27/postflow/internal/models"
)

// EncryptedMarker is the single key of a stored credential blob that holds ciphertext.
const EncryptedMarker = "_encrypted"

var ErrInvalidKey = errors.New("encryption key must decode to 16, 24 or 32 bytes")

func Encrypt(plaintext, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	_, err = io.ReadFull(rand.Reader, nonce)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	// nonce || ciphertext, base64 encoded
	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)
	finalData := append(nonce, ciphertext...)

	return base64.StdEncoding.EncodeToString(finalData), nil
}

// Decrypt decrypts the base64-encoded ciphertext using AES-GCM with the provided key.
func Decrypt(encryptedData string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return string(plaintext), nil
}

// Vault seals account credentials at rest. Without a key both directions
// pass the credential map through untouched.
type Vault struct {
	key []byte
}

// NewVault accepts a base64 encoded key or a raw 16/24/32 byte key.
// An empty key yields a passthrough vault.
func NewVault(key string) (*Vault, error) {
	if key == "" {
		return &Vault{}, nil
	}
	if raw, err := base64.StdEncoding.DecodeString(key); err == nil && validKeyLen(len(raw)) {
		return &Vault{key: raw}, nil
	}
	if validKeyLen(len(key)) {
		return &Vault{key: []byte(key)}, nil
	}
	return nil, ErrInvalidKey
}

func validKeyLen(n int) bool {
	return n == 16 || n == 24 || n == 32
}

func (v *Vault) Enabled() bool {
	return len(v.key) > 0
}

func (v *Vault) EncryptCredentials(creds models.Credentials) (json.RawMessage, error) {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}
	if !v.Enabled() {
		return plaintext, nil
	}

	ciphertext, err := Encrypt(plaintext, v.key)
	if err != nil {
		return nil, fmt.Errorf("encrypt credentials: %w", err)
	}
	return json.Marshal(map[string]string{EncryptedMarker: ciphertext})
}

func (v *Vault) DecryptCredentials(blob json.RawMessage) (models.Credentials, error) {
	var stored map[string]string
	if err := json.Unmarshal(blob, &stored); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}

	ciphertext, sealed := stored[EncryptedMarker]
	if !sealed || !v.Enabled() {
		return models.Credentials(stored), nil
	}

	plaintext, err := Decrypt(ciphertext, v.key)
	if err != nil {
		return nil, fmt.Errorf("decrypt credentials: %w", err)
	}

	var creds models.Credentials
	if err := json.Unmarshal([]byte(plaintext), &creds); err != nil {
		return nil, fmt.Errorf("decode decrypted credentials: %w", err)
	}
	return creds, nil
}
