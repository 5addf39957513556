package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "bidbridge"

// refreshTokenKey is where the platform refresh token lives, letting a
// restart resume the previous session without a password prompt.
const refreshTokenKey = "platform-refresh-token"

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
		FileDir:                  "~/.config/bidbridge/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("bidbridge-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// SaveRefreshToken persists the platform refresh token.
func SaveRefreshToken(token string) error {
	return Set(refreshTokenKey, token)
}

// LoadRefreshToken returns the persisted refresh token, or "" when none
// is stored.
func LoadRefreshToken() string {
	token, err := Get(refreshTokenKey)
	if err != nil {
		return ""
	}
	return token
}

// ClearRefreshToken removes the persisted refresh token on logout.
func ClearRefreshToken() error {
	return Delete(refreshTokenKey)
}
