package credstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/slimenefellah/myguide/internal/interfaces"
	"github.com/slimenefellah/myguide/internal/models"
)

// KeyringStorage persists credentials in the OS credential store (Keychain,
// Secret Service, Windows Credential Manager) under a service name.
type KeyringStorage struct {
	service string
}

// NewKeyringStorage creates keyring-backed credential storage.
func NewKeyringStorage(service string) *KeyringStorage {
	return &KeyringStorage{service: service}
}

func (k *KeyringStorage) getValue(key string) (string, error) {
	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return value, nil
}

// Load reads the credential records from the keyring.
func (k *KeyringStorage) Load() (models.Credentials, error) {
	var creds models.Credentials

	access, err := k.getValue(keyAccessToken)
	if err != nil {
		return creds, err
	}
	refresh, err := k.getValue(keyRefreshToken)
	if err != nil {
		return creds, err
	}
	userJSON, err := k.getValue(keyUser)
	if err != nil {
		return creds, err
	}

	creds.AccessToken = access
	creds.RefreshToken = refresh
	if userJSON != "" {
		var user models.User
		if err := json.Unmarshal([]byte(userJSON), &user); err == nil {
			creds.User = &user
		}
	}
	return creds, nil
}

// Save writes all three records to the keyring.
func (k *KeyringStorage) Save(creds models.Credentials) error {
	userJSON := ""
	if creds.User != nil {
		raw, err := json.Marshal(creds.User)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		userJSON = string(raw)
	}

	if err := keyring.Set(k.service, keyAccessToken, creds.AccessToken); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := keyring.Set(k.service, keyRefreshToken, creds.RefreshToken); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	if err := keyring.Set(k.service, keyUser, userJSON); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// Clear deletes all credential records together.
func (k *KeyringStorage) Clear() error {
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyUser} {
		if err := keyring.Delete(k.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
		}
	}
	return nil
}

// Close is a no-op; the keyring holds no open handles.
func (k *KeyringStorage) Close() error {
	return nil
}

var _ interfaces.CredentialStorage = (*KeyringStorage)(nil)
