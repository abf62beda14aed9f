package credstore

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/slimenefellah/myguide/internal/interfaces"
	"github.com/slimenefellah/myguide/internal/models"
)

// Well-known keys for the persisted credential records. Clearing removes all
// three together.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
)

// credentialRecord is one persisted key/value pair.
type credentialRecord struct {
	Key   string `badgerhold:"key"`
	Value string
}

// FileStorage persists credentials in a local BadgerHold database, the
// device-storage equivalent for a machine account.
type FileStorage struct {
	db *badgerhold.Store
}

// NewFileStorage opens (creating if needed) the credential database at path.
func NewFileStorage(path string) (*FileStorage, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credential store path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store at %s: %w", path, err)
	}
	return &FileStorage{db: db}, nil
}

func (f *FileStorage) getValue(key string) (string, error) {
	var rec credentialRecord
	if err := f.db.Get(key, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return rec.Value, nil
}

// Load reads whatever credential records exist. Missing records come back as
// zero values; the store layer decides whether the snapshot is usable.
func (f *FileStorage) Load() (models.Credentials, error) {
	var creds models.Credentials

	access, err := f.getValue(keyAccessToken)
	if err != nil {
		return creds, err
	}
	refresh, err := f.getValue(keyRefreshToken)
	if err != nil {
		return creds, err
	}
	userJSON, err := f.getValue(keyUser)
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

// Save writes all three records.
func (f *FileStorage) Save(creds models.Credentials) error {
	userJSON := ""
	if creds.User != nil {
		raw, err := json.Marshal(creds.User)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		userJSON = string(raw)
	}

	records := map[string]string{
		keyAccessToken:  creds.AccessToken,
		keyRefreshToken: creds.RefreshToken,
		keyUser:         userJSON,
	}
	for key, value := range records {
		rec := credentialRecord{Key: key, Value: value}
		if err := f.db.Upsert(key, &rec); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	return nil
}

// Clear deletes all credential records together.
func (f *FileStorage) Clear() error {
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyUser} {
		if err := f.db.Delete(key, credentialRecord{}); err != nil && err != badgerhold.ErrNotFound {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (f *FileStorage) Close() error {
	return f.db.Close()
}

var _ interfaces.CredentialStorage = (*FileStorage)(nil)
