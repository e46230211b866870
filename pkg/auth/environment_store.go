package auth

import (
	"os"
	"time"
)

// EnvironmentStore reads credentials from environment variables. It is
// read-only and always holds at most one account, named "default".
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment variable store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve builds an account from REDDITEXTRACT_CLIENT_ID and
// REDDITEXTRACT_CLIENT_SECRET. The name argument is ignored.
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	clientID := os.Getenv("REDDITEXTRACT_CLIENT_ID")
	clientSecret := os.Getenv("REDDITEXTRACT_CLIENT_SECRET")

	if clientID == "" || clientSecret == "" {
		return nil, ErrCredentialsNotFound
	}

	return &Account{
		Name:         "default",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		UserAgent:    os.Getenv("REDDITEXTRACT_USER_AGENT"),
		LastModified: time.Now(),
	}, nil
}

// List returns the environment account if configured
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return nil, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks whether environment credentials are configured
func (e *EnvironmentStore) Exists(name string) bool {
	_, err := e.Retrieve(name)
	return err == nil
}
