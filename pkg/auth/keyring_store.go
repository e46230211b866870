package auth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "redditextract"
	keyringPrefix  = "account:"
	keyringIndex   = "account-index"
)

// KeyringStore stores credentials in the OS keychain
type KeyringStore struct{}

// NewKeyringStore creates a keyring store, probing availability first
func NewKeyringStore() (*KeyringStore, error) {
	testKey := "redditextract-availability-probe"
	if err := keyring.Set(keyringService, testKey, "ok"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{}, nil
}

// Store saves an account to the keyring and records it in the index
func (k *KeyringStore) Store(account *Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	if err := keyring.Set(keyringService, keyringPrefix+account.Name, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	return k.addToIndex(account.Name)
}

// Retrieve gets an account from the keyring
func (k *KeyringStore) Retrieve(name string) (*Account, error) {
	data, err := keyring.Get(keyringService, keyringPrefix+name)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var account Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// List returns every account named in the index
func (k *KeyringStore) List() ([]*Account, error) {
	names, err := k.readIndex()
	if err != nil {
		return nil, err
	}

	var accounts []*Account
	for _, name := range names {
		account, err := k.Retrieve(name)
		if err != nil {
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

// Delete removes an account from the keyring and the index
func (k *KeyringStore) Delete(name string) error {
	if err := keyring.Delete(keyringService, keyringPrefix+name); err != nil {
		if err == keyring.ErrNotFound {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	return k.removeFromIndex(name)
}

// Exists checks whether an account is present
func (k *KeyringStore) Exists(name string) bool {
	_, err := keyring.Get(keyringService, keyringPrefix+name)
	return err == nil
}

func (k *KeyringStore) readIndex() ([]string, error) {
	data, err := keyring.Get(keyringService, keyringIndex)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	if data == "" {
		return nil, nil
	}
	return strings.Split(data, ","), nil
}

func (k *KeyringStore) addToIndex(name string) error {
	names, err := k.readIndex()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	names = append(names, name)
	return keyring.Set(keyringService, keyringIndex, strings.Join(names, ","))
}

func (k *KeyringStore) removeFromIndex(name string) error {
	names, err := k.readIndex()
	if err != nil {
		return err
	}
	var kept []string
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	return keyring.Set(keyringService, keyringIndex, strings.Join(kept, ","))
}
