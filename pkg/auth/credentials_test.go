package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStoreAndRetrieve(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	account := &Account{
		Name:         "research",
		ClientID:     "abc123def456",
		ClientSecret: "secret-value-here",
		UserAgent:    "redditextract/1.0",
	}

	err := manager.Store(account)
	require.NoError(t, err)
	assert.False(t, account.LastModified.IsZero())

	got, err := manager.Retrieve("research")
	require.NoError(t, err)
	assert.Equal(t, "abc123def456", got.ClientID)
	assert.Equal(t, "secret-value-here", got.ClientSecret)
}

func TestManagerStoreValidation(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	tests := []struct {
		name    string
		account *Account
	}{
		{"missing name", &Account{ClientID: "id", ClientSecret: "secret"}},
		{"missing client ID", &Account{Name: "a", ClientSecret: "secret"}},
		{"missing client secret", &Account{Name: "a", ClientID: "id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.Store(tt.account)
			assert.Error(t, err)
		})
	}
}

func TestManagerFallsBackToSecondStore(t *testing.T) {
	failing := NewMockStore()
	failing.FailWith("store", ErrStoreUnavailable)
	failing.FailWith("retrieve", ErrStoreUnavailable)
	working := NewMockStore()

	manager := NewManagerWithStores(failing, working)

	account := &Account{Name: "research", ClientID: "id", ClientSecret: "secret"}
	require.NoError(t, manager.Store(account))

	got, err := manager.Retrieve("research")
	require.NoError(t, err)
	assert.Equal(t, "id", got.ClientID)
	assert.True(t, working.Exists("research"))
}

func TestManagerRetrieveNotFound(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	_, err := manager.Retrieve("missing")
	assert.Error(t, err)
}

func TestManagerListMergesStores(t *testing.T) {
	older := &Account{Name: "shared", ClientID: "old", ClientSecret: "s", LastModified: time.Now().Add(-time.Hour)}
	newer := &Account{Name: "shared", ClientID: "new", ClientSecret: "s", LastModified: time.Now()}

	first := NewMockStore()
	require.NoError(t, first.Store(older))
	second := NewMockStore()
	require.NoError(t, second.Store(newer))

	manager := NewManagerWithStores(first, second)

	accounts, err := manager.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "new", accounts[0].ClientID)
}

func TestManagerDeleteRemovesFromAllStores(t *testing.T) {
	account := &Account{Name: "research", ClientID: "id", ClientSecret: "secret"}

	first := NewMockStore()
	require.NoError(t, first.Store(account))
	second := NewMockStore()
	require.NoError(t, second.Store(account))

	manager := NewManagerWithStores(first, second)

	require.NoError(t, manager.Delete("research"))
	assert.False(t, first.Exists("research"))
	assert.False(t, second.Exists("research"))
}

func TestManagerDeleteNotFound(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	err := manager.Delete("missing")
	assert.Error(t, err)
}

func TestEnvironmentStoreRetrieve(t *testing.T) {
	t.Setenv("REDDITEXTRACT_CLIENT_ID", "env-client-id")
	t.Setenv("REDDITEXTRACT_CLIENT_SECRET", "env-client-secret")
	t.Setenv("REDDITEXTRACT_USER_AGENT", "custom-agent/2.0")

	store := NewEnvironmentStore()

	account, err := store.Retrieve("anything")
	require.NoError(t, err)
	assert.Equal(t, "default", account.Name)
	assert.Equal(t, "env-client-id", account.ClientID)
	assert.Equal(t, "env-client-secret", account.ClientSecret)
	assert.Equal(t, "custom-agent/2.0", account.UserAgent)
}

func TestEnvironmentStoreMissingVars(t *testing.T) {
	t.Setenv("REDDITEXTRACT_CLIENT_ID", "")
	t.Setenv("REDDITEXTRACT_CLIENT_SECRET", "")

	store := NewEnvironmentStore()

	_, err := store.Retrieve("")
	assert.True(t, errors.Is(err, ErrCredentialsNotFound))
	assert.False(t, store.Exists(""))
}

func TestEnvironmentStoreReadOnly(t *testing.T) {
	store := NewEnvironmentStore()

	assert.Error(t, store.Store(&Account{Name: "x", ClientID: "a", ClientSecret: "b"}))
	assert.Error(t, store.Delete("x"))
}

func TestEncryptedFileStoreRoundTrip(t *testing.T) {
	t.Setenv("REDDITEXTRACT_PASSPHRASE", "test-passphrase")

	dir := t.TempDir()
	store, err := NewEncryptedFileStore(dir + "/credentials.enc")
	require.NoError(t, err)

	account := &Account{
		Name:         "research",
		ClientID:     "abc123",
		ClientSecret: "very-secret",
		LastModified: time.Now(),
	}

	require.NoError(t, store.Store(account))
	assert.True(t, store.Exists("research"))

	got, err := store.Retrieve("research")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.ClientID)
	assert.Equal(t, "very-secret", got.ClientSecret)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, store.Delete("research"))
	assert.False(t, store.Exists("research"))
}

func TestEncryptedFileStorePersistsAcrossInstances(t *testing.T) {
	t.Setenv("REDDITEXTRACT_PASSPHRASE", "test-passphrase")

	dir := t.TempDir()
	path := dir + "/credentials.enc"

	first, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Store(&Account{Name: "a", ClientID: "id", ClientSecret: "s"}))

	second, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	got, err := second.Retrieve("a")
	require.NoError(t, err)
	assert.Equal(t, "id", got.ClientID)
}

func TestSanitizeAccount(t *testing.T) {
	account := &Account{
		Name:         "research",
		ClientID:     "abc123",
		ClientSecret: "supersecretvalue",
	}

	sanitized := SanitizeAccount(account)
	assert.Equal(t, "supe...alue", sanitized.ClientSecret)
	assert.Equal(t, "supersecretvalue", account.ClientSecret)

	short := SanitizeAccount(&Account{Name: "a", ClientSecret: "tiny"})
	assert.Equal(t, "********", short.ClientSecret)

	assert.Nil(t, SanitizeAccount(nil))
}
