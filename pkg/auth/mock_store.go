package auth

import "sync"

// MockStore is an in-memory credential store for testing
type MockStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	failures map[string]error
}

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		accounts: make(map[string]*Account),
		failures: make(map[string]error),
	}
}

// FailWith makes the named operation return err
func (m *MockStore) FailWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

// Store saves an account in memory
func (m *MockStore) Store(account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures["store"]; err != nil {
		return err
	}

	copied := *account
	m.accounts[account.Name] = &copied
	return nil
}

// Retrieve gets an account from memory
func (m *MockStore) Retrieve(name string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failures["retrieve"]; err != nil {
		return nil, err
	}

	account, ok := m.accounts[name]
	if !ok {
		return nil, ErrCredentialsNotFound
	}

	copied := *account
	return &copied, nil
}

// List returns all accounts in memory
func (m *MockStore) List() ([]*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failures["list"]; err != nil {
		return nil, err
	}

	var accounts []*Account
	for _, account := range m.accounts {
		copied := *account
		accounts = append(accounts, &copied)
	}
	return accounts, nil
}

// Delete removes an account from memory
func (m *MockStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures["delete"]; err != nil {
		return err
	}

	if _, ok := m.accounts[name]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.accounts, name)
	return nil
}

// Exists checks whether an account is present
func (m *MockStore) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.accounts[name]
	return ok
}
