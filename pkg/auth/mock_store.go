package auth

import (
	"fmt"
	"sync"
)

// MockStore implements CredentialStore for testing purposes
type MockStore struct {
	creds map[string]*Credential
	mu    sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	ListError     error
	DeleteError   error
}

// NewMockStore creates a new mock credential store
func NewMockStore() *MockStore {
	return &MockStore{
		creds: make(map[string]*Credential),
	}
}

// Store saves a credential to the mock store
func (m *MockStore) Store(cred *Credential) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if cred == nil || cred.Username == "" {
		return ErrInvalidCredentials
	}

	credCopy := *cred
	m.creds[cred.Username] = &credCopy

	return nil
}

// Retrieve gets a credential from the mock store
func (m *MockStore) Retrieve(username string) (*Credential, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if username == "" {
		return nil, ErrInvalidCredentials
	}

	cred, exists := m.creds[username]
	if !exists {
		return nil, ErrCredentialsNotFound
	}

	credCopy := *cred
	return &credCopy, nil
}

// List returns all stored credentials from the mock store
func (m *MockStore) List() ([]*Credential, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var creds []*Credential
	for _, cred := range m.creds {
		credCopy := *cred
		creds = append(creds, &credCopy)
	}

	return creds, nil
}

// Delete removes a credential from the mock store
func (m *MockStore) Delete(username string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if username == "" {
		return ErrInvalidCredentials
	}

	if _, exists := m.creds[username]; !exists {
		return ErrCredentialsNotFound
	}

	delete(m.creds, username)
	return nil
}

// Exists checks if a credential exists in the mock store
func (m *MockStore) Exists(username string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.creds[username]
	return exists
}

// Clear removes all credentials from the mock store
func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds = make(map[string]*Credential)
}

// Count returns the number of credentials in the mock store
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.creds)
}

// GetCredential returns a copy of the stored credential for inspection
func (m *MockStore) GetCredential(username string) (*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cred, exists := m.creds[username]
	if !exists {
		return nil, fmt.Errorf("credential not found: %s", username)
	}

	credCopy := *cred
	return &credCopy, nil
}

// NewMockManager creates a Manager with a mock store for testing
func NewMockManager() (*Manager, *MockStore) {
	mockStore := NewMockStore()
	manager := &Manager{
		stores: []CredentialStore{mockStore},
	}
	return manager, mockStore
}

// NewMockManagerWithStores creates a Manager with explicit stores for testing
func NewMockManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{
		stores: stores,
	}
}
