package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Credential holds one account's login material.
type Credential struct {
	Username     string    `json:"username"`
	Password     string    `json:"password"`
	Email        string    `json:"email,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Store saves a credential
	Store(cred *Credential) error

	// Retrieve gets the credential for a specific username
	Retrieve(username string) (*Credential, error)

	// List returns all stored credentials
	List() ([]*Credential, error)

	// Delete removes the credential for a specific username
	Delete(username string) error

	// Exists checks if a credential exists for a username
	Exists(username string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a credential manager with the available storage
// backends, most secure first: system keychain, encrypted file, environment.
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// Store saves a credential using the first store that accepts it.
func (m *Manager) Store(cred *Credential) error {
	if cred.Username == "" {
		return errors.New("username is required")
	}
	if cred.Password == "" {
		return errors.New("password is required")
	}

	cred.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(cred); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets the credential from the first store that has it.
func (m *Manager) Retrieve(username string) (*Credential, error) {
	for _, store := range m.stores {
		if cred, err := store.Retrieve(username); err == nil && cred != nil {
			return cred, nil
		}
	}
	return nil, fmt.Errorf("credentials not found for user: %s", username)
}

// RetrieveDefault gets the environment credential when one is configured,
// otherwise the first stored account.
func (m *Manager) RetrieveDefault() (*Credential, error) {
	if envStore, ok := m.stores[len(m.stores)-1].(*EnvironmentStore); ok {
		if cred, err := envStore.Retrieve(""); err == nil && cred != nil {
			return cred, nil
		}
	}

	creds, err := m.List()
	if err == nil && len(creds) > 0 {
		return creds[0], nil
	}

	return nil, errors.New("no credentials found")
}

// List returns all stored credentials from all stores, most recently
// modified version winning per username.
func (m *Manager) List() ([]*Credential, error) {
	credMap := make(map[string]*Credential)

	for _, store := range m.stores {
		creds, err := store.List()
		if err != nil {
			continue
		}
		for _, cred := range creds {
			if existing, ok := credMap[cred.Username]; !ok || cred.LastModified.After(existing.LastModified) {
				credMap[cred.Username] = cred
			}
		}
	}

	var result []*Credential
	for _, cred := range credMap {
		result = append(result, cred)
	}

	return result, nil
}

// Delete removes the credential from all stores.
func (m *Manager) Delete(username string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(username); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("credentials not found for user: %s", username)
	}

	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "xscraper")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "xscraper")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "xscraper")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "xscraper")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// Sanitize creates a copy of the credential with the password masked.
func Sanitize(cred *Credential) *Credential {
	if cred == nil {
		return nil
	}

	return &Credential{
		Username:     cred.Username,
		Password:     maskString(cred.Password),
		Email:        cred.Email,
		LastModified: cred.LastModified,
	}
}

// maskString masks all but the first and last character of a string
func maskString(s string) string {
	if len(s) <= 4 {
		return "********"
	}
	return s[:1] + "******" + s[len(s)-1:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
