package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It is read-only and exists so CI and containers can inject credentials.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets a credential from environment variables
func (e *EnvironmentStore) Retrieve(username string) (*Credential, error) {
	envUser := os.Getenv("XSCRAPER_USERNAME")
	password := os.Getenv("XSCRAPER_PASSWORD")
	email := os.Getenv("XSCRAPER_EMAIL")

	if envUser == "" || password == "" {
		return nil, ErrCredentialsNotFound
	}
	if username != "" && username != envUser {
		return nil, ErrCredentialsNotFound
	}

	return &Credential{
		Username:     envUser,
		Password:     password,
		Email:        email,
		LastModified: time.Now(),
	}, nil
}

// List returns the single environment credential when one is set
func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(username string) bool {
	_, err := e.Retrieve(username)
	return err == nil
}
