package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"xscraper/pkg/auth"
	"xscraper/pkg/cookies"
	"xscraper/pkg/logger"
	"xscraper/pkg/retry"
)

// State tracks where the session lifecycle currently stands.
type State string

const (
	StateNoSession     State = "no_session"
	StateAttempting    State = "attempting"
	StateAuthenticated State = "authenticated"
	StateFailed        State = "failed"
	StateLoggedOut     State = "logged_out"
)

// Client is the subset of the scraping client the session lifecycle needs.
type Client interface {
	Login(ctx context.Context, username, password, email string) error
	IsLoggedIn(ctx context.Context) bool
	GetCookies() []cookies.Entry
	SetCookies(entries []cookies.Entry) error
	Logout(ctx context.Context) error
}

// Manager owns the session lifecycle: reuse a persisted cookie session when
// it is still valid, otherwise log in fresh with bounded retries and persist
// the new session.
type Manager struct {
	client     Client
	path       string
	maxRetries int
	retryDelay time.Duration
	log        logger.Logger

	state State
}

// NewManager creates a session manager persisting cookies at path.
func NewManager(client Client, path string, maxRetries int, retryDelay time.Duration, log logger.Logger) *Manager {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Manager{
		client:     client,
		path:       path,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		log:        log,
		state:      StateNoSession,
	}
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	return m.state
}

// TryLoadSession reads the persisted cookie file and installs it into the
// client. A missing file is reported as an error so callers fall through to
// a fresh login.
func (m *Manager) TryLoadSession() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("no persisted session: %w", err)
	}

	entries, err := cookies.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("session file %s holds no usable cookies", m.path)
	}

	if err := m.client.SetCookies(entries); err != nil {
		return fmt.Errorf("failed to install session cookies: %w", err)
	}

	m.log.DebugWithFields("Loaded persisted session", map[string]interface{}{
		"path":    m.path,
		"cookies": len(entries),
	})
	return nil
}

// IsSessionValid probes whether the installed session is still accepted.
func (m *Manager) IsSessionValid(ctx context.Context) bool {
	return m.client.IsLoggedIn(ctx)
}

// Login performs a fresh credentialed login with bounded linear-backoff
// retries: no delay before the first attempt, then retryDelay*(n-1) before
// attempt n.
func (m *Manager) Login(ctx context.Context, cred *auth.Credential) error {
	if cred == nil || cred.Username == "" || cred.Password == "" {
		m.state = StateFailed
		return fmt.Errorf("login requires a username and password")
	}

	m.state = StateAttempting
	attempt := 0

	err := retry.Do(func() error {
		attempt++
		err := m.client.Login(ctx, cred.Username, cred.Password, cred.Email)
		logger.LogLoginAttempt(cred.Username, attempt, m.maxRetries, err)
		return err
	}, &retry.Config{
		MaxAttempts: m.maxRetries,
		Backoff:     &retry.LinearBackoff{Base: m.retryDelay, Increment: m.retryDelay},
		RetryIf:     func(error) bool { return true },
		Context:     ctx,
		Logger:      m.log,
	})
	if err != nil {
		m.state = StateFailed
		return fmt.Errorf("login failed after %d attempts: %w", attempt, err)
	}

	m.state = StateAuthenticated
	return nil
}

// SaveSession persists the client's current cookies wholesale.
func (m *Manager) SaveSession() error {
	entries := m.client.GetCookies()
	if len(entries) == 0 {
		return fmt.Errorf("no session cookies to persist")
	}

	data, err := cookies.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	m.log.DebugWithFields("Persisted session", map[string]interface{}{
		"path":    m.path,
		"cookies": len(entries),
	})
	return nil
}

// Logout invalidates the session. Failures are logged and swallowed since
// logout is cleanup, not a pipeline stage.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.client.Logout(ctx); err != nil {
		m.log.WithError(err).Warn("Logout failed, continuing")
	}
	m.state = StateLoggedOut
}

// Establish runs the full ladder: reuse a persisted session when it is still
// valid, otherwise log in fresh and persist the confirmed-good session.
func (m *Manager) Establish(ctx context.Context, cred *auth.Credential) error {
	if err := m.TryLoadSession(); err == nil {
		if m.IsSessionValid(ctx) {
			m.state = StateAuthenticated
			m.log.Info("Reusing persisted session")
			return nil
		}
		m.log.Info("Persisted session expired, logging in fresh")
	} else {
		m.log.WithError(err).Debug("No reusable session")
	}

	if err := m.Login(ctx, cred); err != nil {
		return err
	}

	if err := m.SaveSession(); err != nil {
		// The session works even when it could not be persisted.
		m.log.WithError(err).Warn("Failed to persist session")
	}
	return nil
}
