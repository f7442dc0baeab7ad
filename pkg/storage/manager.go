// Package storage is the persistence collaborator for the pipeline: it owns
// the on-disk layout and exposes corpus saving (which yields the analytics
// report), checkpoint access, and session file path resolution as opaque
// operations.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"xscraper/pkg/analytics"
	"xscraper/pkg/checkpoint"
	"xscraper/pkg/logger"
	"xscraper/pkg/models"
)

// Manager handles artifact persistence for collection runs.
type Manager struct {
	baseDir             string
	createHandleFolders bool
	engine              *analytics.Engine
	log                 logger.Logger
}

// NewManager creates a storage manager rooted at baseDir.
func NewManager(baseDir string, createHandleFolders bool, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{
		baseDir:             baseDir,
		createHandleFolders: createHandleFolders,
		engine:              analytics.New(log),
		log:                 log,
	}, nil
}

// handleDir returns the directory for one handle's artifacts.
func (m *Manager) handleDir(handle string) string {
	if m.createHandleFolders {
		return filepath.Join(m.baseDir, handle)
	}
	return m.baseDir
}

// SaveTweets persists the collected corpus and the derived analytics report.
// The corpus write is the primary artifact: its failure is surfaced to the
// caller. A report-file failure only logs a warning since the report is also
// returned in memory.
func (m *Manager) SaveTweets(handle string, posts []*models.Post) (models.AnalyticsReport, error) {
	dir := m.handleDir(handle)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return models.AnalyticsReport{}, fmt.Errorf("failed to create handle directory: %w", err)
	}

	tweetsPath := filepath.Join(dir, "tweets.json")
	if err := writeJSONAtomic(tweetsPath, posts); err != nil {
		return models.AnalyticsReport{}, fmt.Errorf("failed to save tweets: %w", err)
	}

	report := m.engine.Aggregate(posts)

	reportPath := filepath.Join(dir, "report.json")
	if err := writeJSONAtomic(reportPath, report); err != nil {
		m.log.WithError(err).Warn("Failed to write report file")
	}

	m.log.InfoWithFields("Corpus saved", map[string]interface{}{
		"handle": handle,
		"tweets": len(posts),
		"path":   tweetsPath,
	})

	return report, nil
}

// GetLastCheckpoint returns the checkpoint token of a previous run, or ""
// when none exists.
func (m *Manager) GetLastCheckpoint(handle string) (string, error) {
	mgr, err := checkpoint.NewManager(m.baseDir, handle, m.log)
	if err != nil {
		return "", err
	}
	cp, err := mgr.Load()
	if err != nil {
		return "", err
	}
	if cp == nil {
		return "", nil
	}
	return cp.Token, nil
}

// SaveCheckpoint records the pagination token reached by this run.
func (m *Manager) SaveCheckpoint(handle, token string, collected int) error {
	mgr, err := checkpoint.NewManager(m.baseDir, handle, m.log)
	if err != nil {
		return err
	}
	return mgr.Save(&checkpoint.Checkpoint{
		Handle:         handle,
		Token:          token,
		CollectedCount: collected,
	})
}

// SessionPath resolves where the account's cookie file lives.
func (m *Manager) SessionPath(username string) string {
	return filepath.Join(m.baseDir, "sessions", fmt.Sprintf("%s.cookies.json", username))
}

// writeJSONAtomic writes v as indented JSON via temp file and rename.
func writeJSONAtomic(path string, v interface{}) error {
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}
