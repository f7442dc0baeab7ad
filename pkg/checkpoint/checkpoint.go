// Package checkpoint persists the pagination cursor of a collection run so a
// later run can resume instead of restarting. A missing checkpoint is a
// normal starting state, never an error; files are written atomically to
// prevent a crash from corrupting the cursor.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"xscraper/pkg/logger"
)

// Checkpoint records how far a previous collection run progressed. Token is
// the opaque cursor handed back by the search capability.
type Checkpoint struct {
	Handle         string    `json:"handle"`
	Token          string    `json:"token"`
	CollectedCount int       `json:"collected_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

// Manager handles checkpoint operations for one handle.
type Manager struct {
	path string
	log  logger.Logger
}

// NewManager creates a checkpoint manager storing under dir.
func NewManager(dir, handle string, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	checkpointsDir := filepath.Join(dir, "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}
	return &Manager{
		path: filepath.Join(checkpointsDir, fmt.Sprintf("%s.checkpoint.json", handle)),
		log:  log,
	}, nil
}

// Load reads the checkpoint. A missing file returns (nil, nil).
func (m *Manager) Load() (*Checkpoint, error) {
	file, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer file.Close()

	var cp Checkpoint
	if err := json.NewDecoder(file).Decode(&cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}

	m.log.DebugWithFields("Checkpoint loaded", map[string]interface{}{
		"handle":     cp.Handle,
		"token":      cp.Token,
		"updated_at": cp.UpdatedAt,
	})

	return &cp, nil
}

// Save writes the checkpoint to disk atomically via temp file and rename.
func (m *Manager) Save(cp *Checkpoint) error {
	cp.UpdatedAt = time.Now()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = cp.UpdatedAt
	}
	if cp.Version == 0 {
		cp.Version = 1
	}

	tempPath := m.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cp); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	if err := os.Rename(tempPath, m.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	m.log.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"handle": cp.Handle,
		"token":  cp.Token,
	})

	return nil
}

// Delete removes the checkpoint file.
func (m *Manager) Delete() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}
