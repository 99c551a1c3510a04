package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"wfm-sync/internal/models"
	"wfm-sync/pkg/logger"
)

// Store persists how far into EE.log the last sync pass got.
type Store struct {
	path string
	log  *logger.Logger
}

func NewStore(path string, log *logger.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load returns the saved position. A missing file means nothing has been
// read yet and yields offset zero.
func (s *Store) Load() (models.ReadPosition, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("No sync state yet, starting from the beginning", "path", s.path)
			return models.ReadPosition{}, nil
		}
		return models.ReadPosition{}, fmt.Errorf("failed to read sync state: %w", err)
	}

	var pos models.ReadPosition
	if err := json.Unmarshal(data, &pos); err != nil {
		return models.ReadPosition{}, fmt.Errorf("failed to parse sync state %s: %w", s.path, err)
	}
	if pos.LastByteOffset < 0 {
		return models.ReadPosition{}, fmt.Errorf("invalid sync state %s: negative offset %d", s.path, pos.LastByteOffset)
	}

	return pos, nil
}

// Save replaces the state file. The write goes through a temporary file so a
// crash never leaves a half-written document behind.
func (s *Store) Save(pos models.ReadPosition) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("failed to encode sync state: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write sync state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace sync state: %w", err)
	}

	s.log.Debug("Saved sync state", "offset", pos.LastByteOffset)
	return nil
}
