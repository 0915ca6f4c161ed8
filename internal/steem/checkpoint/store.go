// Package checkpoint persists the resume point and the last seen chain properties on local disk.
package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/model"
)

const (
	checkpointFile = "checkpoint"
	stateFile      = "state"
)

// FileStore keeps the checkpoint and properties files in a single directory.
// The directory is created on first write.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. A leading "~/" expands to the home directory.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("state directory is required")
	}
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the resolved state directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// LoadCheckpoint returns the last fully dispatched block number. When no checkpoint
// exists yet, fallback is written first and then read back.
func (s *FileStore) LoadCheckpoint(fallback uint64) (uint64, error) {
	data, err := os.ReadFile(s.path(checkpointFile))
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.SaveCheckpoint(fallback); err != nil {
			return 0, err
		}
		data, err = os.ReadFile(s.path(checkpointFile))
	}
	if err != nil {
		return 0, fmt.Errorf("read checkpoint: %w", err)
	}

	num, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse checkpoint %q: %w", string(data), err)
	}
	return num, nil
}

// SaveCheckpoint replaces the stored checkpoint.
func (s *FileStore) SaveCheckpoint(num uint64) error {
	if err := s.write(checkpointFile, []byte(strconv.FormatUint(num, 10))); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// LoadProperties returns the last stored properties snapshot. When none exists yet,
// fallback is written first and then read back.
func (s *FileStore) LoadProperties(fallback *model.Properties) (*model.Properties, error) {
	data, err := os.ReadFile(s.path(stateFile))
	if errors.Is(err, fs.ErrNotExist) {
		if fallback == nil {
			return nil, errors.New("no stored properties and no fallback")
		}
		if err := s.SaveProperties(fallback); err != nil {
			return nil, err
		}
		data, err = os.ReadFile(s.path(stateFile))
	}
	if err != nil {
		return nil, fmt.Errorf("read properties: %w", err)
	}
	return model.ParseProperties(data)
}

// SaveProperties replaces the stored properties snapshot.
func (s *FileStore) SaveProperties(props *model.Properties) error {
	if props == nil {
		return errors.New("save properties: nil properties")
	}
	data, err := props.JSON()
	if err != nil {
		return fmt.Errorf("encode properties: %w", err)
	}
	if err := s.write(stateFile, data); err != nil {
		return fmt.Errorf("save properties: %w", err)
	}
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// write replaces name atomically so a crash never leaves a truncated file behind.
func (s *FileStore) write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
