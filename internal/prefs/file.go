package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON file per scope under Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// DefaultDir is where the terminal client keeps its state.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "journal-terminal"), nil
}

func (s *FileStore) path(scope string) (string, error) {
	if scope == "" || strings.ContainsAny(scope, `/\`) || scope == "." || scope == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	return filepath.Join(s.Dir, scope+".json"), nil
}

func (s *FileStore) Load(ctx context.Context, scope string) (Prefs, error) {
	p, err := s.path(scope)
	if err != nil {
		return Prefs{}, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return Prefs{}, nil
	}
	if err != nil {
		return Prefs{}, err
	}
	var out Prefs
	if err := json.Unmarshal(data, &out); err != nil {
		return Prefs{}, fmt.Errorf("decode prefs %s: %w", p, err)
	}
	return out, nil
}

// Save writes through a temp file so a crash never leaves a half-written file.
func (s *FileStore) Save(ctx context.Context, scope string, pr Prefs) error {
	p, err := s.path(scope)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(pr, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, scope+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}
