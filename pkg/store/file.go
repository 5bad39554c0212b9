package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/persist"
)

// FileStore is a file-based diagram store for CLI use. Each diagram is one
// JSON file named <name>.json in the base directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store rooted at baseDir.
// If baseDir is empty, defaults to ~/.config/umlkit/diagrams/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "umlkit", "diagrams")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create diagram dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) diagramPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Path returns the base directory for diagram files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) Save(ctx context.Context, name string, d *diagram.Diagram) error {
	if err := validateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return persist.WriteFile(d, s.diagramPath(name))
}

func (s *FileStore) Load(ctx context.Context, name string) (*diagram.Diagram, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, err := persist.ReadFile(s.diagramPath(name))
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
	}
	return d, err
}

func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read diagram dir")
	}

	var out []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var doc persist.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			continue
		}
		info := Info{
			Name:    strings.TrimSuffix(entry.Name(), ".json"),
			Diagram: doc.Diagram,
		}
		if fi, err := entry.Info(); err == nil {
			info.UpdatedAt = fi.ModTime()
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.diagramPath(name)); err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "remove diagram file")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
