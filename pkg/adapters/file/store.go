// Package file persists model snapshots as JSON documents on the local filesystem.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

// DefaultDir is used when New receives an empty base path.
var DefaultDir = filepath.Join(".stepwise", "models")

// Store implements ports.ModelStore using the local filesystem.
// Each model is stored as <BasePath>/<name>.json.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

// Save persists the snapshot atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, name string, snap *domain.ModelSnapshot) error {
	destPath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure model directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*.json.part")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename does not replace an existing file on Windows.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing model file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to model file: %w", err)
	}
	return nil
}

// Load reads the snapshot. Numbers decode as json.Number and are coerced
// back to field types when the model is restored.
func (s *Store) Load(ctx context.Context, name string) (*domain.ModelSnapshot, error) {
	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var snap domain.ModelSnapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model %s: %w", name, err)
	}
	return &snap, nil
}

// Delete removes the model file.
func (s *Store) Delete(ctx context.Context, name string) error {
	filePath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete model file: %w", err)
	}
	return nil
}

// List returns the stored model names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(names)
	return names, nil
}

func (s *Store) path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("model name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid model name %q", name)
	}
	return filepath.Join(s.BasePath, name+".json"), nil
}
