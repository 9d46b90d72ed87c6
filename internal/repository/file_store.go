package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"catalog-api/internal/domain"
)

// FileStore is a JSON file-backed implementation of ProductStore. The
// backing file holds a single indented JSON array of product records,
// UTF-8, rewritten wholesale on every Persist.
type FileStore struct {
	path string
}

// compile-time assertion
var _ ProductStore = (*FileStore)(nil)

// NewFileStore constructs a FileStore over the given path. The file does
// not need to exist yet; a missing file loads as an empty collection.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the full collection in stored order. A missing or empty
// backing file yields an empty collection, not an error.
func (s *FileStore) Load(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Product{}, nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	if len(b) == 0 {
		return []domain.Product{}, nil
	}

	var products []domain.Product
	if err := json.Unmarshal(b, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}
	return products, nil
}

// Persist overwrites the backing file with the given collection. The data
// is written to a temporary file first and renamed into place, so a failed
// write never leaves a truncated file visible to later Loads.
func (s *FileStore) Persist(ctx context.Context, products []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	// indented for diffability
	b, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	b = append(b, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace catalog file: %w", err)
	}
	return nil
}
