package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFileStore stores receipt documents on the local filesystem.
type LocalFileStore struct {
	baseDir string
}

// NewLocalFileStore creates a file store rooted at baseDir, creating the
// directory if needed.
func NewLocalFileStore(baseDir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory %s: %w", baseDir, err)
	}
	return &LocalFileStore{baseDir: baseDir}, nil
}

// Store writes the document and returns its path.
func (s *LocalFileStore) Store(_ context.Context, data []byte, name string) (string, error) {
	// Receipts land in a flat directory; names carry the transaction id
	// and a timestamp, so collisions are not a concern.
	path := filepath.Join(s.baseDir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store receipt %s: %w", name, err)
	}
	return path, nil
}
