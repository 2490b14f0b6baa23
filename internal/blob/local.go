package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"portfolio/internal/models"
)

// LocalStore keeps objects on disk under a root directory. The HTTP server
// serves that directory at /uploads.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates root if needed. baseURL is the public URL prefix of root.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{root: root, baseURL: baseURL}, nil
}

// Root returns the directory objects are written to.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Upload(ctx context.Context, folder string, f File) (models.Asset, error) {
	if err := ctx.Err(); err != nil {
		return models.Asset{}, err
	}
	key := objectKey(folder, f.Name)
	dst := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return models.Asset{}, fmt.Errorf("failed to create folder: %w", err)
	}
	if err := os.WriteFile(dst, f.Data, 0o644); err != nil {
		return models.Asset{}, fmt.Errorf("failed to write object: %w", err)
	}

	return models.Asset{PublicID: key, URL: s.baseURL + "/" + key}, nil
}

// Destroy removes the object. Removing a missing object is not an error.
func (s *LocalStore) Destroy(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validPublicID(publicID) {
		return ErrInvalidPublicID
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(publicID)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}
