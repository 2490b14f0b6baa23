// Package blob stores uploaded assets (avatars, resumes, icons) in an
// external object store and addresses them by public id and URL.
package blob

import (
	"context"
	"errors"
	"path"
	"strings"

	"portfolio/internal/models"
	"portfolio/internal/observability"

	"github.com/google/uuid"
)

// Folders used for uploads.
const (
	FolderAvatar   = "AVATAR"
	FolderResume   = "RESUME"
	FolderIcons    = "ICONS"
	FolderProjects = "PROJECTS"
)

// ErrInvalidPublicID is returned for ids that do not address a stored object.
var ErrInvalidPublicID = errors.New("invalid public id")

// File is an in-memory upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store uploads and destroys assets.
type Store interface {
	Upload(ctx context.Context, folder string, f File) (models.Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// objectKey names a new object: <folder>/<uuid><ext>.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	return folder + "/" + uuid.NewString() + ext
}

// validPublicID rejects ids that could escape the store root.
func validPublicID(id string) bool {
	if id == "" || strings.HasPrefix(id, "/") || strings.Contains(id, "\\") {
		return false
	}
	return path.Clean(id) == id && !strings.HasPrefix(id, "../") && id != ".."
}

type instrumented struct {
	next Store
}

// Instrument wraps s with Prometheus metrics.
func Instrument(s Store) Store {
	return &instrumented{next: s}
}

func (i *instrumented) Upload(ctx context.Context, folder string, f File) (models.Asset, error) {
	done := observability.TrackBlob("upload")
	asset, err := i.next.Upload(ctx, folder, f)
	done(err)
	return asset, err
}

func (i *instrumented) Destroy(ctx context.Context, publicID string) error {
	done := observability.TrackBlob("destroy")
	err := i.next.Destroy(ctx, publicID)
	done(err)
	return err
}
