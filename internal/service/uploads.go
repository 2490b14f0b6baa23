package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"
	"net/http"
	"strings"

	"portfolio/internal/blob"
	"portfolio/internal/models"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// DefaultMaxUploadBytes is used when no upload limit is configured.
const DefaultMaxUploadBytes int64 = 1024 * 1024

// UploadPolicy validates uploaded files before they reach the blob store.
type UploadPolicy struct {
	MaxBytes int64
}

func (p UploadPolicy) maxBytes() int64 {
	if p.MaxBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return p.MaxBytes
}

func (p UploadPolicy) tooLarge(label string) error {
	limit := p.maxBytes()
	if limit%(1024*1024) == 0 {
		return models.NewValidationError(fmt.Sprintf("Please upload %s less than %dMB", label, limit/(1024*1024)))
	}
	return models.NewValidationError(fmt.Sprintf("Please upload %s less than %d bytes", label, limit))
}

// hasFile reports whether f carries content. An empty part means "no file".
func hasFile(f *blob.File) bool {
	return f != nil && len(f.Data) > 0
}

// CheckImage validates an image upload named field. A missing or empty file
// passes unless required.
func (p UploadPolicy) CheckImage(field string, f *blob.File, required bool) error {
	if !hasFile(f) {
		if required {
			return models.NewValidationError(fmt.Sprintf("%s is required", field))
		}
		return nil
	}
	if int64(len(f.Data)) > p.maxBytes() {
		return p.tooLarge("an image")
	}

	detected := http.DetectContentType(f.Data)
	if !isAllowedImageMIME(detected) {
		return models.NewValidationError(fmt.Sprintf("%s must be a PNG, JPEG, GIF or WebP image", field))
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(f.Data)); err != nil {
		return models.NewValidationError(fmt.Sprintf("%s is not a valid image file", field))
	}
	f.ContentType = detected
	return nil
}

// CheckPDF validates a PDF upload named field.
func (p UploadPolicy) CheckPDF(field string, f *blob.File, required bool) error {
	if !hasFile(f) {
		if required {
			return models.NewValidationError(fmt.Sprintf("%s is required", field))
		}
		return nil
	}
	if int64(len(f.Data)) > p.maxBytes() {
		return p.tooLarge("a PDF")
	}
	if detected := http.DetectContentType(f.Data); detected != "application/pdf" {
		return models.NewValidationError(fmt.Sprintf("%s must be a PDF document", field))
	}
	f.ContentType = "application/pdf"
	return nil
}

func isAllowedImageMIME(mimeType string) bool {
	switch strings.ToLower(mimeType) {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return true
	}
	return false
}

// uploadBatch uploads files for one request and can undo them.
type uploadBatch struct {
	store    blob.Store
	logger   *slog.Logger
	uploaded []models.Asset
}

func newUploadBatch(store blob.Store, logger *slog.Logger) *uploadBatch {
	return &uploadBatch{store: store, logger: logger}
}

// upload stores f in folder. A missing or empty file yields a zero Asset.
func (b *uploadBatch) upload(ctx context.Context, folder string, f *blob.File) (models.Asset, error) {
	if !hasFile(f) {
		return models.Asset{}, nil
	}
	asset, err := b.store.Upload(ctx, folder, *f)
	if err != nil {
		return models.Asset{}, models.NewUploadError(err)
	}
	b.uploaded = append(b.uploaded, asset)
	return asset, nil
}

// rollback destroys everything uploaded so far, best-effort.
func (b *uploadBatch) rollback(ctx context.Context) {
	for _, asset := range b.uploaded {
		destroyAsset(ctx, b.store, b.logger, asset)
	}
	b.uploaded = nil
}

// destroyAsset removes a stored asset, logging failures.
func destroyAsset(ctx context.Context, store blob.Store, logger *slog.Logger, asset models.Asset) {
	if !asset.IsSet() {
		return
	}
	if err := store.Destroy(ctx, asset.PublicID); err != nil {
		logger.WarnContext(ctx, "failed to destroy asset",
			slog.String("public_id", asset.PublicID),
			slog.String("error", err.Error()),
		)
	}
}
