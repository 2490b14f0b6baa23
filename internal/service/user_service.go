package service

import (
	"context"
	"log/slog"
	"strings"

	"portfolio/internal/blob"
	"portfolio/internal/models"
	"portfolio/internal/repository"
)

const maxBioLen = 2000

type UserService struct {
	userRepo repository.UserRepository
	store    blob.Store
	uploads  UploadPolicy
	logger   *slog.Logger
}

// UpdateProfileInput carries the changed profile fields and optional
// replacement uploads.
type UpdateProfileInput struct {
	UserID uint
	Fields models.ProfileUpdate
	Avatar *blob.File
	Resume *blob.File
}

func NewUserService(userRepo repository.UserRepository, store blob.Store, uploads UploadPolicy, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{userRepo: userRepo, store: store, uploads: uploads, logger: logger}
}

// GetProfile returns the user behind a session.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies a partial update. New avatar or resume files are
// uploaded first and the replaced assets destroyed once the row is saved.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	fields := in.Fields
	if fields.Name != nil {
		trimmed := strings.TrimSpace(*fields.Name)
		if trimmed == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		fields.Name = &trimmed
	}
	if fields.Bio != nil && len(*fields.Bio) > maxBioLen {
		return nil, models.NewValidationError("Bio too long (max 2000 characters)")
	}
	if err := s.uploads.CheckImage("avatar", in.Avatar, false); err != nil {
		return nil, err
	}
	if err := s.uploads.CheckPDF("resume", in.Resume, false); err != nil {
		return nil, err
	}

	current, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	batch := newUploadBatch(s.store, s.logger)
	var replaced []models.Asset
	if hasFile(in.Avatar) {
		asset, err := batch.upload(ctx, blob.FolderAvatar, in.Avatar)
		if err != nil {
			return nil, err
		}
		fields.Avatar = &asset
		replaced = append(replaced, current.Avatar)
	}
	if hasFile(in.Resume) {
		asset, err := batch.upload(ctx, blob.FolderResume, in.Resume)
		if err != nil {
			batch.rollback(ctx)
			return nil, err
		}
		fields.Resume = &asset
		replaced = append(replaced, current.Resume)
	}

	if fields.IsEmpty() {
		return current, nil
	}

	user, err := s.userRepo.UpdateProfile(ctx, in.UserID, fields)
	if err != nil {
		batch.rollback(ctx)
		return nil, err
	}
	for _, old := range replaced {
		destroyAsset(ctx, s.store, s.logger, old)
	}
	return user, nil
}
