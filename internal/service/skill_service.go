package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"portfolio/internal/blob"
	"portfolio/internal/models"
	"portfolio/internal/repository"
)

type SkillService struct {
	repo    repository.SkillRepository
	store   blob.Store
	uploads UploadPolicy
	logger  *slog.Logger
}

// SkillInput is the form of a skill create or update. Blank fields are
// left untouched on update.
type SkillInput struct {
	Name              string
	Proficiency       string
	Description       string
	YearsOfExperience string
	Category          string
	Icon              *blob.File
}

func NewSkillService(repo repository.SkillRepository, store blob.Store, uploads UploadPolicy, logger *slog.Logger) *SkillService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SkillService{repo: repo, store: store, uploads: uploads, logger: logger}
}

func (s *SkillService) Create(ctx context.Context, in SkillInput) (*models.Skill, error) {
	in = in.trimmed()
	if in.Name == "" || in.Proficiency == "" || in.Description == "" || in.YearsOfExperience == "" || in.Category == "" {
		return nil, models.NewValidationError("All fields are required")
	}
	years, err := in.validate()
	if err != nil {
		return nil, err
	}
	if !hasFile(in.Icon) {
		return nil, models.NewValidationError("Skill icons are required")
	}
	if err := s.uploads.CheckImage("skillIcon", in.Icon, true); err != nil {
		return nil, err
	}

	batch := newUploadBatch(s.store, s.logger)
	icon, err := batch.upload(ctx, blob.FolderIcons, in.Icon)
	if err != nil {
		return nil, err
	}

	skill := &models.Skill{
		Name:              in.Name,
		Proficiency:       in.Proficiency,
		Description:       in.Description,
		YearsOfExperience: *years,
		Category:          in.Category,
		SkillIcon:         icon,
	}
	if err := s.repo.Create(ctx, skill); err != nil {
		batch.rollback(ctx)
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) List(ctx context.Context, req PageRequest) (*PageResult[models.Skill], error) {
	page, limit, offset := req.normalize(DefaultSkillLimit)
	res, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return newPageResult(res.Items, res.Total, page, limit), nil
}

func (s *SkillService) Get(ctx context.Context, id uint) (*models.Skill, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies the non-blank fields and replaces the icon when a new one
// is sent.
func (s *SkillService) Update(ctx context.Context, id uint, in SkillInput) (*models.Skill, error) {
	in = in.trimmed()
	years, err := in.validate()
	if err != nil {
		return nil, err
	}
	if err := s.uploads.CheckImage("skillIcon", in.Icon, false); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := models.SkillUpdate{
		Name:              optional(in.Name),
		Proficiency:       optional(in.Proficiency),
		Description:       optional(in.Description),
		YearsOfExperience: years,
		Category:          optional(in.Category),
	}

	batch := newUploadBatch(s.store, s.logger)
	if hasFile(in.Icon) {
		icon, err := batch.upload(ctx, blob.FolderIcons, in.Icon)
		if err != nil {
			return nil, err
		}
		update.SkillIcon = &icon
	}

	skill, err := s.repo.Update(ctx, id, update)
	if err != nil {
		batch.rollback(ctx)
		return nil, err
	}
	if update.SkillIcon != nil {
		destroyAsset(ctx, s.store, s.logger, current.SkillIcon)
	}
	return skill, nil
}

// Delete removes the skill and destroys its icon best-effort.
func (s *SkillService) Delete(ctx context.Context, id uint) error {
	skill, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	destroyAsset(ctx, s.store, s.logger, skill.SkillIcon)
	return nil
}

func (in SkillInput) trimmed() SkillInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Proficiency = strings.TrimSpace(in.Proficiency)
	in.Description = strings.TrimSpace(in.Description)
	in.YearsOfExperience = strings.TrimSpace(in.YearsOfExperience)
	in.Category = strings.TrimSpace(in.Category)
	return in
}

// validate checks the enum and numeric fields that are present.
func (in SkillInput) validate() (*int, error) {
	if in.Proficiency != "" && !models.IsValidProficiency(in.Proficiency) {
		return nil, models.NewValidationError(fmt.Sprintf("Invalid proficiency %q", in.Proficiency))
	}
	if in.Category != "" && !models.IsValidSkillCategory(in.Category) {
		return nil, models.NewValidationError(fmt.Sprintf("Invalid category %q", in.Category))
	}
	if in.YearsOfExperience == "" {
		return nil, nil
	}
	years, err := strconv.Atoi(in.YearsOfExperience)
	if err != nil || years < 0 {
		return nil, models.NewValidationError("Years of experience must be a non-negative number")
	}
	return &years, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
