package service

import (
	"context"
	"log/slog"
	"strings"

	"portfolio/internal/blob"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/validation"
)

type ProjectService struct {
	repo    repository.ProjectRepository
	store   blob.Store
	uploads UploadPolicy
	logger  *slog.Logger
}

// ProjectInput is the form of a project create or update. Technologies is
// the raw comma separated list.
type ProjectInput struct {
	Title        string
	Description  string
	LiveLink     string
	RepoLink     string
	Technologies string
	Icon         *blob.File
}

func NewProjectService(repo repository.ProjectRepository, store blob.Store, uploads UploadPolicy, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{repo: repo, store: store, uploads: uploads, logger: logger}
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	in = in.trimmed()
	technologies := models.SplitTechnologies(in.Technologies)
	if in.Title == "" || in.Description == "" || in.LiveLink == "" || in.RepoLink == "" || len(technologies) == 0 {
		return nil, models.NewValidationError("All fields are required")
	}
	if err := in.validateLinks(); err != nil {
		return nil, err
	}
	if !hasFile(in.Icon) {
		return nil, models.NewValidationError("Project icon is required")
	}
	if err := s.uploads.CheckImage("projectIcon", in.Icon, true); err != nil {
		return nil, err
	}

	batch := newUploadBatch(s.store, s.logger)
	icon, err := batch.upload(ctx, blob.FolderProjects, in.Icon)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:        in.Title,
		Description:  in.Description,
		LiveLink:     in.LiveLink,
		RepoLink:     in.RepoLink,
		Technologies: technologies,
		ProjectIcon:  icon,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		batch.rollback(ctx)
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, req PageRequest) (*PageResult[models.Project], error) {
	page, limit, offset := req.normalize(DefaultProjectLimit)
	res, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return newPageResult(res.Items, res.Total, page, limit), nil
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies the non-blank fields. A new icon replaces the old one,
// which is destroyed before the upload.
func (s *ProjectService) Update(ctx context.Context, id uint, in ProjectInput) (*models.Project, error) {
	in = in.trimmed()
	if err := in.validateLinks(); err != nil {
		return nil, err
	}
	if err := s.uploads.CheckImage("projectIcon", in.Icon, false); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := models.ProjectUpdate{
		Title:       optional(in.Title),
		Description: optional(in.Description),
		LiveLink:    optional(in.LiveLink),
		RepoLink:    optional(in.RepoLink),
	}
	if technologies := models.SplitTechnologies(in.Technologies); len(technologies) > 0 {
		update.Technologies = technologies
	}

	batch := newUploadBatch(s.store, s.logger)
	if hasFile(in.Icon) {
		destroyAsset(ctx, s.store, s.logger, current.ProjectIcon)
		icon, err := batch.upload(ctx, blob.FolderProjects, in.Icon)
		if err != nil {
			return nil, err
		}
		update.ProjectIcon = &icon
	}

	project, err := s.repo.Update(ctx, id, update)
	if err != nil {
		batch.rollback(ctx)
		return nil, err
	}
	return project, nil
}

// Delete removes the project and destroys its icon best-effort.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	destroyAsset(ctx, s.store, s.logger, project.ProjectIcon)
	return nil
}

func (in ProjectInput) trimmed() ProjectInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.LiveLink = strings.TrimSpace(in.LiveLink)
	in.RepoLink = strings.TrimSpace(in.RepoLink)
	return in
}

func (in ProjectInput) validateLinks() error {
	if in.LiveLink != "" {
		if err := validation.ValidateURL("liveLink", in.LiveLink); err != nil {
			return models.NewValidationError(err.Error())
		}
	}
	if in.RepoLink != "" {
		if err := validation.ValidateURL("repoLink", in.RepoLink); err != nil {
			return models.NewValidationError(err.Error())
		}
	}
	return nil
}
