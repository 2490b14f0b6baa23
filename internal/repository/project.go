package repository

import (
	"context"

	"portfolio/internal/cache"
	"portfolio/internal/models"

	"gorm.io/gorm"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	List(ctx context.Context, offset, limit int) (*Page[models.Project], error)
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, id uint, update models.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository returns a new ProjectRepository implementation.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) List(ctx context.Context, offset, limit int) (*Page[models.Project], error) {
	var page Page[models.Project]
	key := cache.ListKey(ctx, cache.Projects, offset, limit)
	err := cache.Aside(ctx, key, &page, cache.ListTTL, func() error {
		p, err := listPage[models.Project](ctx, r.db, "id ASC", offset, limit)
		if err != nil {
			return err
		}
		page = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := cache.Aside(ctx, cache.ProjectKey(id), &project, cache.ContentTTL, func() error {
		found, err := firstByID[models.Project](ctx, r.db, "Project", id)
		if err != nil {
			return err
		}
		project = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.BumpGeneration(ctx, cache.Projects)
	return nil
}

func (r *projectRepository) Update(ctx context.Context, id uint, update models.ProjectUpdate) (*models.Project, error) {
	project, err := updateByID[models.Project](ctx, r.db, "Project", id, update.Columns())
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return project, nil
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	if err := deleteByID[models.Project](ctx, r.db, "Project", id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *projectRepository) invalidate(ctx context.Context, id uint) {
	cache.Invalidate(ctx, cache.ProjectKey(id))
	cache.BumpGeneration(ctx, cache.Projects)
}
