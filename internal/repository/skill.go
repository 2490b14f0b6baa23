package repository

import (
	"context"

	"portfolio/internal/cache"
	"portfolio/internal/models"

	"gorm.io/gorm"
)

// SkillRepository defines persistence operations for skills.
type SkillRepository interface {
	List(ctx context.Context, offset, limit int) (*Page[models.Skill], error)
	GetByID(ctx context.Context, id uint) (*models.Skill, error)
	Create(ctx context.Context, skill *models.Skill) error
	Update(ctx context.Context, id uint, update models.SkillUpdate) (*models.Skill, error)
	Delete(ctx context.Context, id uint) error
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository returns a new SkillRepository implementation.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) List(ctx context.Context, offset, limit int) (*Page[models.Skill], error) {
	var page Page[models.Skill]
	key := cache.ListKey(ctx, cache.Skills, offset, limit)
	err := cache.Aside(ctx, key, &page, cache.ListTTL, func() error {
		p, err := listPage[models.Skill](ctx, r.db, "id ASC", offset, limit)
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

func (r *skillRepository) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	err := cache.Aside(ctx, cache.SkillKey(id), &skill, cache.ContentTTL, func() error {
		found, err := firstByID[models.Skill](ctx, r.db, "Skill", id)
		if err != nil {
			return err
		}
		skill = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.BumpGeneration(ctx, cache.Skills)
	return nil
}

func (r *skillRepository) Update(ctx context.Context, id uint, update models.SkillUpdate) (*models.Skill, error) {
	skill, err := updateByID[models.Skill](ctx, r.db, "Skill", id, update.Columns())
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return skill, nil
}

func (r *skillRepository) Delete(ctx context.Context, id uint) error {
	if err := deleteByID[models.Skill](ctx, r.db, "Skill", id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *skillRepository) invalidate(ctx context.Context, id uint) {
	cache.Invalidate(ctx, cache.SkillKey(id))
	cache.BumpGeneration(ctx, cache.Skills)
}
