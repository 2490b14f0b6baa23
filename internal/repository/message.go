package repository

import (
	"context"

	"portfolio/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for contact messages.
// Messages are listed newest first and are not cached.
type MessageRepository interface {
	List(ctx context.Context, offset, limit int) (*Page[models.Message], error)
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	Create(ctx context.Context, msg *models.Message) error
	MarkRead(ctx context.Context, id uint) (*models.Message, error)
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) List(ctx context.Context, offset, limit int) (*Page[models.Message], error) {
	return listPage[models.Message](ctx, r.db, "timestamp DESC, id DESC", offset, limit)
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return firstByID[models.Message](ctx, r.db, "Message", id)
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	msg.SenderEmail = models.NormalizeEmail(msg.SenderEmail)
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id uint) (*models.Message, error) {
	return updateByID[models.Message](ctx, r.db, "Message", id, map[string]any{"is_read": true})
}

func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID[models.Message](ctx, r.db, "Message", id)
}

func (r *messageRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Message{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
