// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"portfolio/internal/models"

	"gorm.io/gorm"
)

// Page is one page of a collection plus the collection size.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func listPage[T any](ctx context.Context, db *gorm.DB, order string, offset, limit int) (*Page[T], error) {
	var total int64
	if err := db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	items := make([]T, 0, limit)
	if total > int64(offset) {
		if err := db.WithContext(ctx).Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	return &Page[T]{Items: items, Total: total}, nil
}

func firstByID[T any](ctx context.Context, db *gorm.DB, resource string, id uint) (*T, error) {
	var out T
	if err := db.WithContext(ctx).First(&out, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(resource, id)
		}
		return nil, models.NewInternalError(err)
	}
	return &out, nil
}

// updateByID applies cols to the row with id and returns the reloaded row.
func updateByID[T any](ctx context.Context, db *gorm.DB, resource string, id uint, cols map[string]any) (*T, error) {
	if len(cols) > 0 {
		res := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, models.NewNotFoundError(resource, id)
		}
	}
	return firstByID[T](ctx, db, resource, id)
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, resource string, id uint) error {
	res := db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(resource, id)
	}
	return nil
}
