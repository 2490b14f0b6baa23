package repository

import (
	"context"
	"errors"
	"time"

	"portfolio/internal/cache"
	"portfolio/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users. Default reads
// never load the password digest; the WithSecret variants do.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDWithSecret(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailWithSecret(ctx context.Context, email string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id uint, update models.ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id uint, digest string) error
	SetResetToken(ctx context.Context, id uint, hash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id uint) error
	ConsumeResetToken(ctx context.Context, id uint, hash, digest string, now time.Time) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).Omit("password").First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDWithSecret(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(r.db.WithContext(ctx).Omit("password"), "email = ?", models.NormalizeEmail(email))
}

func (r *userRepository) GetByEmailWithSecret(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(r.db.WithContext(ctx), "email = ?", models.NormalizeEmail(email))
}

func (r *userRepository) GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	if hash == "" {
		return nil, nil
	}
	return r.findOne(r.db.WithContext(ctx).Omit("password"), "reset_password_token_hash = ?", hash)
}

// findOne returns (nil, nil) when no row matches.
func (r *userRepository) findOne(db *gorm.DB, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := db.Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, update models.ProfileUpdate) (*models.User, error) {
	if cols := update.Columns(); len(cols) > 0 {
		res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, models.NewNotFoundError("User", id)
		}
		cache.InvalidateUser(ctx, id)
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword stores a new digest and clears any outstanding reset token
// in the same statement.
func (r *userRepository) UpdatePassword(ctx context.Context, id uint, digest string) error {
	return r.updateColumns(ctx, id, map[string]any{
		"password":                  digest,
		"reset_password_token_hash": nil,
		"reset_password_expires_at": nil,
	})
}

// SetResetToken replaces any previous reset request for the user.
func (r *userRepository) SetResetToken(ctx context.Context, id uint, hash string, expiresAt time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{
		"reset_password_token_hash": hash,
		"reset_password_expires_at": expiresAt.UTC(),
	})
}

func (r *userRepository) ClearResetToken(ctx context.Context, id uint) error {
	return r.updateColumns(ctx, id, map[string]any{
		"reset_password_token_hash": nil,
		"reset_password_expires_at": nil,
	})
}

// ConsumeResetToken sets the new digest and clears both reset fields only
// while the stored hash still matches and has not expired. It reports false
// when another request consumed the token first or it expired meanwhile.
func (r *userRepository) ConsumeResetToken(ctx context.Context, id uint, hash, digest string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reset_password_token_hash = ? AND reset_password_expires_at > ?", id, hash, now.UTC()).
		Updates(map[string]any{
			"password":                  digest,
			"reset_password_token_hash": nil,
			"reset_password_expires_at": nil,
		})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	cache.InvalidateUser(ctx, id)
	return true, nil
}

func (r *userRepository) updateColumns(ctx context.Context, id uint, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}
