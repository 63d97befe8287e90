package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vterekhov/procurement-backend/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *model.User) error
	UpdateAvatarPath(ctx context.Context, id uint64, path string) error

	CreateConfirmToken(ctx context.Context, t *model.EmailConfirmToken) error
	FindConfirmToken(ctx context.Context, token string) (*model.EmailConfirmToken, error)
	DeleteConfirmToken(ctx context.Context, id uint64) error

	FindIdentity(ctx context.Context, provider, subjectID string) (*model.ExternalIdentity, error)
	CreateIdentity(ctx context.Context, ident *model.ExternalIdentity) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepository) UpdateAvatarPath(ctx context.Context, id uint64, path string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]any{"avatar_path": path, "updated_at": time.Now()}).Error
}

func (r *userRepository) CreateConfirmToken(ctx context.Context, t *model.EmailConfirmToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *userRepository) FindConfirmToken(ctx context.Context, token string) (*model.EmailConfirmToken, error) {
	var t model.EmailConfirmToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *userRepository) DeleteConfirmToken(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.EmailConfirmToken{}, id).Error
}

func (r *userRepository) FindIdentity(ctx context.Context, provider, subjectID string) (*model.ExternalIdentity, error) {
	var ident model.ExternalIdentity
	err := r.db.WithContext(ctx).
		Where("provider = ? AND subject_id = ?", provider, subjectID).
		First(&ident).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ident, nil
}

func (r *userRepository) CreateIdentity(ctx context.Context, ident *model.ExternalIdentity) error {
	return r.db.WithContext(ctx).Create(ident).Error
}
