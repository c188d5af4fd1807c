package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"holou/internal/models/db_models"
)

type AvatarRepositoryInterface interface {
	CreateAvatar(ctx context.Context, avatar *db_models.Avatar) error
	GetAvatarByID(ctx context.Context, id uuid.UUID) (*db_models.Avatar, error)
	ListAvatars(ctx context.Context, page, pageSize int) ([]db_models.Avatar, error)
}

type AvatarRepository struct {
	db *gorm.DB
}

func NewAvatarRepository(db *gorm.DB) *AvatarRepository {
	return &AvatarRepository{db: db}
}

func (r *AvatarRepository) CreateAvatar(ctx context.Context, avatar *db_models.Avatar) error {
	return r.db.WithContext(ctx).Create(avatar).Error
}

func (r *AvatarRepository) GetAvatarByID(ctx context.Context, id uuid.UUID) (*db_models.Avatar, error) {
	var avatar db_models.Avatar
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&avatar).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &avatar, nil
}

func (r *AvatarRepository) ListAvatars(ctx context.Context, page, pageSize int) ([]db_models.Avatar, error) {
	var avatars []db_models.Avatar
	err := r.db.WithContext(ctx).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Order("created_at DESC").
		Find(&avatars).Error
	return avatars, err
}
