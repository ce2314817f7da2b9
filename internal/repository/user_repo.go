package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/models"
)

// UserRepository persists anonymous user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uint) (models.User, error)
	GetByHandle(ctx context.Context, handle string) (models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository backed by GORM.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Get(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByHandle(ctx context.Context, handle string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
