package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/social-feed/internal/model"
)

type UserRepository interface {
    Create(ctx context.Context, u *model.User) error
    GetByID(ctx context.Context, id string) (*model.User, error)
    GetByUsername(ctx context.Context, username string) (*model.User, error)
    Exists(ctx context.Context, id string) (bool, error)
}

type userRepository struct {
    db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
    return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
    var u model.User
    if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
        return nil, err
    }
    return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
    var u model.User
    if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
        return nil, err
    }
    return &u, nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
    var cnt int64
    if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
        return false, err
    }
    return cnt > 0, nil
}
