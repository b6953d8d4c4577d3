package repository

import (
	"context"

	"gorm.io/gorm"

	"nexus-lab/backend/internal/model"
)

// UserRepository 用户目录数据访问接口（引擎侧只读）
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, role string) ([]model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, role string) ([]model.User, error) {
	var users []model.User
	q := r.db.WithContext(ctx).Order("name ASC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Find(&users).Error
	return users, err
}
