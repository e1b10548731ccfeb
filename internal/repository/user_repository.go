package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) FindActive(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find active users: %w", err)
	}
	return users, nil
}

// FindByID expects exactly one row; a missing user is reported as
// gorm.ErrRecordNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Insert(ctx context.Context, user *model.User) (int64, error) {
	res := r.db.WithContext(ctx).Create(user)
	if res.Error != nil {
		return 0, fmt.Errorf("create user: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"username":     user.Username,
		"email":        user.Email,
		"password":     user.Password,
		"enabled":      user.Enabled,
		"authority_id": user.AuthorityID,
		"temp_key":     user.TempKey,
	})
	if res.Error != nil {
		return 0, fmt.Errorf("update user: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete user: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// EnsureOwner makes sure the user that owns every task exists.
func (r *UserRepository) EnsureOwner(ctx context.Context, id int) (*model.User, error) {
	user, err := r.FindByID(ctx, id)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{
			ID:          id,
			Username:    "owner",
			Email:       fmt.Sprintf("owner-%d@localhost", id),
			Enabled:     true,
			AuthorityID: "USER",
		}
		if _, err := r.Insert(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}
