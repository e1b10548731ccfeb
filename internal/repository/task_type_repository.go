package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// TaskTypeRepository manages task types.
type TaskTypeRepository struct {
	db *gorm.DB
}

func NewTaskTypeRepository(db *gorm.DB) *TaskTypeRepository {
	return &TaskTypeRepository{db: db}
}

func (r *TaskTypeRepository) List(ctx context.Context) ([]model.TaskType, error) {
	types := []model.TaskType{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("list task types: %w", err)
	}
	return types, nil
}

// SeedIfEmpty inserts the given types when the table has no rows yet.
func (r *TaskTypeRepository) SeedIfEmpty(ctx context.Context, types []model.TaskType) (int, error) {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.TaskType{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count task types: %w", err)
	}
	if count > 0 || len(types) == 0 {
		return 0, nil
	}

	seed := make([]model.TaskType, len(types))
	copy(seed, types)
	if err := db.Create(&seed).Error; err != nil {
		return 0, fmt.Errorf("seed task types: %w", err)
	}
	return len(seed), nil
}
