package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-tracker/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// FindAll returns every task ordered by id.
func (r *TaskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := r.db.WithContext(ctx).Preload("TaskType").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

// FindByID returns nil without an error when no task has the given id.
func (r *TaskRepository) FindByID(ctx context.Context, id int) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Preload("TaskType").First(&task, id).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

// FindByType returns tasks of the given type ordered by id.
func (r *TaskRepository) FindByType(ctx context.Context, typeID int) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := r.db.WithContext(ctx).Preload("TaskType").Where("type_id = ?", typeID).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("find tasks by type: %w", err)
	}
	return tasks, nil
}

// Insert stores the task and sets its ID.
func (r *TaskRepository) Insert(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Update overwrites every editable column of the row with task.ID and
// reports how many rows matched.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
		"user_id":  task.UserID,
		"type_id":  task.TypeID,
		"title":    task.Title,
		"detail":   task.Detail,
		"deadline": task.Deadline,
	})
	if res.Error != nil {
		return 0, fmt.Errorf("update task: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteByID removes a task and reports how many rows were deleted.
func (r *TaskRepository) DeleteByID(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete task: %w", res.Error)
	}
	return res.RowsAffected, nil
}
