package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// TaskStore is the persistence contract behind TaskService.
// FindByID reports absence as a nil task; strict adapters may instead
// return gorm.ErrRecordNotFound, which TaskService also understands.
type TaskStore interface {
	FindAll(ctx context.Context) ([]model.Task, error)
	FindByID(ctx context.Context, id int) (*model.Task, error)
	FindByType(ctx context.Context, typeID int) ([]model.Task, error)
	Insert(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) (int64, error)
	DeleteByID(ctx context.Context, id int) (int64, error)
}

// TaskService wraps task-related business rules. It keeps no state
// between calls.
type TaskService struct {
	store TaskStore
}

func New(store TaskStore) (*TaskService, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	return &TaskService{store: store}, nil
}

func (s *TaskService) FindAll(ctx context.Context) ([]model.Task, error) {
	return s.store.FindAll(ctx)
}

func (s *TaskService) FindByType(ctx context.Context, typeID int) ([]model.Task, error) {
	return s.store.FindByType(ctx, typeID)
}

// GetTask returns (nil, nil) when the store reports the task as absent and
// a TaskNotFoundError when the store raises a not-found fault instead.
// Callers must handle both.
func (s *TaskService) GetTask(ctx context.Context, id int) (*model.Task, error) {
	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskNotFound(id)
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Insert(ctx context.Context, task *model.Task) error {
	return s.store.Insert(ctx, task)
}

// Update does not treat a missing row as an error.
func (s *TaskService) Update(ctx context.Context, task *model.Task) error {
	n, err := s.store.Update(ctx, task)
	if err != nil {
		return err
	}
	if n == 0 {
		log.WithField("task", task.ID).Debug("update matched no task")
	}
	return nil
}

func (s *TaskService) DeleteByID(ctx context.Context, id int) error {
	n, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return deleteTaskNotFound(id)
	}
	return nil
}
