package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"task-tracker/internal/model"
)

// TaskTypeStore lists and seeds task types.
type TaskTypeStore interface {
	List(ctx context.Context) ([]model.TaskType, error)
	SeedIfEmpty(ctx context.Context, types []model.TaskType) (int, error)
}

// TaskTypeService provides helpers around task types.
type TaskTypeService struct {
	repo TaskTypeStore
}

func NewTaskTypeService(repo TaskTypeStore) *TaskTypeService {
	return &TaskTypeService{repo: repo}
}

func (s *TaskTypeService) List(ctx context.Context) ([]model.TaskType, error) {
	return s.repo.List(ctx)
}

// EnsureDefaults seeds the default types into an empty table.
func (s *TaskTypeService) EnsureDefaults(ctx context.Context) error {
	n, err := s.repo.SeedIfEmpty(ctx, model.DefaultTaskTypes)
	if err != nil {
		return err
	}
	if n > 0 {
		log.WithField("count", n).Info("seeded task types")
	}
	return nil
}
