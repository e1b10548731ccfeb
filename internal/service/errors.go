package service

import "errors"

const (
	msgTaskNotFound       = "the specified task does not exist"
	msgDeleteTaskNotFound = "the task to delete does not exist"
)

var (
	// ErrNotFound matches every TaskNotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
	ErrStoreNil = errors.New("task store is nil")
)

// TaskNotFoundError reports that an expected task is absent.
type TaskNotFoundError struct {
	ID  int
	msg string
}

func (e *TaskNotFoundError) Error() string { return e.msg }

func (e *TaskNotFoundError) Is(target error) bool { return target == ErrNotFound }

func taskNotFound(id int) error {
	return &TaskNotFoundError{ID: id, msg: msgTaskNotFound}
}

func deleteTaskNotFound(id int) error {
	return &TaskNotFoundError{ID: id, msg: msgDeleteTaskNotFound}
}
