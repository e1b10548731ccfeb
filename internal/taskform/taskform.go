// Package taskform converts between the editable task form and the
// persisted task entity.
package taskform

import (
	"time"

	"task-tracker/internal/model"
)

// TaskForm carries the user-editable fields of a task. IsNewTask tells the
// presentation whether the form creates a task or edits one; it is never
// stored.
type TaskForm struct {
	TypeID    int        `json:"typeId" validate:"required,min=1"`
	Title     string     `json:"title" validate:"required,max=20"`
	Detail    string     `json:"detail" validate:"max=256"`
	Deadline  *time.Time `json:"deadline"`
	IsNewTask bool       `json:"isNewTask"`
}

// Mapper stamps entities with the owning user.
type Mapper struct {
	OwnerID int
}

// ToEntity builds a task from the form. existingID of 0 leaves the id
// unset so the store assigns one on insert.
func (m Mapper) ToEntity(form TaskForm, existingID int) model.Task {
	return model.Task{
		ID:       existingID,
		UserID:   m.OwnerID,
		TypeID:   form.TypeID,
		Title:    form.Title,
		Detail:   form.Detail,
		Deadline: form.Deadline,
	}
}

func (m Mapper) ToForm(task model.Task) TaskForm {
	return TaskForm{
		TypeID:    task.TypeID,
		Title:     task.Title,
		Detail:    task.Detail,
		Deadline:  task.Deadline,
		IsNewTask: false,
	}
}
